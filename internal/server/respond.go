package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response failed", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become
// an opaque 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	code := ""
	if errors.As(err, &appErr) {
		code = appErr.Code
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrConflict):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{Error: clientMessage(err), Code: code})
}

// clientMessage is the client-safe text for err: AppError messages and
// domain sentinels pass through, anything else is hidden.
func clientMessage(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	switch {
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrConflict):
		return err.Error()
	}
	return "internal server error"
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewAppError("BAD_JSON", "invalid request body", common.ErrInvalidInput)
	}
	return nil
}

func decodeJSONBytes(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return common.NewAppError("BAD_JSON", "invalid request body", common.ErrInvalidInput)
	}
	return nil
}
