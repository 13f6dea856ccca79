package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

func authCfg() common.AuthConfig {
	return common.AuthConfig{JWTSecret: "test-secret", TokenExpiry: time.Hour}
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	token, _, err := GenerateToken(userID, "ana@example.com", authCfg())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	otherSecret, _, err := GenerateToken(userID, "ana@example.com",
		common.AuthConfig{JWTSecret: "outro-segredo", TokenExpiry: time.Hour})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	expired, _, err := GenerateToken(userID, "ana@example.com",
		common.AuthConfig{JWTSecret: "test-secret", TokenExpiry: -time.Hour})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   bool
	}{
		{"valid token", "Bearer " + token, http.StatusOK, true},
		{"missing header", "", http.StatusUnauthorized, false},
		{"not bearer", "Basic abc", http.StatusUnauthorized, false},
		{"garbage token", "Bearer nao-e-um-jwt", http.StatusUnauthorized, false},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized, false},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser uuid.UUID
			handler := Authenticate(authCfg())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = UserID(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantUser && gotUser != userID {
				t.Errorf("user id = %s, want %s", gotUser, userID)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := RateLimit(1, 2, logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("burst requests = %v, first two should pass", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want %d", statuses[2], http.StatusTooManyRequests)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestValidateOverridesSchema(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"empty object", `{}`, false},
		{"full override", `{"name":"CND","type":"certidao","categoryId":"fiscal","issueDate":"2025-03-10","tags":["federal"]}`, false},
		{"unknown field", `{"color":"azul"}`, true},
		{"type outside enum", `{"type":"licenca"}`, true},
		{"date wrong shape", `{"expirationDate":"10-03-2025"}`, true},
		{"empty name", `{"name":""}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOverrides([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateOverrides(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
		})
	}
}
