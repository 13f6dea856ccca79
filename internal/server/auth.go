package server

import (
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		writeError(w, common.NewAppError("BAD_REGISTRATION",
			"name, email and a password of at least 8 characters are required", common.ErrInvalidInput))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := s.users.Create(r.Context(), req.Name, req.Email, string(hash), req.Company)
	if err != nil {
		writeError(w, err)
		return
	}

	token, expiresAt, err := GenerateToken(user.ID, user.Email, s.cfg.Auth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	badCredentials := common.NewAppError("BAD_CREDENTIALS", "invalid email or password", common.ErrUnauthorized)

	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, badCredentials)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, badCredentials)
		return
	}

	token, expiresAt, err := GenerateToken(user.ID, user.Email, s.cfg.Auth)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByID(r.Context(), UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"company": user.Company,
	})
}
