package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Claims carries the authenticated user identity inside the JWT.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 token for a user.
func GenerateToken(userID uuid.UUID, email string, cfg common.AuthConfig) (string, time.Time, error) {
	expiresAt := time.Now().Add(cfg.TokenExpiry)
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Authenticate validates the Bearer token and stores the user ID in the
// request context.
func Authenticate(cfg common.AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, common.NewAppError("NO_TOKEN", "authorization header required", common.ErrUnauthorized))
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, common.NewAppError("BAD_TOKEN", "invalid authorization header format", common.ErrUnauthorized))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				writeError(w, common.NewAppError("BAD_TOKEN", "invalid or expired token", common.ErrUnauthorized))
				return
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				writeError(w, common.NewAppError("BAD_TOKEN", "invalid or expired token", common.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user from the request context.
func UserID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(userIDKey).(uuid.UUID)
	return id
}

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	mu    sync.Mutex
	ips   map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newIPRateLimiter(rps, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		ips:   make(map[string]*rate.Limiter),
		limit: rate.Limit(rps),
		burst: burst,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.ips[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.ips[ip] = limiter
	}
	return limiter
}

// RateLimit rejects requests exceeding the per-IP budget with 429.
func RateLimit(rps, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !limiter.get(ip).Allow() {
				logger.Warn("rate limit exceeded", "client_ip", ip, "request_id", middleware.GetReqID(r.Context()))
				writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
