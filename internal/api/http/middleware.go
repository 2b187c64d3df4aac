package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lebs-backend/internal/logger"
	"lebs-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "staff_claims"

// StaffFromContext returns the authenticated staff claims, if any.
func StaffFromContext(ctx context.Context) *security.StaffClaims {
	claims, _ := ctx.Value(claimsKey).(*security.StaffClaims)
	return claims
}

// AuthMiddleware validates bearer tokens of the given type and stores the
// claims on the request context. Access tokens guard the staff API; the
// otp_pending type only unlocks the OTP verification endpoints.
func AuthMiddleware(tokens security.TokenManager, want security.TokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, err)
				return
			}
			if claims.Type != want {
				writeError(w, security.ErrWrongTokenType)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware records each request with its duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
