package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lukeodrobinak/KSSMInventoryServer/internal/auth"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/authz"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/model"
	"github.com/lukeodrobinak/KSSMInventoryServer/internal/store"
)

type contextKey string

const subjectKey contextKey = "subject"

// AuthMiddleware validates the bearer token and resolves the acting user
// from the database, so role changes and deactivation take effect on the
// next request rather than at token expiry.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ValidateToken(secret, tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			user, err := store.GetUser(r.Context(), db, claims.UserID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if user == nil {
				jsonError(w, http.StatusUnauthorized, "user not found")
				return
			}
			if !user.IsActive {
				jsonError(w, http.StatusForbidden, "account is inactive")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require returns middleware that gates the route on the role policy for op.
func Require(op authz.Op) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := GetSubject(r.Context())
			if err := authz.Check(subject, op); err != nil {
				if errors.Is(err, authz.ErrInactiveAccount) {
					jsonError(w, http.StatusForbidden, "account is inactive")
					return
				}
				jsonError(w, http.StatusForbidden, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSubject retrieves the acting user from the context.
func GetSubject(ctx context.Context) *model.User {
	user, _ := ctx.Value(subjectKey).(*model.User)
	return user
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// CORSMiddleware allows the mobile client to call the API from any origin.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
