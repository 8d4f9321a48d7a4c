package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/drazba/internal/auth"
)

// Cookie names for the two token kinds. Neither cookie grants the other's
// capability: both run through the same signature check, but the admin
// cookie must decode to the reserved admin id and passes a shorter max-age.
const (
	sessionCookie = "session"
	adminCookie   = "admin_session"
)

type contextKey string

const accountIDKey contextKey = "account_id"

// sessionAccountID extracts and validates the bidder session cookie,
// returning the account id it encodes.
func sessionAccountID(r *http.Request, secret string) (int64, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, fmt.Errorf("no session cookie")
	}
	return auth.ValidateKind(secret, cookie.Value, auth.KindSession)
}

// SessionAuth validates the bidder session cookie and adds the account id
// to the request context. Invalid or missing sessions get 401.
func SessionAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := sessionAccountID(r, secret)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth validates the admin session cookie. Invalid, missing or
// non-admin tokens get 401.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminCookie)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if _, err := auth.ValidateKind(secret, cookie.Value, auth.KindAdmin); err != nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAccountID retrieves the authenticated account id from the context.
// Returns 0 (the reserved admin id, never a bidder) when unauthenticated.
func GetAccountID(ctx context.Context) int64 {
	id, _ := ctx.Value(accountIDKey).(int64)
	return id
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
