package middleware

import (
	"context"
	"net/http"

	"reading-room-library/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionMiddleware dodaje sesję do kontekstu jeśli istnieje
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, exists := session.GetSessionFromRequest(r)
		if exists {
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth wymaga zalogowania użytkownika
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSessionFromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin wymaga zalogowania i roli administratora. Rola pochodzi z
// globalnej listy administratorów rozstrzygniętej przy logowaniu -
// żaden handler nie zagląda do niej samodzielnie.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSessionFromContext(r.Context())
		if sess == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if !sess.IsAdmin {
			http.Error(w, "Brak uprawnień", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext pobiera sesję z kontekstu
func GetSessionFromContext(ctx context.Context) *session.Session {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
