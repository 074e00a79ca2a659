package middleware

import (
	"net/http"

	"github.com/viannadoces/doceria-web/pkg/logger"
	"github.com/viannadoces/doceria-web/pkg/session"
)

// Session resolves the browser session once per request and stores it in the
// context. Anonymous requests pass through with no session attached.
func Session(sessions session.Reader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sess := sessions.Read(r); sess != nil {
				ctx = WithSession(ctx, sess)
				if logg != nil {
					ctx = logg.WithUserID(ctx, sess.UserID)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession gates a route group behind an active session. Anonymous
// requests get a single redirect to the login screen, never an error page.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectAuthenticated sends signed-in users away from the auth screens.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) != nil {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
