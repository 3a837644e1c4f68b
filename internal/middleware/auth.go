package middleware

import (
	"net/http"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/logger"
)

// AccessDeniedMessage is the body of every 403 from the middleware.
const AccessDeniedMessage = "You must be logged in to access this content."

// PrincipalResolver reports who a request acts as. session.Manager
// implements it.
type PrincipalResolver interface {
	Current(r *http.Request) (auth.Principal, error)
}

type AuthMiddleware struct {
	Sessions PrincipalResolver
}

func NewAuthMiddleware(sessions PrincipalResolver) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// RequireAuth serves denied for anonymous requests and never calls next
// for them. Authenticated requests reach next with the principal on the
// request context.
func (a *AuthMiddleware) RequireAuth(next, denied http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.Sessions.Current(r)
		if err != nil {
			logger.Error("session lookup failed", map[string]any{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if !p.IsAuthenticated() {
			denied.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}

// Forbidden is the uniform access-denied response.
func Forbidden() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, AccessDeniedMessage, http.StatusForbidden)
	})
}
