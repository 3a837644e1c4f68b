package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. Requests that
// are denied never reach the rest of the Gin chain.
func GinRequireAuth(auth *AuthMiddleware, denied http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		auth.RequireAuth(next, denied).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
