package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephfleury/technical-challenge/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSessions struct {
	principal auth.Principal
	err       error
}

func (s stubSessions) Current(*http.Request) (auth.Principal, error) {
	return s.principal, s.err
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		sessions   stubSessions
		wantStatus int
		wantBody   string
		wantNext   bool
	}{
		{
			name:       "anonymous is denied",
			sessions:   stubSessions{principal: auth.Anonymous()},
			wantStatus: http.StatusForbidden,
			wantBody:   AccessDeniedMessage,
		},
		{
			name:       "authenticated reaches next",
			sessions:   stubSessions{principal: auth.Authenticated("42")},
			wantStatus: http.StatusOK,
			wantBody:   "identity:42",
			wantNext:   true,
		},
		{
			name:       "store failure is not authentication",
			sessions:   stubSessions{err: errors.New("redis down")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				_, _ = w.Write([]byte(auth.PrincipalFromContext(r.Context()).String()))
			})

			rr := httptest.NewRecorder()
			NewAuthMiddleware(tt.sessions).RequireAuth(next, Forbidden()).
				ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/logout", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, called)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestGinRequireAuth(t *testing.T) {
	newRouter := func(sessions stubSessions, reached *bool) *gin.Engine {
		r := gin.New()
		mw := NewAuthMiddleware(sessions)
		r.GET("/private", GinRequireAuth(mw, Forbidden()), func(c *gin.Context) {
			*reached = true
			id, _ := auth.PrincipalFromContext(c.Request.Context()).IdentityID()
			c.String(http.StatusOK, id)
		})
		return r
	}

	t.Run("denied aborts the chain", func(t *testing.T) {
		reached := false
		rr := httptest.NewRecorder()
		newRouter(stubSessions{}, &reached).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.False(t, reached)
	})

	t.Run("custom denial with 200 still aborts", func(t *testing.T) {
		reached := false
		r := gin.New()
		prompt := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("please log in"))
		})
		r.POST("/", GinRequireAuth(NewAuthMiddleware(stubSessions{}), prompt), func(c *gin.Context) {
			reached = true
		})

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "please log in", rr.Body.String())
		assert.False(t, reached)
	})

	t.Run("principal visible to gin handlers", func(t *testing.T) {
		reached := false
		rr := httptest.NewRecorder()
		newRouter(stubSessions{principal: auth.Authenticated("42")}, &reached).
			ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))

		require.True(t, reached)
		assert.Equal(t, "42", rr.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, rr.Header().Get(RequestIDHeader), 36)
	})

	t.Run("echoes client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	})
}
