package handler

import (
	"crypto/subtle"
	"net/http"
	"time"
)

const stateCookieName = "__oauth_state"

// setStateCookie binds the login attempt to this browser. The callback
// must present the same value in both the query and the cookie.
func setStateCookie(w http.ResponseWriter, state string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     CallbackPath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     CallbackPath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// validateState returns the callback's state when it matches the cookie.
func validateState(r *http.Request) (string, bool) {
	state := r.URL.Query().Get("state")
	if state == "" {
		return "", false
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return "", false
	}
	return state, true
}
