package session

import (
	"net/http"
	"time"
)

const (
	// CookieName is used when cookies are Secure; browsers only accept
	// the __Host- prefix on HTTPS without a Domain attribute.
	CookieName = "__Host-session"

	// InsecureCookieName is the fallback for plain-HTTP development.
	InsecureCookieName = "session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Name     string
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	Domain   string // should usually be empty for __Host- cookies
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Name == "" {
		o.Name = InsecureCookieName
		if o.Secure {
			o.Name = CookieName
		}
	}
	if o.Path == "" {
		o.Path = "/"
	}
	if !o.HttpOnly {
		o.HttpOnly = true
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie issues the session cookie, valid until expiresAt.
func SetCookie(w http.ResponseWriter, sessionID string, expiresAt time.Time, opts CookieOptions) {
	c := opts.normalize().cookie(sessionID)
	c.Expires = expiresAt
	http.SetCookie(w, c)
}

// ClearCookie tells the client to drop the session cookie.
func ClearCookie(w http.ResponseWriter, opts CookieOptions) {
	c := opts.normalize().cookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// ReadCookie returns the session id carried by r, or "" if none.
func ReadCookie(r *http.Request, opts CookieOptions) string {
	c, err := r.Cookie(opts.normalize().Name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (o CookieOptions) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     o.Name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		HttpOnly: o.HttpOnly,
		Secure:   o.Secure,
		SameSite: o.SameSite,
	}
}
