package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the name of the session-identifying cookie.
const SessionCookieName = "session"

// SessionCookieMaxAge matches the server-side session lifetime (7 days).
const SessionCookieMaxAge = 7 * 24 * time.Hour

// SessionCookie builds the cookie carrying a session token.
// The HTTP layer sets this on login and registration.
func SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(SessionCookieMaxAge.Seconds()),
	}
}

// ClearSessionCookie builds an expired session cookie.
// The HTTP layer sets this on logout.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   -1,
	}
}
