package httpserver

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/expense_tracker/internal/tokens"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

// newAuthCookie builds a token-bearing cookie. SameSite=None only works on
// secure cookies, so the two attributes switch together: production gets
// Secure+None, local debug gets plain+Lax.
func newAuthCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

func deleteCookie(name string, secure bool) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
	}
}

func accessCookie(token string, secure bool) *http.Cookie {
	return newAuthCookie(accessCookieName, token, tokens.AccessTokenTTL, secure)
}

func refreshCookie(token string, secure bool) *http.Cookie {
	return newAuthCookie(refreshCookieName, token, tokens.RefreshTokenTTL, secure)
}
