package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/api/middleware"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// refreshCookiePath restricts the refresh token to the renewal endpoint so
// it never rides along on ordinary requests.
const refreshCookiePath = "/auth/refresh"

// writeSessionCookies sets both token cookies from a freshly issued pair.
// HttpOnly + SameSite=Strict always; Secure only outside development so
// local plain-HTTP testing keeps working.
func writeSessionCookies(c echo.Context, pair *ports.TokenPair, secure bool) {
	now := time.Now().UTC()
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.AccessExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(pair.RefreshExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies logs the session out at the transport level by
// expiring both cookies (max-age zero semantics).
func clearSessionCookies(c echo.Context, secure bool) {
	for _, ck := range []struct {
		name string
		path string
	}{
		{middleware.AccessCookieName, "/"},
		{middleware.RefreshCookieName, refreshCookiePath},
	} {
		c.SetCookie(&http.Cookie{
			Name:     ck.name,
			Value:    "",
			Path:     ck.path,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
