package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/api/metrics"
	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// AccessCookieName is the cookie carrying the access token. The refresh
// token travels in its own cookie scoped to the renewal path only.
const (
	AccessCookieName  = "magazine_at"
	RefreshCookieName = "magazine_rt"
)

// Context keys populated for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

// signInAgainMsg is deliberately generic: end users never learn which token
// check failed. The specific kind is only counted and logged.
const signInAgainMsg = "please sign in again"

// Auth verifies the access token and injects claims into the echo context.
// The token is read from the access cookie, falling back to an
// Authorization: Bearer header for non-browser clients.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractAccessToken(c)
			if raw == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, signInAgainMsg)
			}

			claims, err := tokens.VerifyAccess(raw)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, signInAgainMsg)
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxClaims, claims)

			return next(c)
		}
	}
}

// extractAccessToken prefers the cookie carrier; the bearer header is the
// fallback for API clients.
func extractAccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
