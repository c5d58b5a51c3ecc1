package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/api/middleware"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. A missing id means the middleware did not run on this route;
// fail closed rather than scope a query to nobody.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
