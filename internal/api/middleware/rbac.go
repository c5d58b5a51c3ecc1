package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// RequireRole enforces a minimum role tier. There is exactly one comparison
// in the whole codebase: domain.Role.AtLeast. Must run after Auth.
func RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(domain.Role)
			if !role.AtLeast(min) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

// RequireModerator admits moderators and admins.
func RequireModerator() echo.MiddlewareFunc {
	return RequireRole(domain.RoleModerator)
}

// RequireAdmin admits admins only.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}
