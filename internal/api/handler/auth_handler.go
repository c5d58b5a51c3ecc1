package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/api/middleware"
	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// AuthHandler serves registration, login, token rotation, and logout, plus
// the admin-only account endpoints.
type AuthHandler struct {
	auth          ports.AuthService
	tokens        ports.TokenService
	secureCookies bool
}

func NewAuthHandler(auth ports.AuthService, tokens ports.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, secureCookies: secureCookies}
}

// Register creates a new member account.
//
// @Summary      Register a new member
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login verifies credentials and starts a cookie session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	writeSessionCookies(c, pair, h.secureCookies)
	return c.JSON(http.StatusOK, authResponse{User: user})
}

// Refresh rotates the refresh token and reissues both cookies. The old
// refresh token is consumed whether or not the caller stores the new one.
//
// @Summary      Rotate the session tokens
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(middleware.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "please sign in again")
	}

	pair, err := h.tokens.Rotate(c.Request().Context(), cookie.Value)
	if err != nil {
		clearSessionCookies(c, h.secureCookies)
		return err
	}

	writeSessionCookies(c, pair, h.secureCookies)
	return c.NoContent(http.StatusNoContent)
}

// Logout revokes the refresh lineage and expires both cookies.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.RefreshCookieName); err == nil && cookie.Value != "" {
		_ = h.tokens.Revoke(c.Request().Context(), cookie.Value)
	}
	clearSessionCookies(c, h.secureCookies)
	return c.NoContent(http.StatusNoContent)
}

// SetRole changes an account's role tier. Admin only.
//
// @Summary      Change a member's role
// @Tags         admin
// @Accept       json
// @Param        id    path      string          true  "User id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/users/{id}/role [post]
func (h *AuthHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.auth.SetRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Disable soft-disables an account. Admin only.
//
// @Summary      Disable a member account
// @Tags         admin
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/users/{id}/disable [post]
func (h *AuthHandler) Disable(c echo.Context) error {
	if err := h.auth.Disable(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
