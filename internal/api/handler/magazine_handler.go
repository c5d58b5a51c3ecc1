package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/core/ports"
)

// MagazineHandler serves the issue lifecycle and the public reading surface.
type MagazineHandler struct {
	magazines ports.MagazineService
}

func NewMagazineHandler(magazines ports.MagazineService) *MagazineHandler {
	return &MagazineHandler{magazines: magazines}
}

// ListDrafts returns unpublished issues, newest first. Moderator only.
//
// @Summary      List draft issues
// @Tags         magazines
// @Produce      json
// @Security     CookieAuth
// @Success      200   {object}  magazineListResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/magazines/drafts [get]
func (h *MagazineHandler) ListDrafts(c echo.Context) error {
	items, err := h.magazines.ListDrafts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, magazineListResponse{Items: items, Count: len(items)})
}

// Assemble creates a draft issue from approved submissions. Moderator only.
//
// @Summary      Assemble a draft issue
// @Tags         magazines
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      assembleRequest  true  "Draft contents"
// @Success      201   {object}  domain.Magazine
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/magazines [post]
func (h *MagazineHandler) Assemble(c echo.Context) error {
	var req assembleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.magazines.AssembleDraft(c.Request().Context(), req.Title, req.SubmissionIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Publish makes a draft issue public. Moderator only, irreversible.
//
// @Summary      Publish a draft issue
// @Tags         magazines
// @Produce      json
// @Security     CookieAuth
// @Param        id  path  string  true  "Magazine id"
// @Success      200   {object}  domain.Magazine
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/magazines/{id}/publish [post]
func (h *MagazineHandler) Publish(c echo.Context) error {
	published, err := h.magazines.Publish(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, published)
}

// Latest returns the most recently published issue with its submissions in
// reading order. When nothing has ever been published the issue is null and
// the archive list is included so the reader page can fall back without a
// second request.
//
// @Summary      Latest public issue
// @Tags         magazines
// @Produce      json
// @Success      200   {object}  latestResponse
// @Router       /v1/magazines/latest [get]
func (h *MagazineHandler) Latest(c echo.Context) error {
	issue, submissions, err := h.magazines.LatestPublic(c.Request().Context())
	if err != nil {
		return err
	}
	if issue == nil {
		archive, err := h.magazines.ListPublic(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, latestResponse{Issue: nil, Archive: archive})
	}
	return c.JSON(http.StatusOK, latestResponse{Issue: issue, Submissions: submissions})
}

// ListPublic returns the public archive. Strictly published issues only.
//
// @Summary      Public issue archive
// @Tags         magazines
// @Produce      json
// @Success      200   {object}  magazineListResponse
// @Router       /v1/magazines [get]
func (h *MagazineHandler) ListPublic(c echo.Context) error {
	items, err := h.magazines.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, magazineListResponse{Items: items, Count: len(items)})
}

// Dashboard returns drafts plus fresh statistics for the moderator
// dashboard. Moderator only.
//
// @Summary      Editorial dashboard
// @Tags         magazines
// @Produce      json
// @Security     CookieAuth
// @Success      200   {object}  ports.DashboardResult
// @Failure      403   {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *MagazineHandler) Dashboard(c echo.Context) error {
	result, err := h.magazines.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
