package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/core/ports"
)

// SubmissionHandler serves submission intake and the moderation queue.
type SubmissionHandler struct {
	submissions ports.SubmissionService
}

func NewSubmissionHandler(submissions ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Submit accepts a new piece of member content.
//
// @Summary      Submit content for the next issue
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      submitRequest  true  "Submission"
// @Success      201   {object}  domain.Submission
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/submissions [post]
func (h *SubmissionHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	created, err := h.submissions.Submit(c.Request().Context(), ports.SubmitInput{
		AuthorID: userID,
		Category: req.Category,
		Body:     req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// ListMine returns the caller's own submissions, regardless of status.
//
// @Summary      List my submissions
// @Tags         submissions
// @Produce      json
// @Security     CookieAuth
// @Success      200   {object}  submissionListResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/submissions/mine [get]
func (h *SubmissionHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	items, err := h.submissions.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, submissionListResponse{Items: items, Count: len(items)})
}

// Queue lists pending submissions awaiting moderation. Moderator only.
//
// @Summary      Moderation queue
// @Tags         moderation
// @Produce      json
// @Security     CookieAuth
// @Success      200   {object}  submissionListResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/moderation/queue [get]
func (h *SubmissionHandler) Queue(c echo.Context) error {
	items, err := h.submissions.PendingQueue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, submissionListResponse{Items: items, Count: len(items)})
}

// Moderate applies an approve/reject decision to a pending submission.
// Moderator only.
//
// @Summary      Moderate a submission
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string           true  "Submission id"
// @Param        body  body      moderateRequest  true  "Decision"
// @Success      200   {object}  domain.Submission
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/moderation/submissions/{id} [post]
func (h *SubmissionHandler) Moderate(c echo.Context) error {
	var req moderateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	moderatorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	updated, err := h.submissions.Moderate(c.Request().Context(), ports.ModerateInput{
		SubmissionID: c.Param("id"),
		Decision:     ports.ModerationDecision(req.Decision),
		ModeratorID:  moderatorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
