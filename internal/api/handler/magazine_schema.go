package handler

import "github.com/communityzine/magazine-system/internal/core/domain"

type assembleRequest struct {
	Title         string   `json:"title"          validate:"required,min=1,max=120"`
	SubmissionIDs []string `json:"submission_ids" validate:"required,min=1,dive,required"`
}

type magazineListResponse struct {
	Items []*domain.Magazine `json:"items"`
	Count int                `json:"count"`
}

// latestResponse carries the most recent issue with its content in reading
// order, or a null issue plus the archive so readers always have something
// to fall back to.
type latestResponse struct {
	Issue       *domain.Magazine     `json:"issue"`
	Submissions []*domain.Submission `json:"submissions,omitempty"`
	Archive     []*domain.Magazine   `json:"archive,omitempty"`
}
