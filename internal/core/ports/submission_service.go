package ports

import (
	"context"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// SubmitInput carries a new submission from the transport layer.
type SubmitInput struct {
	AuthorID string
	Category string
	Body     string
}

// ModerationDecision is the moderator's verdict on a pending submission.
type ModerationDecision string

const (
	DecisionApprove ModerationDecision = "approve"
	DecisionReject  ModerationDecision = "reject"
)

// ModerateInput carries a moderation decision.
type ModerateInput struct {
	SubmissionID string
	Decision     ModerationDecision
	ModeratorID  string
}

// SubmissionService covers submission intake and moderation. Content is
// immutable after intake; there is deliberately no update operation.
type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error)
	ListMine(ctx context.Context, authorID string) ([]*domain.Submission, error)
	// PendingQueue lists submissions awaiting moderation. Moderator only,
	// enforced at the transport layer.
	PendingQueue(ctx context.Context) ([]*domain.Submission, error)
	// Moderate applies an approve/reject decision to a pending submission.
	// Decisions on non-pending submissions fail with
	// ErrInvalidSubmissionState.
	Moderate(ctx context.Context, input ModerateInput) (*domain.Submission, error)
}
