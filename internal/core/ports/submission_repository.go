package ports

import (
	"context"
	"time"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// SubmissionRepository defines persistence for member submissions.
//
// SetModeration and ClaimForMagazine are conditional check-and-set updates:
// the filter includes the required current state, so two concurrent callers
// cannot both succeed on the same submission.
type SubmissionRepository interface {
	Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error)
	FindByID(ctx context.Context, id string) (*domain.Submission, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*domain.Submission, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]*domain.Submission, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Submission, error)

	// SetModeration transitions status from->to and records the decision
	// time. Returns ErrSubmissionNotFound when no document matches the id
	// and the expected current status.
	SetModeration(ctx context.Context, id string, from, to domain.SubmissionStatus, at time.Time) error

	// ClaimForMagazine assigns an approved, unassigned submission to a
	// magazine. Returns ErrSubmissionNotFound when the conditional update
	// matches nothing; the service classifies the cause.
	ClaimForMagazine(ctx context.Context, submissionID, magazineID string) error

	// ReleaseClaim undoes a claim made by ClaimForMagazine, used to roll
	// back a partially assembled draft.
	ReleaseClaim(ctx context.Context, submissionID, magazineID string) error

	CountByStatus(ctx context.Context, status domain.SubmissionStatus) (int64, error)
}
