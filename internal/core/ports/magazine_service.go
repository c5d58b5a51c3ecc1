package ports

import (
	"context"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// DashboardResult is the statistics export for moderator dashboards:
// current drafts plus fresh aggregate counts.
type DashboardResult struct {
	Magazines []*domain.Magazine `json:"magazines"`
	Stats     *domain.Statistics `json:"stats"`
}

// MagazineService orchestrates the draft->published issue lifecycle.
type MagazineService interface {
	// ListDrafts returns unpublished issues, newest first. Moderator only,
	// enforced at the transport layer.
	ListDrafts(ctx context.Context) ([]*domain.Magazine, error)
	// AssembleDraft creates a draft issue from approved, unassigned
	// submissions. Any submission that is not approved fails the whole call
	// with ErrInvalidSubmissionState; one already in another issue fails
	// with ErrAlreadyAssigned. No partial drafts are left behind.
	AssembleDraft(ctx context.Context, title string, submissionIDs []string) (*domain.Magazine, error)
	// Publish makes a draft public exactly once. Irreversible.
	Publish(ctx context.Context, magazineID string) (*domain.Magazine, error)
	// LatestPublic returns the most recently published issue together with
	// its submissions in the issue's curated order, or a nil issue when
	// nothing has ever been published; callers fall back to ListPublic.
	LatestPublic(ctx context.Context) (*domain.Magazine, []*domain.Submission, error)
	// ListPublic returns the public archive, most recent first.
	ListPublic(ctx context.Context) ([]*domain.Magazine, error)
	// Statistics recomputes aggregate counts from the repositories on every
	// call; nothing is cached.
	Statistics(ctx context.Context) (*domain.Statistics, error)
	// Dashboard bundles drafts and statistics for the moderator dashboard.
	Dashboard(ctx context.Context) (*DashboardResult, error)
}
