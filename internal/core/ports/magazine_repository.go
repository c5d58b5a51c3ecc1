package ports

import (
	"context"
	"time"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// MagazineRepository defines persistence for magazine issues.
type MagazineRepository interface {
	// NewID mints an issue id without touching storage. Assembly claims
	// submissions against the id before the issue document exists, so the
	// issue only becomes visible once all of its content is secured.
	NewID() string
	// Create inserts an issue under the id the caller minted with NewID.
	Create(ctx context.Context, m *domain.Magazine) (*domain.Magazine, error)
	FindByID(ctx context.Context, id string) (*domain.Magazine, error)
	// ListDrafts returns unpublished issues, newest first.
	ListDrafts(ctx context.Context) ([]*domain.Magazine, error)
	// ListPublished returns public issues, most recently published first.
	ListPublished(ctx context.Context) ([]*domain.Magazine, error)
	// LatestPublished returns the most recently published issue, breaking
	// published_at ties by highest id. Returns ErrMagazineNotFound when
	// nothing has ever been published.
	LatestPublished(ctx context.Context) (*domain.Magazine, error)
	// MarkPublished flips a draft to public and stamps published_at, as a
	// single conditional update on is_public=false. A concurrent loser or a
	// repeat call gets ErrAlreadyPublished; an unknown id gets
	// ErrMagazineNotFound.
	MarkPublished(ctx context.Context, id string, at time.Time) error
	CountDrafts(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
}
