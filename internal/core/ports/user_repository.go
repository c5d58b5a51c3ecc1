package ports

import (
	"context"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// UserRepository defines persistence for member accounts. Emails are stored
// lower-cased; FindByEmail expects the caller to normalize first.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// SetDisabled soft-disables an account. Accounts are never hard-deleted.
	SetDisabled(ctx context.Context, id string, disabled bool) error
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
