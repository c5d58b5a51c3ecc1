package ports

import (
	"context"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// AuthService implements registration, credential verification, and
// administrative account changes. Token issuance is delegated to TokenService.
type AuthService interface {
	// Register creates a member account with role user.
	Register(ctx context.Context, email, displayName, password string) (*domain.User, error)
	// Login verifies credentials and returns the account plus a fresh token
	// pair. Disabled accounts fail with ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	// SetRole changes an account's role tier. Admin only, enforced at the
	// transport layer.
	SetRole(ctx context.Context, userID string, role domain.Role) error
	// Disable soft-disables an account.
	Disable(ctx context.Context, userID string) error
}
