package ports

import (
	"context"
	"time"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// Claims is the verified content of an access token.
type Claims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is a freshly issued session: a short-lived signed access token
// and a longer-lived opaque refresh token. The refresh token is the sole
// mechanism to mint a new access token without re-submitting credentials.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues, verifies, rotates, and revokes session tokens.
type TokenService interface {
	// Issue produces a new token pair for a verified identity.
	Issue(ctx context.Context, user *domain.User) (*TokenPair, error)
	// VerifyAccess validates the access token signature, structure, and
	// expiry. It fails with ErrTokenExpired, ErrTokenInvalid, or
	// ErrTokenMalformed. Role sufficiency is never checked here.
	VerifyAccess(token string) (*Claims, error)
	// Rotate consumes a refresh token and issues a fresh pair. Rotation is
	// single-use: a refresh token that was already rotated or revoked fails
	// with ErrTokenInvalid.
	Rotate(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Revoke invalidates a refresh token lineage. Clearing the transport
	// cookies is the HTTP layer's job.
	Revoke(ctx context.Context, refreshToken string) error
}
