package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// RefreshStore abstracts the refresh-token lineage store (Redis). Only
// SHA-256 hashes of refresh tokens are ever stored.
type RefreshStore interface {
	// Save records a refresh token hash for a user with the given TTL.
	Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// Consume atomically retrieves and removes a hash, returning the owning
	// user id, or "" when the hash is unknown. Atomicity is what makes
	// rotation single-use under concurrent refresh attempts.
	Consume(ctx context.Context, tokenHash string) (string, error)
	// Delete removes a hash without returning it (revocation).
	Delete(ctx context.Context, tokenHash string) error
}

const refreshTokenBytes = 48

// TokenService issues HS256-signed access tokens and opaque refresh tokens.
type TokenService struct {
	users      ports.UserRepository
	store      RefreshStore
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a TokenService. An empty signing secret is fatal:
// callers must refuse to serve auth routes rather than fall back to a weak key.
func NewTokenService(users ports.UserRepository, store RefreshStore, secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, domain.ErrSigningKeyMissing
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		users:      users,
		store:      store,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue produces a fresh access/refresh pair for a verified identity.
func (s *TokenService) Issue(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(s.accessTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  accessExp.Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	raw, err := randomHex(refreshTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	refreshExp := now.Add(s.refreshTTL)
	if err := s.store.Save(ctx, hashRefresh(raw), user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &ports.TokenPair{
		AccessToken:      access,
		RefreshToken:     raw,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess validates signature, structure, and expiry of an access token.
// Role sufficiency is the authorization middleware's job, never checked here.
func (s *TokenService) VerifyAccess(token string) (*ports.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	roleStr, _ := claims["role"].(string)
	role := domain.Role(roleStr)
	if sub == "" || !role.Valid() {
		return nil, domain.ErrTokenMalformed
	}

	out := &ports.Claims{UserID: sub, Role: role}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0).UTC()
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	} else {
		return nil, domain.ErrTokenMalformed
	}
	return out, nil
}

// Rotate consumes a refresh token and issues a fresh pair. The consumed hash
// is gone from the store before the new pair exists, so replaying the old
// refresh token fails with ErrTokenInvalid.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrTokenMalformed
	}

	userID, err := s.store.Consume(ctx, hashRefresh(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if userID == "" {
		return nil, domain.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Disabled {
		return nil, domain.ErrInvalidCredentials
	}

	return s.Issue(ctx, user)
}

// Revoke invalidates a refresh token lineage. Unknown tokens are not an
// error: revoking twice is harmless.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.store.Delete(ctx, hashRefresh(refreshToken))
}

// hashRefresh returns the hex SHA-256 of a raw refresh token. The raw value
// never touches storage.
func hashRefresh(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns n bytes of cryptographically secure randomness, hex encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
