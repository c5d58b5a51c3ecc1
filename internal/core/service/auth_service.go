package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// DefaultBcryptCost is deliberately above bcrypt.DefaultCost; password
// verification is the slow path by design.
const DefaultBcryptCost = 12

// AuthService implements registration, login, and administrative account
// changes. Token issuance is delegated to the token service.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenService
	bcryptCost int
	logger     zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, logger: logger}
}

// Register creates a member account. New accounts always start with role
// user; elevation goes through SetRole.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || displayName == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("account registered")
	return created, nil
}

// Login verifies credentials and issues a token pair. Every failure mode
// maps to ErrInvalidCredentials so the response does not reveal whether the
// account exists or is disabled.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.Disabled {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return user, pair, nil
}

// SetRole changes an account's role tier.
func (s *AuthService) SetRole(ctx context.Context, userID string, role domain.Role) error {
	if !role.Valid() {
		return domain.ErrForbidden
	}
	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("role", string(role)).Msg("role changed")
	return nil
}

// Disable soft-disables an account. The account's submissions and
// authorship references remain intact.
func (s *AuthService) Disable(ctx context.Context, userID string) error {
	if err := s.repo.SetDisabled(ctx, userID, true); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("account disabled")
	return nil
}

// EnsureAdmin seeds the bootstrap admin account when no admin exists yet.
// There is no compiled-in default: both values come from the environment,
// and production deployments must provide a password of at least
// minAdminPasswordLength characters.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string, production bool) error {
	if email == "" || password == "" {
		if production {
			return errors.New("auth: bootstrap admin credentials required in production")
		}
		return nil
	}
	if production && len(password) < minAdminPasswordLength {
		return errors.New("auth: bootstrap admin password too short for production")
	}

	count, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Email:        normalizeEmail(email),
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.repo.Create(ctx, admin); err != nil {
		// A concurrent replica may have seeded first; that is fine.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	s.logger.Info().Str("email", admin.Email).Msg("bootstrap admin created")
	return nil
}

const minAdminPasswordLength = 12

// normalizeEmail lower-cases and trims an email for the unique-index lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
