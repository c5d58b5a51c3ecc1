package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

const testSecret = "test-signing-secret"

func newTestTokenService(t *testing.T, users *stubUserRepo, accessTTL time.Duration) (*TokenService, *stubRefreshStore) {
	t.Helper()
	store := newStubRefreshStore()
	svc, err := NewTokenService(users, store, testSecret, accessTTL, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc, store
}

func seedUser(t *testing.T, users *stubUserRepo, role domain.Role) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Email:        "member@example.com",
		DisplayName:  "Member",
		PasswordHash: "irrelevant",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestTokenService_MissingSecretIsFatal(t *testing.T) {
	_, err := NewTokenService(newStubUserRepo(), newStubRefreshStore(), "", time.Minute, time.Hour)
	if !errors.Is(err, domain.ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}

func TestTokenService_IssueThenVerify(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleModerator)
	svc, _ := newTestTokenService(t, users, 15*time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	claims, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != domain.RoleModerator {
		t.Fatalf("expected role moderator, got %s", claims.Role)
	}
	if claims.ExpiresAt.IsZero() {
		t.Fatalf("expected expiry in claims")
	}
}

func TestTokenService_ExpiredTokenFailsAsExpired(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	store := newStubRefreshStore()

	// A service built with a negative TTL issues already-expired tokens.
	expired := &TokenService{
		users:      users,
		store:      store,
		secret:     []byte(testSecret),
		accessTTL:  -time.Minute,
		refreshTTL: time.Hour,
	}

	pair, err := expired.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	svc, _ := newTestTokenService(t, users, time.Minute)
	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_TamperedTokenFailsAsInvalid(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	svc, _ := newTestTokenService(t, users, time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenService(users, newStubRefreshStore(), "another-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if _, err := other.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	if _, err := svc.VerifyAccess("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestTokenService_RotationIsSingleUse(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	svc, _ := newTestTokenService(t, users, time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	fresh, err := svc.Rotate(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("first Rotate: %v", err)
	}
	if fresh.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation must mint a new refresh token")
	}

	if _, err := svc.Rotate(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on replay, got %v", err)
	}

	// The fresh lineage still works.
	if _, err := svc.Rotate(context.Background(), fresh.RefreshToken); err != nil {
		t.Fatalf("fresh Rotate: %v", err)
	}
}

func TestTokenService_ConcurrentRotationHasOneWinner(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	svc, _ := newTestTokenService(t, users, time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Rotate(context.Background(), pair.RefreshToken)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, replays int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrTokenInvalid):
			replays++
		default:
			t.Fatalf("unexpected rotation error: %v", err)
		}
	}
	if wins != 1 || replays != racers-1 {
		t.Fatalf("expected 1 winner and %d replays, got %d/%d", racers-1, wins, replays)
	}
}

func TestTokenService_RotateDisabledUserFails(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	svc, _ := newTestTokenService(t, users, time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := users.SetDisabled(context.Background(), user.ID, true); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestTokenService_RevokeKillsLineage(t *testing.T) {
	users := newStubUserRepo()
	user := seedUser(t, users, domain.RoleUser)
	svc, _ := newTestTokenService(t, users, time.Minute)

	pair, err := svc.Issue(context.Background(), user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := svc.Revoke(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Rotate(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after revoke, got %v", err)
	}

	// Revoking twice is harmless.
	if err := svc.Revoke(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}
}
