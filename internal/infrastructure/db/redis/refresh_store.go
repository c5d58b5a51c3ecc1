package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshStore keeps refresh-token lineages in Redis.
// Key format: refresh:<sha256-hex>, value: owning user id. Only hashes reach
// this store; the raw token never leaves the client and the token service.
type RefreshStore struct {
	client *redis.Client
}

// NewRefreshStore creates a RefreshStore wrapping the given Redis client.
func NewRefreshStore(client *redis.Client) *RefreshStore {
	return &RefreshStore{client: client}
}

// Save records a token hash with the refresh TTL. Redis expiry retires
// abandoned sessions without any sweeper.
func (s *RefreshStore) Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenHash), userID, ttl).Err(); err != nil {
		return fmt.Errorf("refresh save: %w", translateErr(err))
	}
	return nil
}

// Consume retrieves and deletes a token hash in one GETDEL round trip, which
// is what makes refresh rotation single-use: of two concurrent rotations
// with the same token, exactly one sees the value. Returns "" for a token
// that was never stored, expired, or already consumed.
func (s *RefreshStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("refresh consume: %w", translateErr(err))
	}
	return userID, nil
}

// Delete removes a token hash (revocation). Deleting an absent key is fine.
func (s *RefreshStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, s.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("refresh delete: %w", translateErr(err))
	}
	return nil
}

func (s *RefreshStore) key(tokenHash string) string {
	return "refresh:" + tokenHash
}
