package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList is the refresh-token denylist. Logout writes the token id
// here with a TTL matching the token's remaining lifetime, so entries vanish
// exactly when the tokens they block would have expired anyway.
// Key format: revoked:<token_id>
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// Revoke denylists the token id for ttl.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id has been denylisted.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (l *RevocationList) key(tokenID string) string {
	return "revoked:" + tokenID
}
