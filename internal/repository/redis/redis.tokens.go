// FilePath: internal/repository/redis/redis.tokens.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/sensorhub/internal/config"
	"github.com/itsatony/sensorhub/internal/errors"
	goredis "github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"
)

const keyPrefix = "sensorhub"

// TokenStore keeps one key per issued access token plus a per-user index set used by RevokeAll.
type TokenStore struct {
	client goredis.UniversalClient
}

// NewClient builds a go-redis client from config.
func NewClient(cfg config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewTokenStore(client goredis.UniversalClient) *TokenStore {
	return &TokenStore{client: client}
}

func leaseKey(userID, tokenID string) string {
	return fmt.Sprintf("%s:lease:%s:%s", keyPrefix, userID, tokenID)
}

func userKey(userID string) string {
	return fmt.Sprintf("%s:leases:%s", keyPrefix, userID)
}

func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewUnavailableError("redis not reachable", err)
	}
	return nil
}

func (s *TokenStore) Grant(ctx context.Context, userID, tokenID string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, leaseKey(userID, tokenID), 1, ttl)
		pipe.SAdd(ctx, userKey(userID), tokenID)
		pipe.Expire(ctx, userKey(userID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("grant lease: %w", err)
	}
	return nil
}

func (s *TokenStore) IsActive(ctx context.Context, userID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, leaseKey(userID, tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check lease: %w", err)
	}
	return n > 0, nil
}

func (s *TokenStore) Revoke(ctx context.Context, userID, tokenID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, leaseKey(userID, tokenID))
		pipe.SRem(ctx, userKey(userID), tokenID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke lease: %w", err)
	}
	nuts.L.Debugf("[TokenStore] Revoked token %s of user %s", tokenID, userID)
	return nil
}

func (s *TokenStore) RevokeAll(ctx context.Context, userID string) error {
	tokenIDs, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list leases: %w", err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, leaseKey(userID, id))
	}
	keys = append(keys, userKey(userID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke leases: %w", err)
	}
	nuts.L.Infof("[TokenStore] Revoked %d token(s) of user %s", len(tokenIDs), userID)
	return nil
}
