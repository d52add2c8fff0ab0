package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Sessions is a revocation list for logged-out session tokens. Entries live
// only as long as the token they shadow would have.
type Sessions struct {
	rdb *redis.Client
}

func NewSessions(address, username, password string) *Sessions {
	return &Sessions{
		rdb: redis.NewClient(&redis.Options{
			Addr:     address,
			Username: username,
			Password: password,
			DB:       0,
		}),
	}
}

func (s *Sessions) Revoke(ctx context.Context, token string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.rdb.Set(ctx, "revoked:"+token, 1, ttl).Err(); err != nil {
		log.Error().Err(err).Msg("failed to add revoked session to redis")
	}
}

func (s *Sessions) IsRevoked(ctx context.Context, token string) bool {
	n, err := s.rdb.Exists(ctx, "revoked:"+token).Result()
	if err != nil {
		log.Error().Err(err).Msg("failed to check revoked session in redis")
		return false
	}
	return n > 0
}
