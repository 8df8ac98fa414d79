package games

import (
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis-backed game repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:       client,
		TimeProvider: &RealTimeProvider{},
		GameTTL:      gameTTL,
	})
}
