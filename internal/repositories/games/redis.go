package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

const (
	gameKeyPrefix = "emo:game:"
	linkKeyPrefix = "emo:game:link:"
	gamesSetKey   = "emo:games"

	// Games idle for a month are dropped.
	gameTTL = 30 * 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
	GameTTL      time.Duration
}

type redisRepository struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
	ttl          time.Duration
}

// NewRedisRepository creates a new Redis-backed game repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.GameTTL
	if ttl == 0 {
		ttl = gameTTL
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &redisRepository{
		client:       cfg.Client,
		timeProvider: tp,
		ttl:          ttl,
	}
}

func gameKey(channelID string) string { return gameKeyPrefix + channelID }

func linkKey(id string) string { return linkKeyPrefix + id }

func (r *redisRepository) Get(ctx context.Context, channelID string) (*entities.GameSession, error) {
	if channelID == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}

	key := gameKey(channelID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("no game in channel %s", channelID).
				WithMeta("channel_id", channelID)
		}
		return nil, dnderr.Wrapf(err, "failed to get game %s", channelID)
	}

	var game entities.GameSession
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to deserialize game")
	}

	// Refresh TTLs; a failure here only shortens the game's life. The link
	// keys must live as long as the game or IC replies stop resolving.
	pipe := r.client.Pipeline()
	pipe.Expire(ctx, key, r.ttl)
	for _, id := range []string{game.ICChannelID, game.OOCThreadID} {
		if id != "" {
			pipe.Expire(ctx, linkKey(id), r.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Games] failed to refresh TTL for %s: %v", channelID, err)
	}

	return &game, nil
}

func (r *redisRepository) Save(ctx context.Context, game *entities.GameSession) error {
	if game == nil {
		return dnderr.InvalidArgument("game cannot be nil")
	}
	if game.ChannelID == "" {
		return dnderr.InvalidArgument("game channel ID cannot be empty")
	}

	game.LastUpdated = r.timeProvider.Now()

	data, err := json.Marshal(game)
	if err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to serialize game")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gameKey(game.ChannelID), string(data), r.ttl)
	pipe.SAdd(ctx, gamesSetKey, game.ChannelID)
	for _, id := range []string{game.ICChannelID, game.OOCThreadID} {
		if id != "" {
			pipe.Set(ctx, linkKey(id), game.ChannelID, r.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to save game %s", game.ChannelID)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, channelID string) error {
	existing, err := r.Get(ctx, channelID)
	if err != nil {
		if dnderr.IsNotFound(err) {
			return nil
		}
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, gameKey(channelID))
	pipe.SRem(ctx, gamesSetKey, channelID)
	for _, id := range []string{existing.ICChannelID, existing.OOCThreadID} {
		if id != "" {
			pipe.Del(ctx, linkKey(id))
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrapf(err, "failed to delete game %s", channelID)
	}
	return nil
}

func (r *redisRepository) GetByLinkedChannel(ctx context.Context, id string) (*entities.GameSession, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("channel ID is required")
	}

	channelID, err := r.client.Get(ctx, linkKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dnderr.NotFoundf("no game linked to channel %s", id).
				WithMeta("linked_id", id)
		}
		return nil, dnderr.Wrapf(err, "failed to resolve linked channel %s", id)
	}

	return r.Get(ctx, channelID)
}

func (r *redisRepository) List(ctx context.Context) ([]*entities.GameSession, error) {
	ids, err := r.client.SMembers(ctx, gamesSetKey).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list games")
	}

	games := make([]*entities.GameSession, 0, len(ids))
	for _, id := range ids {
		game, err := r.Get(ctx, id)
		if err != nil {
			if dnderr.IsNotFound(err) {
				// expired record still listed in the index
				continue
			}
			return nil, fmt.Errorf("failed to load game %s: %w", id, err)
		}
		games = append(games, game)
	}
	return games, nil
}
