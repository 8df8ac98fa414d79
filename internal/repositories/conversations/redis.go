package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

const (
	conversationKeyPrefix = "emo:chat:"
	conversationsSetKey   = "emo:chats"
	conversationTTL       = 7 * 24 * time.Hour
)

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis backed conversation store.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client is required")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) Get(ctx context.Context, userID string) (*entities.Conversation, error) {
	data, err := r.client.Get(ctx, conversationKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("conversation for user %s not found", userID)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get conversation").WithMeta("user_id", userID)
	}

	var conv entities.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal conversation")
	}
	return &conv, nil
}

func (r *redisRepo) Save(ctx context.Context, conv *entities.Conversation) error {
	if conv == nil || conv.UserID == "" {
		return dnderr.InvalidArgument("conversation user ID is required")
	}

	data, err := json.Marshal(conv)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal conversation")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, conversationKeyPrefix+conv.UserID, string(data), conversationTTL)
	pipe.SAdd(ctx, conversationsSetKey, conv.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to save conversation").WithMeta("user_id", conv.UserID)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, userID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, conversationKeyPrefix+userID)
	pipe.SRem(ctx, conversationsSetKey, userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete conversation").WithMeta("user_id", userID)
	}
	return nil
}

func (r *redisRepo) DeleteAll(ctx context.Context) (int, error) {
	users, err := r.client.SMembers(ctx, conversationsSetKey).Result()
	if err != nil {
		return 0, dnderr.Wrap(err, "failed to list conversations")
	}

	keys := make([]string, 0, len(users)+1)
	for _, id := range users {
		keys = append(keys, conversationKeyPrefix+id)
	}
	keys = append(keys, conversationsSetKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return 0, dnderr.Wrap(err, "failed to delete conversations")
	}
	return len(users), nil
}
