package selections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

const (
	draftKeyPrefix = "emo:selection:"
	gameSetPrefix  = "emo:selections:"

	// Players get a day to finish picking their kit.
	draftTTL = 24 * time.Hour
)

type redisRepo struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis creates a Redis backed draft store.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client is required")
	}
	return &redisRepo{client: client, ttl: draftTTL}
}

func draftKey(gameID, playerID string) string {
	return fmt.Sprintf("%s%s:%s", draftKeyPrefix, gameID, playerID)
}

func gameSetKey(gameID string) string {
	return gameSetPrefix + gameID
}

func (r *redisRepo) Get(ctx context.Context, gameID, playerID string) (*entities.SelectionDraft, error) {
	data, err := r.client.Get(ctx, draftKey(gameID, playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("selection draft for player %s not found", playerID).
			WithMeta("game_id", gameID).
			WithMeta("player_id", playerID)
	}
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to get selection draft").
			WithMeta("game_id", gameID)
	}

	var draft entities.SelectionDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal selection draft")
	}
	return &draft, nil
}

func (r *redisRepo) Save(ctx context.Context, draft *entities.SelectionDraft) error {
	if draft == nil {
		return dnderr.InvalidArgument("draft cannot be nil")
	}
	if draft.GameID == "" || draft.PlayerID == "" {
		return dnderr.InvalidArgument("draft game ID and player ID are required")
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return dnderr.Wrap(err, "failed to marshal selection draft")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, draftKey(draft.GameID, draft.PlayerID), string(data), r.ttl)
	pipe.SAdd(ctx, gameSetKey(draft.GameID), draft.PlayerID)
	pipe.Expire(ctx, gameSetKey(draft.GameID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to save selection draft").
			WithMeta("game_id", draft.GameID).
			WithMeta("player_id", draft.PlayerID)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, gameID, playerID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, draftKey(gameID, playerID))
	pipe.SRem(ctx, gameSetKey(gameID), playerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return dnderr.Wrap(err, "failed to delete selection draft").
			WithMeta("game_id", gameID)
	}
	return nil
}

func (r *redisRepo) ListByGame(ctx context.Context, gameID string) ([]*entities.SelectionDraft, error) {
	players, err := r.client.SMembers(ctx, gameSetKey(gameID)).Result()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list selection drafts").
			WithMeta("game_id", gameID)
	}
	sort.Strings(players)

	drafts := make([]*entities.SelectionDraft, 0, len(players))
	for _, playerID := range players {
		draft, err := r.Get(ctx, gameID, playerID)
		if err != nil {
			if dnderr.IsNotFound(err) {
				// expired draft, the set entry is stale
				log.Printf("[Selections] Dropping stale draft entry %s for game %s", playerID, gameID)
				continue
			}
			return nil, err
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}
