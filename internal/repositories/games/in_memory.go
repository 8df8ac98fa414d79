package games

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// inMemoryRepository implements Repository using in-memory storage
type inMemoryRepository struct {
	mu           sync.RWMutex
	games        map[string][]byte // channelID -> JSON record
	links        map[string]string // IC channel / OOC thread -> channelID
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory game repository
func NewInMemoryRepository() Repository {
	return NewInMemoryRepositoryWithTime(&RealTimeProvider{})
}

// NewInMemoryRepositoryWithTime lets tests control LastUpdated.
func NewInMemoryRepositoryWithTime(tp TimeProvider) Repository {
	return &inMemoryRepository{
		games:        make(map[string][]byte),
		links:        make(map[string]string),
		timeProvider: tp,
	}
}

// Records are kept serialized so callers never share pointers with the store.
func decodeGame(data []byte) (*entities.GameSession, error) {
	var game entities.GameSession
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to deserialize game")
	}
	return &game, nil
}

func (r *inMemoryRepository) Get(ctx context.Context, channelID string) (*entities.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.get(channelID)
}

func (r *inMemoryRepository) get(channelID string) (*entities.GameSession, error) {
	data, ok := r.games[channelID]
	if !ok {
		return nil, dnderr.NotFoundf("no game in channel %s", channelID).
			WithMeta("channel_id", channelID)
	}
	return decodeGame(data)
}

func (r *inMemoryRepository) Save(ctx context.Context, game *entities.GameSession) error {
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

	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[game.ChannelID] = data
	for _, id := range []string{game.ICChannelID, game.OOCThreadID} {
		if id != "" {
			r.links[id] = game.ChannelID
		}
	}
	return nil
}

func (r *inMemoryRepository) Delete(ctx context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, channelID)
	for id, owner := range r.links {
		if owner == channelID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *inMemoryRepository) GetByLinkedChannel(ctx context.Context, id string) (*entities.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channelID, ok := r.links[id]
	if !ok {
		return nil, dnderr.NotFoundf("no game linked to channel %s", id).
			WithMeta("linked_id", id)
	}
	return r.get(channelID)
}

func (r *inMemoryRepository) List(ctx context.Context) ([]*entities.GameSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	games := make([]*entities.GameSession, 0, len(ids))
	for _, id := range ids {
		game, err := r.get(id)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}
