package narration

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// InMemoryRepository is used when no narration database is configured.
type InMemoryRepository struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewInMemoryRepository creates an empty store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{states: make(map[string][]byte)}
}

func (r *InMemoryRepository) Get(_ context.Context, channelID string) (*entities.NarrationState, error) {
	r.mu.RLock()
	data, ok := r.states[channelID]
	r.mu.RUnlock()
	if !ok {
		return nil, dnderr.NotFoundf("narration state for channel %s not found", channelID)
	}

	state := entities.NewNarrationState(channelID)
	if err := json.Unmarshal(data, state); err != nil {
		return nil, dnderr.Wrap(err, "failed to decode narration state")
	}
	return state, nil
}

func (r *InMemoryRepository) Save(_ context.Context, state *entities.NarrationState) error {
	if state == nil {
		return dnderr.InvalidArgument("narration state cannot be nil")
	}
	if state.ChannelID == "" {
		return dnderr.InvalidArgument("channel ID is required")
	}

	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return dnderr.Wrap(err, "failed to encode narration state")
	}

	r.mu.Lock()
	r.states[state.ChannelID] = data
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, channelID string) error {
	r.mu.Lock()
	delete(r.states, channelID)
	r.mu.Unlock()
	return nil
}
