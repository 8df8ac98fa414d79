package selections

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

type inMemoryRepo struct {
	mu     sync.RWMutex
	drafts map[string]map[string][]byte // game -> player -> json
}

// NewInMemory creates a draft store that lives as long as the process.
func NewInMemory() Repository {
	return &inMemoryRepo{drafts: make(map[string]map[string][]byte)}
}

func (r *inMemoryRepo) Get(_ context.Context, gameID, playerID string) (*entities.SelectionDraft, error) {
	r.mu.RLock()
	data, ok := r.drafts[gameID][playerID]
	r.mu.RUnlock()
	if !ok {
		return nil, dnderr.NotFoundf("selection draft for player %s not found", playerID)
	}

	var draft entities.SelectionDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, dnderr.Wrap(err, "failed to unmarshal selection draft")
	}
	return &draft, nil
}

func (r *inMemoryRepo) Save(_ context.Context, draft *entities.SelectionDraft) error {
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

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.drafts[draft.GameID] == nil {
		r.drafts[draft.GameID] = make(map[string][]byte)
	}
	r.drafts[draft.GameID][draft.PlayerID] = data
	return nil
}

func (r *inMemoryRepo) Delete(_ context.Context, gameID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts[gameID], playerID)
	if len(r.drafts[gameID]) == 0 {
		delete(r.drafts, gameID)
	}
	return nil
}

func (r *inMemoryRepo) ListByGame(ctx context.Context, gameID string) ([]*entities.SelectionDraft, error) {
	r.mu.RLock()
	players := make([]string, 0, len(r.drafts[gameID]))
	for id := range r.drafts[gameID] {
		players = append(players, id)
	}
	r.mu.RUnlock()
	sort.Strings(players)

	drafts := make([]*entities.SelectionDraft, 0, len(players))
	for _, id := range players {
		d, err := r.Get(ctx, gameID, id)
		if err != nil {
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
