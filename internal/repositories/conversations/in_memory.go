package conversations

import (
	"context"
	"sync"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

type inMemoryRepo struct {
	mu    sync.RWMutex
	convs map[string]*entities.Conversation
}

// NewInMemory creates a process-local conversation store.
func NewInMemory() Repository {
	return &inMemoryRepo{convs: make(map[string]*entities.Conversation)}
}

func (r *inMemoryRepo) Get(_ context.Context, userID string) (*entities.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.convs[userID]
	if !ok {
		return nil, dnderr.NotFoundf("conversation for user %s not found", userID)
	}
	return copyConversation(conv), nil
}

func (r *inMemoryRepo) Save(_ context.Context, conv *entities.Conversation) error {
	if conv == nil || conv.UserID == "" {
		return dnderr.InvalidArgument("conversation user ID is required")
	}

	r.mu.Lock()
	r.convs[conv.UserID] = copyConversation(conv)
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	delete(r.convs, userID)
	r.mu.Unlock()
	return nil
}

func (r *inMemoryRepo) DeleteAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.convs)
	r.convs = make(map[string]*entities.Conversation)
	return n, nil
}

func copyConversation(c *entities.Conversation) *entities.Conversation {
	out := *c
	out.Messages = append([]entities.ConversationMessage(nil), c.Messages...)
	return &out
}
