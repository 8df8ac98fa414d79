package conversations

//go:generate mockgen -destination=mock/mock_repository.go -package=mockconversations -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// Repository keeps each user's chat history with Emo.
type Repository interface {
	// Get returns a NotFound error for users who never chatted.
	Get(ctx context.Context, userID string) (*entities.Conversation, error)
	Save(ctx context.Context, conversation *entities.Conversation) error
	Delete(ctx context.Context, userID string) error
	// DeleteAll drops every stored conversation and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)
}
