package narration

//go:generate mockgen -destination=mock/mock_repository.go -package=mocknarration -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// Repository stores the storyteller memory for each in-character channel.
type Repository interface {
	// Get returns a NotFound error when the channel has no state yet.
	Get(ctx context.Context, channelID string) (*entities.NarrationState, error)
	Save(ctx context.Context, state *entities.NarrationState) error
	// Delete is a no-op for unknown channels.
	Delete(ctx context.Context, channelID string) error
}
