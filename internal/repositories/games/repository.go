package games

//go:generate mockgen -destination=mock/mock_repository.go -package=mockgames -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// Repository stores one game per Discord channel.
type Repository interface {
	// Get returns the game created in channelID or a not-found error.
	Get(ctx context.Context, channelID string) (*entities.GameSession, error)

	// Save upserts the whole record and stamps LastUpdated.
	Save(ctx context.Context, game *entities.GameSession) error

	// Delete removes the game and its channel links. Deleting a missing game is not an error.
	Delete(ctx context.Context, channelID string) error

	// GetByLinkedChannel resolves an IC channel or OOC thread ID back to its game.
	GetByLinkedChannel(ctx context.Context, id string) (*entities.GameSession, error)

	// List returns every stored game.
	List(ctx context.Context) ([]*entities.GameSession, error)
}
