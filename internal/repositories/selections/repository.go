package selections

//go:generate mockgen -destination=mock/mock_repository.go -package=mockselections -source=repository.go

import (
	"context"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// Repository holds the kit drafts players fill in after campaign setup.
// A draft is keyed by game and player.
type Repository interface {
	Get(ctx context.Context, gameID, playerID string) (*entities.SelectionDraft, error)
	Save(ctx context.Context, draft *entities.SelectionDraft) error
	Delete(ctx context.Context, gameID, playerID string) error
	// ListByGame returns every draft still open for a game.
	ListByGame(ctx context.Context, gameID string) ([]*entities.SelectionDraft, error)
}
