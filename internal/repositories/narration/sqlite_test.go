package narration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
)

func newStores(t *testing.T) map[string]narration.Repository {
	t.Helper()

	sqlite, err := narration.NewSQLite(filepath.Join(t.TempDir(), "nested", "narration.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]narration.Repository{
		"sqlite":    sqlite,
		"in-memory": narration.NewInMemoryRepository(),
	}
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()

	for name, repo := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("missing state is not found", func(t *testing.T) {
				_, err := repo.Get(ctx, "ic-missing")
				assert.True(t, dnderr.IsNotFound(err))
			})

			t.Run("round trip", func(t *testing.T) {
				state := entities.NewNarrationState("ic-1")
				state.Scene = "A misty harbor at dawn"
				state.WorldDetails = "The tide is wrong"
				state.RememberNPC("Old Bram", "a one-eyed fisherman")
				state.SetPendingRoll("Thorin", "roll 1d20 + 2")
				state.AddExchange("Start a Pirate adventure", "You wake on a ship.")

				require.NoError(t, repo.Save(ctx, state))
				assert.False(t, state.UpdatedAt.IsZero())

				got, err := repo.Get(ctx, "ic-1")
				require.NoError(t, err)
				assert.Equal(t, "A misty harbor at dawn", got.Scene)
				assert.Equal(t, "The tide is wrong", got.WorldDetails)
				assert.Equal(t, "a one-eyed fisherman", got.NPCs["Old Bram"])
				roll, ok := got.PendingRoll("Thorin")
				assert.True(t, ok)
				assert.Equal(t, "roll 1d20 + 2", roll)
				require.Len(t, got.Turns, 2)
				assert.Equal(t, entities.TurnRoleModel, got.Turns[1].Role)
			})

			t.Run("save overwrites", func(t *testing.T) {
				state, err := repo.Get(ctx, "ic-1")
				require.NoError(t, err)
				state.ResolvePendingRoll("Thorin")
				state.Scene = "The ship's hold"
				require.NoError(t, repo.Save(ctx, state))

				got, err := repo.Get(ctx, "ic-1")
				require.NoError(t, err)
				assert.Empty(t, got.PendingRolls)
				assert.NotNil(t, got.PendingRolls)
				assert.Equal(t, "The ship's hold", got.Scene)
			})

			t.Run("delete is idempotent", func(t *testing.T) {
				require.NoError(t, repo.Delete(ctx, "ic-1"))
				require.NoError(t, repo.Delete(ctx, "ic-1"))
				_, err := repo.Get(ctx, "ic-1")
				assert.True(t, dnderr.IsNotFound(err))
			})

			t.Run("rejects bad input", func(t *testing.T) {
				assert.True(t, dnderr.IsInvalidArgument(repo.Save(ctx, nil)))
				assert.True(t, dnderr.IsInvalidArgument(repo.Save(ctx, &entities.NarrationState{})))
			})
		})
	}
}

func TestSQLiteRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "narration.db")

	first, err := narration.NewSQLite(path)
	require.NoError(t, err)
	state := entities.NewNarrationState("ic-2")
	state.RememberNPC("Mira", "a nervous cartographer")
	require.NoError(t, first.Save(ctx, state))
	require.NoError(t, first.Close())

	second, err := narration.NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "ic-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mira"}, got.NPCNames())
}
