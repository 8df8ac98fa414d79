package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

func TestWrapKeepsCodeAndMeta(t *testing.T) {
	base := dnderr.NotFound("game not found").WithMeta("channel_id", "c1")

	wrapped := dnderr.Wrap(base, "failed to load game")

	assert.True(t, dnderr.IsNotFound(wrapped))
	assert.Equal(t, "c1", dnderr.GetMeta(wrapped)["channel_id"])
	assert.Equal(t, "failed to load game: game not found", wrapped.Error())
	assert.Equal(t, "failed to load game", dnderr.GetMessage(wrapped))
}

func TestWrapForeignError(t *testing.T) {
	wrapped := dnderr.Wrap(fmt.Errorf("boom"), "saving")

	assert.Equal(t, dnderr.CodeUnknown, dnderr.GetCode(wrapped))
	assert.Nil(t, dnderr.Wrap(nil, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	wrapped := dnderr.WrapWithCode(fmt.Errorf("dial tcp"), dnderr.CodeUnavailable, "llm unreachable")

	assert.True(t, dnderr.Is(wrapped, dnderr.CodeUnavailable))
	assert.False(t, dnderr.IsNotFound(wrapped))
}

func TestStdlibWrappingIsTransparent(t *testing.T) {
	err := fmt.Errorf("handler: %w", dnderr.FailedPrecondition("game has already started"))

	assert.True(t, dnderr.IsFailedPrecondition(err))
	assert.Equal(t, "game has already started", dnderr.GetMessage(err))
}
