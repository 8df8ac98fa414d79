package entities_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

func TestConversation_AppendIsBounded(t *testing.T) {
	conv := &entities.Conversation{UserID: "u1"}
	now := time.Now()
	for i := 0; i < entities.MaxConversationMessages+5; i++ {
		conv.Append("user", fmt.Sprintf("m%d", i), now)
	}

	assert.Len(t, conv.Messages, entities.MaxConversationMessages)
	assert.Equal(t, "m5", conv.Messages[0].Content)
	assert.Equal(t, now, conv.UpdatedAt)
}
