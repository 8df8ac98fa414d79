package handlers_test

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

type handlerFunc func(*core.InteractionContext) (*core.HandlerResult, error)

// runWithReplies runs fn and answers each wait it opens with the next reply.
func runWithReplies(t *testing.T, ctx *core.InteractionContext, fn handlerFunc, replies ...*discordgo.Message) (*core.HandlerResult, error) {
	t.Helper()

	type outcome struct {
		result *core.HandlerResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := fn(ctx)
		done <- outcome{result, err}
	}()

	for _, reply := range replies {
		require.Eventually(t, func() bool { return ctx.Waiter.Pending() > 0 }, 2*time.Second, 5*time.Millisecond)
		require.True(t, ctx.Waiter.Deliver(reply), "reply %q was not accepted", reply.Content)
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not finish")
		return nil, nil
	}
}

func commandCtx(fake *core.FakeDiscord, channelID, userID, content string) *core.InteractionContext {
	return core.NewTestCommandContext(fake, core.TestMessage(channelID, userID, content))
}

func componentCtx(fake *core.FakeDiscord, channelID, userID, customID string, values ...string) *core.InteractionContext {
	return core.NewTestComponentContext(fake, core.TestComponent(channelID, userID, customID, values...))
}

// testGame is a two player game run by Emo, created by alice in "game-chan".
func testGame() *entities.GameSession {
	g := entities.NewGameSession("game-chan", "guild-1", "alice", time.Now())
	g.PlayerIDs = []string{"alice", "bob"}
	g.Players = []string{"Alice", "Bob"}
	g.GameMaster = "Emo"
	g.GameMasterID = "bot"
	g.IsAIGM = true
	return g
}

func testCharacter(name string) *entities.Character {
	return &entities.Character{
		Name:       name,
		Class:      "Wizard",
		Race:       "Elf",
		Level:      0,
		Background: "Sage",
		Alignment:  "Neutral Good",
		Abilities: entities.AbilityScores{
			Strength: 8, Dexterity: 14, Constitution: 12,
			Intelligence: 16, Wisdom: 10, Charisma: 10,
		},
	}
}

func fieldValue(embed *discordgo.MessageEmbed, name string) string {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
