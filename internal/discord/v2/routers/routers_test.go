package routers_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/routers"
	"github.com/KirkDiggler/emo-bot-discord/internal/services"
)

type harness struct {
	pipeline *core.Pipeline
	fake     *core.FakeDiscord
	provider *services.Provider
}

func newHarness(t *testing.T, cfg *routers.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = &routers.Config{}
	}
	if cfg.Provider == nil {
		cfg.Provider = services.NewProvider(nil)
	}
	cfg.SetupTimeout = 2 * time.Second

	pipeline := core.NewPipeline()
	pipeline.SetBotID("bot")
	require.NoError(t, routers.RegisterAll(pipeline, cfg))
	return &harness{pipeline: pipeline, fake: core.NewFakeDiscord(), provider: cfg.Provider}
}

func (h *harness) say(t *testing.T, channelID, userID, content string) {
	t.Helper()
	require.NoError(t, h.pipeline.ExecuteMessage(context.Background(), h.fake, core.TestMessage(channelID, userID, content)))
}

func TestRegisterAll_Validates(t *testing.T) {
	assert.Error(t, routers.RegisterAll(nil, &routers.Config{}))
	assert.Error(t, routers.RegisterAll(core.NewPipeline(), nil))
	assert.Error(t, routers.RegisterAll(core.NewPipeline(), &routers.Config{}))
}

func TestRegisterAll_RegistersEveryDomain(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, 6, h.pipeline.HandlerCount())
}

func TestRouting_HelpCommands(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "general", "alice", "!test")
	assert.Equal(t, "Test command works!", h.fake.LastMessageIn("general").Content)

	h.say(t, "general", "alice", "!list")
	assert.Equal(t, "Bot Commands List", h.fake.LastMessageIn("general").Embeds[0].Title)
}

func TestRouting_UnknownCommandIsIgnored(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "general", "alice", "!fireball")
	h.say(t, "general", "alice", "just chatting")
	assert.Empty(t, h.fake.Sent)
}

func TestRouting_ComponentsMatchTheirDomain(t *testing.T) {
	h := newHarness(t, nil)

	err := h.pipeline.ExecuteInteraction(context.Background(), h.fake, core.TestComponent("general", "alice", "help:category", "utility"))
	require.NoError(t, err)

	resp := h.fake.LastResponse()
	require.NotNil(t, resp)
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, resp.Type)
	assert.Equal(t, "Utility Commands", resp.Data.Embeds[0].Title)
}

func TestRouting_UserErrorsAreShown(t *testing.T) {
	h := newHarness(t, nil)

	h.say(t, "general", "alice", "!dnd_status")
	assert.Contains(t, h.fake.LastMessageIn("general").Content, "There is no active D&D game in this channel.")
}

func TestRouting_GuildOnlyCommands(t *testing.T) {
	h := newHarness(t, nil)

	msg := core.TestMessage("dm-alice", "alice", "!dnd")
	msg.GuildID = ""
	require.NoError(t, h.pipeline.ExecuteMessage(context.Background(), h.fake, msg))

	last := h.fake.LastMessageIn("dm-alice")
	require.NotNil(t, last)
	assert.Zero(t, h.pipeline.Waiter().Pending())
}

func TestRouting_RateLimitedAsk(t *testing.T) {
	h := newHarness(t, &routers.Config{RateLimit: &routers.RateLimit{MaxRequests: 1, Window: time.Minute}})

	h.say(t, "general", "alice", "!ask hello")
	h.say(t, "general", "alice", "!ask hello again")

	last := h.fake.LastMessageIn("general")
	require.NotNil(t, last)
	assert.True(t, strings.HasPrefix(last.Content, "⏱️ You're doing that too fast!"))

	// Other users keep their own budget
	h.say(t, "general", "bob", "!ask hi")
	assert.Equal(t, "🤔 Thinking...", h.fake.LastMessageIn("general").Content)
}

func TestRouting_SetupThenRandomCharacter(t *testing.T) {
	h := newHarness(t, nil)

	done := make(chan error, 1)
	go func() {
		done <- h.pipeline.ExecuteMessage(context.Background(), h.fake, core.TestMessage("table", "alice", "!dnd"))
	}()

	waitForPrompt := func() {
		require.Eventually(t, func() bool { return h.pipeline.Waiter().Pending() > 0 }, 2*time.Second, 5*time.Millisecond)
	}

	waitForPrompt()
	players := core.TestMessage("table", "alice", "<@alice> <@bob>")
	players.Mentions = []*discordgo.User{{ID: "alice", Username: "alice"}, {ID: "bob", Username: "bob"}}
	require.NoError(t, h.pipeline.ExecuteMessage(context.Background(), h.fake, players))

	waitForPrompt()
	h.say(t, "table", "alice", "0")
	require.NoError(t, <-done)

	assert.Contains(t, h.fake.LastMessageIn("table").Content, "**Emo** will be your Game Master!")

	h.say(t, "table", "alice", "!random")
	assert.Equal(t, "Random character created for <@alice>!", h.fake.LastMessageIn("table").Content)

	missing, err := h.provider.GameService.MissingCharacters(context.Background(), "table")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, missing)

	h.say(t, "table", "alice", "!campaign_setup")
	assert.Contains(t, h.fake.LastMessageIn("table").Content, "Players without characters: bob")
}
