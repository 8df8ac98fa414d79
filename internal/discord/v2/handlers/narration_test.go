package handlers_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	mockgame "github.com/KirkDiggler/emo-bot-discord/internal/services/game/mock"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/narration"
	mocknarration "github.com/KirkDiggler/emo-bot-discord/internal/services/narration/mock"
)

type NarrationHandlerTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	games    *mockgame.MockService
	narrator *mocknarration.MockService
	fake     *core.FakeDiscord
	handler  *handlers.NarrationHandler
}

func (s *NarrationHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.games = mockgame.NewMockService(s.ctrl)
	s.narrator = mocknarration.NewMockService(s.ctrl)
	s.fake = core.NewFakeDiscord()

	h, err := handlers.NewNarrationHandler(&handlers.NarrationHandlerConfig{
		GameService:      s.games,
		NarrationService: s.narrator,
	})
	s.Require().NoError(err)
	s.handler = h
}

func (s *NarrationHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *NarrationHandlerTestSuite) startedGame() *entities.GameSession {
	g := testGame()
	g.State = entities.GameStateStarted
	g.Theme = "Haunted Forest"
	g.ICChannelID = "ic"
	g.OOCThreadID = "ooc"
	return g
}

// replyToEmo is a player message answering one of the bot's messages.
func replyToEmo(channelID, userID, content string) *discordgo.Message {
	m := core.TestMessage(channelID, userID, content)
	m.ReferencedMessage = &discordgo.Message{ID: "emo-msg", Author: &discordgo.User{ID: "bot", Bot: true}}
	return m
}

func (s *NarrationHandlerTestSuite) TestEmo_BeginsAdventure() {
	g := s.startedGame()
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)
	s.narrator.EXPECT().Begin(gomock.Any(), g).Return(&narration.Result{Narration: "Mist curls between the trees."}, nil)

	result, err := s.handler.HandleEmo(commandCtx(s.fake, "ic", "alice", "!emo"))
	s.Require().NoError(err)

	embed := result.Response.Embeds[0]
	s.Equal("🎭 Haunted Forest Adventure Begins!", embed.Title)
	s.Equal("Mist curls between the trees.", embed.Description)
	s.Equal("Reply to this message to interact with the world", embed.Footer.Text)

	s.Require().Len(s.fake.Sent, 1)
	s.Equal("🧠 Emo is crafting your adventure...", s.fake.Sent[0].Data.Embeds[0].Title)
	s.Equal([]string{"ic/" + s.fake.Sent[0].ID}, s.fake.DeletedMessages)
	s.Equal([]string{"ic"}, s.fake.Typing)
}

func (s *NarrationHandlerTestSuite) TestEmo_NotInICChannel() {
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ooc").Return(s.startedGame(), nil)

	result, err := s.handler.HandleEmo(commandCtx(s.fake, "ooc", "alice", "!emo"))
	s.Require().NoError(err)
	s.Equal("This command only works in the IC chat with Emo as GM!", result.Response.Content)
}

func (s *NarrationHandlerTestSuite) TestEmo_PlayerRunGame() {
	g := s.startedGame()
	g.IsAIGM = false
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)

	result, err := s.handler.HandleEmo(commandCtx(s.fake, "ic", "alice", "!emo"))
	s.Require().NoError(err)
	s.Equal("This command only works in the IC chat with Emo as GM!", result.Response.Content)
}

func (s *NarrationHandlerTestSuite) TestEmo_NarrationFailsStillCleansUp() {
	g := s.startedGame()
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)
	s.narrator.EXPECT().Begin(gomock.Any(), g).Return(nil, dnderr.Unavailable("model down"))

	_, err := s.handler.HandleEmo(commandCtx(s.fake, "ic", "alice", "!emo"))
	s.Error(err)
	s.Len(s.fake.DeletedMessages, 1)
}

func (s *NarrationHandlerTestSuite) TestReplies_CanHandle() {
	replies := s.handler.Replies()

	s.True(replies.CanHandle(core.NewTestCommandContext(s.fake, replyToEmo("ic", "alice", "I open the door"))))
	s.False(replies.CanHandle(core.NewTestCommandContext(s.fake, core.TestMessage("ic", "alice", "I open the door"))))

	own := replyToEmo("ic", "bot", "talking to myself")
	s.False(replies.CanHandle(core.NewTestCommandContext(s.fake, own)))

	cmd := replyToEmo("ic", "alice", "!roll")
	s.False(replies.CanHandle(core.NewTestCommandContext(s.fake, cmd)))
}

func (s *NarrationHandlerTestSuite) TestReplies_Continues() {
	g := s.startedGame()
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)
	s.narrator.EXPECT().Respond(gomock.Any(), &narration.RespondInput{
		Game:     g,
		PlayerID: "alice",
		Content:  "I open the door",
	}).Return(&narration.Result{Narration: "The hinges scream."}, nil)

	result, err := s.handler.Replies().Handle(core.NewTestCommandContext(s.fake, replyToEmo("ic", "alice", "I open the door")))
	s.Require().NoError(err)
	s.True(result.Response.Reply)
	s.Equal("🎭 Haunted Forest Adventure Continues", result.Response.Embeds[0].Title)
	s.Equal("The hinges scream.", result.Response.Embeds[0].Description)
}

func (s *NarrationHandlerTestSuite) TestReplies_UnknownPlayer() {
	g := s.startedGame()
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)
	s.narrator.EXPECT().Respond(gomock.Any(), gomock.Any()).Return(nil, dnderr.NotFound("not a player"))

	result, err := s.handler.Replies().Handle(core.NewTestCommandContext(s.fake, replyToEmo("ic", "carol", "hello?")))
	s.Require().NoError(err)
	s.Equal(narration.MessageUnknownPlayer, result.Response.Content)
}

func (s *NarrationHandlerTestSuite) TestReplies_OtherFailure() {
	g := s.startedGame()
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)
	s.narrator.EXPECT().Respond(gomock.Any(), gomock.Any()).Return(nil, dnderr.Unavailable("Emo is resting"))

	result, err := s.handler.Replies().Handle(core.NewTestCommandContext(s.fake, replyToEmo("ic", "alice", "hello?")))
	s.Require().NoError(err)
	s.Equal("An error occurred while processing your action: Emo is resting", result.Response.Content)
}

func (s *NarrationHandlerTestSuite) TestReplies_IgnoresOtherChannels() {
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "general").Return(nil, dnderr.NotFound("none"))

	result, err := s.handler.Replies().Handle(core.NewTestCommandContext(s.fake, replyToEmo("general", "alice", "hi")))
	s.Require().NoError(err)
	s.Nil(result.Response)
}

func TestNarrationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NarrationHandlerTestSuite))
}
