package handlers_test

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
	mockgame "github.com/KirkDiggler/emo-bot-discord/internal/services/game/mock"
)

type GameHandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	games   *mockgame.MockService
	fake    *core.FakeDiscord
	handler *handlers.GameHandler
}

func (s *GameHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.games = mockgame.NewMockService(s.ctrl)
	s.fake = core.NewFakeDiscord()

	h, err := handlers.NewGameHandler(&handlers.GameHandlerConfig{
		Service:      s.games,
		SetupTimeout: 200 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.handler = h
}

func (s *GameHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GameHandlerTestSuite) TestSetup_AlreadyExists() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(testGame(), nil)

	result, err := s.handler.HandleSetup(commandCtx(s.fake, "game-chan", "alice", "!dnd"))
	s.Require().NoError(err)
	s.Equal("A D&D game is already set up in this channel.", result.Response.Content)
}

func (s *GameHandlerTestSuite) TestSetup_EmoAsGameMaster() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))
	s.games.EXPECT().CreateGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, input *game.CreateGameInput) (*entities.GameSession, error) {
			s.Equal([]string{"alice", "bob"}, input.PlayerIDs)
			s.Equal([]string{"alice", "bob"}, input.PlayerNames)
			s.Equal(0, input.GameMasterChoice)
			s.Equal("bot", input.BotUserID)
			return testGame(), nil
		})

	players := core.TestMessage("game-chan", "alice", "<@alice> <@bob>")
	players.Mentions = []*discordgo.User{{ID: "alice", Username: "alice"}, {ID: "bob", Username: "bob"}}

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!dnd"), s.handler.HandleSetup,
		players,
		core.TestMessage("game-chan", "alice", "0"),
	)
	s.Require().NoError(err)
	s.Contains(result.Response.Content, "**Emo** will be your Game Master!")

	sent := s.fake.MessagesIn("game-chan")
	s.Require().Len(sent, 5)
	s.Equal("Game Master Selection:-", sent[2].Embeds[0].Title)
	s.Contains(sent[2].Embeds[0].Fields[0].Value, "**2.** bob")
	s.Equal("🎲 D&D Game Created! 🐉", sent[4].Embeds[0].Title)
}

func (s *GameHandlerTestSuite) TestSetup_PlayerAsGameMaster() {
	g := testGame()
	g.IsAIGM = false
	g.GameMaster = "bob"

	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))
	s.games.EXPECT().CreateGame(gomock.Any(), gomock.Any()).Return(g, nil)

	players := core.TestMessage("game-chan", "alice", "<@bob>")
	players.Mentions = []*discordgo.User{{ID: "bob", Username: "bob"}}

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!dnd"), s.handler.HandleSetup,
		players,
		core.TestMessage("game-chan", "alice", "1"),
	)
	s.Require().NoError(err)
	s.Equal("bob will be your Game Master! More **D&D commands** will be available soon.", result.Response.Content)
}

func (s *GameHandlerTestSuite) TestSetup_NoMentions() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!dnd"), s.handler.HandleSetup,
		core.TestMessage("game-chan", "alice", "just me"),
	)
	s.Require().NoError(err)
	s.Equal("No players were mentioned. Game setup cancelled.", result.Response.Content)
}

func (s *GameHandlerTestSuite) TestSetup_InvalidChoice() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))

	players := core.TestMessage("game-chan", "alice", "<@bob>")
	players.Mentions = []*discordgo.User{{ID: "bob", Username: "bob"}}

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!dnd"), s.handler.HandleSetup,
		players,
		core.TestMessage("game-chan", "alice", "7"),
	)
	s.Require().NoError(err)
	s.Equal("Invalid choice. Game setup cancelled.", result.Response.Content)
}

func (s *GameHandlerTestSuite) TestSetup_TimesOut() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))

	result, err := s.handler.HandleSetup(commandCtx(s.fake, "game-chan", "alice", "!dnd"))
	s.Require().NoError(err)
	s.Equal("Setup timed out. Please try again when you're ready.", result.Response.Content)
}

func (s *GameHandlerTestSuite) TestStatus() {
	g := testGame()
	g.Theme = "Haunted Forest"
	g.Characters["alice"] = testCharacter("Lyra")
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(g, nil)

	result, err := s.handler.HandleStatus(commandCtx(s.fake, "game-chan", "alice", "!dnd_status"))
	s.Require().NoError(err)

	embed := result.Response.Embeds[0]
	s.Equal("Emo", fieldValue(embed, "Game Master"))
	s.Equal("Alice, Bob", fieldValue(embed, "Players"))
	s.Equal("Setup", fieldValue(embed, "State"))
	s.Equal("Haunted Forest", fieldValue(embed, "Theme"))
	s.Equal("1 created", fieldValue(embed, "Characters"))
}

func (s *GameHandlerTestSuite) TestStatus_NoGame() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(nil, dnderr.NotFound("no game"))

	_, err := s.handler.HandleStatus(commandCtx(s.fake, "game-chan", "alice", "!dnd_status"))
	var userErr *core.HandlerError
	s.Require().ErrorAs(err, &userErr)
	s.Contains(userErr.UserMessage, "There is no active D&D game in this channel.")
}

func (s *GameHandlerTestSuite) TestStart_CreatesPlayChannels() {
	g := testGame()
	g.State = entities.GameStateActive
	g.Theme = "Haunted Forest"
	g.Characters["alice"] = testCharacter("Lyra")
	g.Characters["bob"] = testCharacter("Bram")

	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(g, nil)
	s.games.EXPECT().StartGame(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, input *game.StartGameInput) (*entities.GameSession, error) {
			s.NotEmpty(input.ICChannelID)
			s.NotEmpty(input.OOCThreadID)
			return g, nil
		})

	_, err := s.handler.HandleStart(commandCtx(s.fake, "game-chan", "alice", "!start"))
	s.Require().NoError(err)

	s.Require().Len(s.fake.CreatedChannels, 1)
	ic := s.fake.CreatedChannels[0]
	s.Equal("IC Chat dnd", ic.Name)
	s.Len(ic.PermissionOverwrites, 4) // everyone, bot, two players
	s.Require().Len(s.fake.Threads, 1)
	s.Equal("OOC Chat (D&D)", s.fake.Threads[0].Name)

	s.Contains(s.fake.LastMessageIn("game-chan").Content, "The adventure begins!")
	s.Len(s.fake.MessagesIn(ic.ID), 3)
}

func (s *GameHandlerTestSuite) TestStart_RollsBackOnFailure() {
	g := testGame()
	g.State = entities.GameStateActive
	g.Characters["alice"] = testCharacter("Lyra")
	g.Characters["bob"] = testCharacter("Bram")

	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(g, nil)
	s.games.EXPECT().StartGame(gomock.Any(), gomock.Any()).Return(nil, dnderr.Unavailable("store down"))

	_, err := s.handler.HandleStart(commandCtx(s.fake, "game-chan", "alice", "!start"))
	s.Require().Error(err)
	s.Require().Len(s.fake.CreatedChannels, 1)
	s.Equal([]string{s.fake.CreatedChannels[0].ID}, s.fake.DeletedChannels)
}

func (s *GameHandlerTestSuite) TestStart_NotReady() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(testGame(), nil)

	_, err := s.handler.HandleStart(commandCtx(s.fake, "game-chan", "alice", "!start"))
	s.True(dnderr.IsFailedPrecondition(err))
	s.Empty(s.fake.CreatedChannels)
}

func (s *GameHandlerTestSuite) TestEnd_FromGameChannel() {
	s.games.EXPECT().EndGame(gomock.Any(), &game.EndGameInput{ChannelID: "game-chan", UserID: "alice"}).
		Return(testGame(), nil)

	result, err := s.handler.HandleEnd(commandCtx(s.fake, "game-chan", "alice", "!end_dnd"))
	s.Require().NoError(err)
	s.Contains(result.Response.Content, "ended before starting")
}

func (s *GameHandlerTestSuite) TestEnd_FromThreadDeletesPlayChannels() {
	s.fake.AddChannel(&discordgo.Channel{ID: "ooc", ParentID: "ic", Type: discordgo.ChannelTypeGuildPublicThread})

	g := testGame()
	g.ICChannelID = "ic"
	g.OOCThreadID = "ooc"
	s.games.EXPECT().EndGame(gomock.Any(), &game.EndGameInput{
		ChannelID:       "ooc",
		UserID:          "alice",
		IsThread:        true,
		ParentChannelID: "ic",
	}).Return(g, nil)

	_, err := s.handler.HandleEnd(commandCtx(s.fake, "ooc", "alice", "!end_dnd"))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"ic", "ooc"}, s.fake.DeletedChannels)
	s.Contains(s.fake.LastMessageIn("game-chan").Content, "The D&D game has ended.")
}

func (s *GameHandlerTestSuite) TestProfile() {
	g := testGame()
	g.State = entities.GameStateStarted
	g.OOCThreadID = "ooc"
	char := testCharacter("Lyra")
	char.HP = 5
	char.MaxHP = 10
	g.Characters["alice"] = char
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ooc").Return(g, nil)

	result, err := s.handler.HandleProfile(commandCtx(s.fake, "ooc", "alice", "!profile"))
	s.Require().NoError(err)

	embed := result.Response.Embeds[0]
	s.Equal("✨ Lyra ✨", embed.Title)
	s.Equal("`[█████░░░░░]`", fieldValue(embed, "❤️ HP: 5/10"))
}

func (s *GameHandlerTestSuite) TestProfile_WrongChannel() {
	g := testGame()
	g.State = entities.GameStateStarted
	g.OOCThreadID = "ooc"
	g.ICChannelID = "ic"
	s.games.EXPECT().GetGameByLinkedChannel(gomock.Any(), "ic").Return(g, nil)

	result, err := s.handler.HandleProfile(commandCtx(s.fake, "ic", "alice", "!profile"))
	s.Require().NoError(err)
	s.Contains(result.Response.Content, "Use `!profile` in the OOC thread")
}

func TestGameHandlerSuite(t *testing.T) {
	suite.Run(t, new(GameHandlerTestSuite))
}

func TestProgressBar(t *testing.T) {
	cases := map[string]struct {
		value, max int
		want       string
	}{
		"empty":    {0, 10, "░░░░░░░░░░"},
		"half":     {5, 10, "█████░░░░░"},
		"full":     {10, 10, "██████████"},
		"overflow": {25, 10, "██████████"},
		"zero max": {3, 0, "░░░░░░░░░░"},
		"negative": {-4, 10, "░░░░░░░░░░"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := handlers.ProgressBar(tc.value, tc.max); got != tc.want {
				t.Errorf("ProgressBar(%d, %d) = %q, want %q", tc.value, tc.max, got, tc.want)
			}
		})
	}
}
