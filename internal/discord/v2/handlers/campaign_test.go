package handlers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/selections"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/game"
	mockgame "github.com/KirkDiggler/emo-bot-discord/internal/services/game/mock"
)

type CampaignHandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	games   *mockgame.MockService
	drafts  selections.Repository
	fake    *core.FakeDiscord
	handler *handlers.CampaignHandler
}

func (s *CampaignHandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.games = mockgame.NewMockService(s.ctrl)
	s.drafts = selections.NewInMemory()
	s.fake = core.NewFakeDiscord()

	h, err := handlers.NewCampaignHandler(&handlers.CampaignHandlerConfig{
		GameService:    s.games,
		SelectionsRepo: s.drafts,
		ThemeTimeout:   200 * time.Millisecond,
	})
	s.Require().NoError(err)
	s.handler = h
}

func (s *CampaignHandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CampaignHandlerTestSuite) readyGame() *entities.GameSession {
	g := testGame()
	g.Characters["alice"] = testCharacter("Lyra")
	g.Characters["bob"] = testCharacter("Bram")
	return g
}

func (s *CampaignHandlerTestSuite) aliceDraft(steps ...entities.SelectionStep) *entities.SelectionDraft {
	return &entities.SelectionDraft{
		ID:              "draft-alice",
		GameID:          "game-chan",
		PlayerID:        "alice",
		Character:       "Lyra",
		Theme:           "Haunted Forest",
		Steps:           steps,
		FixedItems:      []string{"Spellbook"},
		InventoryGroups: [][]string{{"Quarterstaff", "Dagger"}, {"Component pouch", "Arcane focus"}},
		SkillOptions:    []string{"Arcana", "History", "Insight", "Medicine"},
		SkillCount:      2,
	}
}

func (s *CampaignHandlerTestSuite) saveDraft(d *entities.SelectionDraft) {
	s.Require().NoError(s.drafts.Save(context.Background(), d))
}

func (s *CampaignHandlerTestSuite) loadDraft() *entities.SelectionDraft {
	d, err := s.drafts.Get(context.Background(), "game-chan", "alice")
	s.Require().NoError(err)
	return d
}

func (s *CampaignHandlerTestSuite) TestSetup_SendsKits() {
	g := s.readyGame()
	active := s.readyGame()
	active.State = entities.GameStateActive
	active.Theme = "Haunted Forest"

	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(g, nil)
	s.games.EXPECT().SetupCampaign(gomock.Any(), &game.SetupCampaignInput{
		ChannelID: "game-chan",
		UserID:    "alice",
		Theme:     "Haunted Forest",
	}).Return(&game.SetupCampaignResult{
		Game:    active,
		Drafts:  []*entities.SelectionDraft{s.aliceDraft(entities.SelectionStepInventory, entities.SelectionStepSkills)},
		Skipped: map[string]error{},
	}, nil)

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!campaign_setup"), s.handler.HandleSetup,
		core.TestMessage("game-chan", "alice", "  Haunted Forest "),
	)
	s.Require().NoError(err)
	s.Nil(result.Response)

	sent := s.fake.MessagesIn("game-chan")
	s.Require().Len(sent, 4)
	s.Equal("📜 Campaign Theme Selection 📜", sent[0].Embeds[0].Title)
	s.Contains(sent[1].Content, "Welcome, players <@alice>, <@bob>!")
	s.Equal("Player <@bob> completed the special choices for their character.", sent[3].Content)

	aliceDM := s.fake.MessagesIn("dm-alice")
	s.Require().Len(aliceDM, 1)
	s.Contains(aliceDM[0].Content, "Lyra")
	s.Equal("Choosable Equipment", aliceDM[0].Embeds[0].Fields[4].Name)
	s.Len(aliceDM[0].Components, 3) // two selects and the confirm row

	row := aliceDM[0].Components[0].(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)
	s.Equal("kit:item:game-chan:0", menu.CustomID)
	s.True(menu.Options[0].Default)

	bobDM := s.fake.MessagesIn("dm-bob")
	s.Require().Len(bobDM, 1)
	s.Empty(bobDM[0].Components)
}

func (s *CampaignHandlerTestSuite) TestSetup_NoDraftsIsReady() {
	active := s.readyGame()
	active.State = entities.GameStateActive

	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(s.readyGame(), nil)
	s.games.EXPECT().SetupCampaign(gomock.Any(), gomock.Any()).Return(&game.SetupCampaignResult{
		Game:    active,
		Skipped: map[string]error{"bob": errors.New("unknown race")},
	}, nil)

	result, err := runWithReplies(s.T(), commandCtx(s.fake, "game-chan", "alice", "!campaign_setup"), s.handler.HandleSetup,
		core.TestMessage("game-chan", "alice", "Pirates"),
	)
	s.Require().NoError(err)
	s.Equal("Now players use `!start` to begin this adventure!", result.Response.Content)

	contents := make([]string, 0)
	for _, m := range s.fake.MessagesIn("game-chan") {
		contents = append(contents, m.Content)
	}
	s.Contains(contents, "Error: Invalid race 'Elf' for <@bob>.")
	s.Empty(s.fake.MessagesIn("dm-bob"))
}

func (s *CampaignHandlerTestSuite) TestSetup_MissingCharacters() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(testGame(), nil)

	result, err := s.handler.HandleSetup(commandCtx(s.fake, "game-chan", "alice", "!campaign_setup"))
	s.Require().NoError(err)
	s.Equal("Please make your character first using `!creation` or `!random`. Players without characters: Alice, Bob", result.Response.Content)
}

func (s *CampaignHandlerTestSuite) TestSetup_NotManager() {
	s.games.EXPECT().GetGame(gomock.Any(), "game-chan").Return(s.readyGame(), nil)

	_, err := s.handler.HandleSetup(commandCtx(s.fake, "game-chan", "bob", "!campaign_setup"))
	s.Error(err)
	s.Empty(s.fake.Sent)
}

func (s *CampaignHandlerTestSuite) TestItem_StoresPick() {
	s.saveDraft(s.aliceDraft(entities.SelectionStepInventory))

	_, err := s.handler.HandleItem(componentCtx(s.fake, "dm-alice", "alice", "kit:item:game-chan:1", "Arcane focus"))
	s.Require().NoError(err)
	s.Equal([]string{"", "Arcane focus"}, s.loadDraft().InventoryPicks)
}

func (s *CampaignHandlerTestSuite) TestItem_RejectsUnknownItem() {
	s.saveDraft(s.aliceDraft(entities.SelectionStepInventory))

	_, err := s.handler.HandleItem(componentCtx(s.fake, "dm-alice", "alice", "kit:item:game-chan:0", "Greatsword"))
	s.Error(err)
}

func (s *CampaignHandlerTestSuite) TestItem_NoDraft() {
	_, err := s.handler.HandleItem(componentCtx(s.fake, "dm-alice", "alice", "kit:item:game-chan:0", "Dagger"))
	var handlerErr *core.HandlerError
	s.Require().ErrorAs(err, &handlerErr)
	s.Equal("These choices are no longer open.", handlerErr.UserMessage)
}

func (s *CampaignHandlerTestSuite) TestConfirm_InventoryMovesToSkills() {
	s.saveDraft(s.aliceDraft(entities.SelectionStepInventory, entities.SelectionStepSkills))

	result, err := s.handler.HandleConfirm(componentCtx(s.fake, "dm-alice", "alice", "kit:confirm:game-chan:inventory"))
	s.Require().NoError(err)
	s.True(result.Response.Update)
	s.Equal("Your inventory for Lyra is set!", result.Response.Content)
	s.Equal("Spellbook, Quarterstaff, Component pouch", fieldValue(result.Response.Embeds[0], "Inventory"))

	s.Equal(entities.SelectionStepSkills, s.loadDraft().Step())
	next := s.fake.LastMessageIn("dm-alice")
	s.Require().NotNil(next)
	s.Equal("Skills for Lyra", next.Embeds[0].Title)

	row := next.Components[0].(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)
	s.Equal("kit:skills:game-chan", menu.CustomID)
	s.Equal(2, menu.MaxValues)
}

func (s *CampaignHandlerTestSuite) TestConfirm_StaleStep() {
	d := s.aliceDraft(entities.SelectionStepInventory, entities.SelectionStepSkills)
	d.Current = 1
	s.saveDraft(d)

	result, err := s.handler.HandleConfirm(componentCtx(s.fake, "dm-alice", "alice", "kit:confirm:game-chan:inventory"))
	s.Require().NoError(err)
	s.True(result.Response.Ephemeral)
	s.Equal("This step is already confirmed.", result.Response.Content)
}

func (s *CampaignHandlerTestSuite) TestConfirm_NeedsExactCount() {
	d := s.aliceDraft(entities.SelectionStepSkills)
	s.saveDraft(d)

	_, err := s.handler.HandleChoices(componentCtx(s.fake, "dm-alice", "alice", "kit:skills:game-chan", "Arcana"))
	s.Require().NoError(err)

	result, err := s.handler.HandleConfirm(componentCtx(s.fake, "dm-alice", "alice", "kit:confirm:game-chan:skills"))
	s.Require().NoError(err)
	s.Equal("Please select 2 skills before confirming.", result.Response.Content)
	s.Equal(entities.SelectionStepSkills, s.loadDraft().Step())
}

func (s *CampaignHandlerTestSuite) TestChoices_RejectsUnlistedOption() {
	s.saveDraft(s.aliceDraft(entities.SelectionStepSkills))

	_, err := s.handler.HandleChoices(componentCtx(s.fake, "dm-alice", "alice", "kit:skills:game-chan", "Arcana", "Stealth"))
	s.Error(err)
	s.Empty(s.loadDraft().Skills)
}

func (s *CampaignHandlerTestSuite) TestConfirm_LastStepAppliesSelections() {
	d := s.aliceDraft(entities.SelectionStepSkills)
	d.Skills = []string{"Arcana", "History"}
	s.saveDraft(d)

	char := testCharacter("Lyra")
	char.Skills = []string{"Arcana", "History"}
	s.games.EXPECT().ApplySelections(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, draft *entities.SelectionDraft) (*game.ApplySelectionsResult, error) {
			s.True(draft.IsDone())
			return &game.ApplySelectionsResult{Game: s.readyGame(), Character: char, AllDone: true}, nil
		})

	result, err := s.handler.HandleConfirm(componentCtx(s.fake, "dm-alice", "alice", "kit:confirm:game-chan:skills"))
	s.Require().NoError(err)
	s.Equal("Your skills for Lyra are set!", result.Response.Content)
	s.Equal("Arcana, History", fieldValue(result.Response.Embeds[0], "Skills"))

	s.Contains(s.fake.LastMessageIn("dm-alice").Content, "All choices for Lyra are locked in.")
	channel := s.fake.MessagesIn("game-chan")
	s.Require().Len(channel, 2)
	s.Equal("Player <@alice> completed the special choices for their character.", channel[0].Content)
	s.Equal("Now players use `!start` to begin this adventure!", channel[1].Content)
}

func (s *CampaignHandlerTestSuite) TestConfirm_ApplyFails() {
	d := s.aliceDraft(entities.SelectionStepInventory)
	s.saveDraft(d)
	s.games.EXPECT().ApplySelections(gomock.Any(), gomock.Any()).Return(nil, dnderr.NotFound("game gone"))

	_, err := s.handler.HandleConfirm(componentCtx(s.fake, "dm-alice", "alice", "kit:confirm:game-chan:inventory"))
	s.True(dnderr.IsNotFound(err))
	s.Empty(s.fake.MessagesIn("game-chan"))
}

func TestCampaignHandlerSuite(t *testing.T) {
	suite.Run(t, new(CampaignHandlerTestSuite))
}
