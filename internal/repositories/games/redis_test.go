package games

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games/mocks"
)

type RedisRepoTestSuite struct {
	suite.Suite
	client       *redis.Client
	mock         redismock.ClientMock
	mockCtrl     *gomock.Controller
	timeProvider *mocks.MockTimeProvider
	repo         Repository
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mocks.NewMockTimeProvider(s.mockCtrl)
	s.now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client:       s.client,
		TimeProvider: s.timeProvider,
	})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) newGame() *entities.GameSession {
	game := entities.NewGameSession("chan-1", "guild-1", "user-1", s.now)
	game.AddPlayer("user-1", "Aria")
	game.SetGameMaster("bot-1", entities.EmoName, true)
	return game
}

func (s *RedisRepoTestSuite) encode(game *entities.GameSession) string {
	data, err := json.Marshal(game)
	s.Require().NoError(err)
	return string(data)
}

func (s *RedisRepoTestSuite) TestSave() {
	ctx := context.Background()
	game := s.newGame()

	s.timeProvider.EXPECT().Now().Return(s.now)

	expected := *game
	expected.LastUpdated = s.now

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("emo:game:chan-1", s.encode(&expected), gameTTL).SetVal("OK")
	s.mock.ExpectSAdd("emo:games", "chan-1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	err := s.repo.Save(ctx, game)
	s.NoError(err)
	s.Equal(s.now, game.LastUpdated)
}

func (s *RedisRepoTestSuite) TestSave_WritesLinks() {
	ctx := context.Background()
	game := s.newGame()
	game.ICChannelID = "ic-1"
	game.OOCThreadID = "ooc-1"

	s.timeProvider.EXPECT().Now().Return(s.now)
	expected := *game
	expected.LastUpdated = s.now

	s.mock.ExpectTxPipeline()
	s.mock.ExpectSet("emo:game:chan-1", s.encode(&expected), gameTTL).SetVal("OK")
	s.mock.ExpectSAdd("emo:games", "chan-1").SetVal(1)
	s.mock.ExpectSet("emo:game:link:ic-1", "chan-1", gameTTL).SetVal("OK")
	s.mock.ExpectSet("emo:game:link:ooc-1", "chan-1", gameTTL).SetVal("OK")
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Save(ctx, game))
}

func (s *RedisRepoTestSuite) TestSave_InputValidation() {
	ctx := context.Background()

	err := s.repo.Save(ctx, nil)
	s.True(dnderr.IsInvalidArgument(err))

	err = s.repo.Save(ctx, &entities.GameSession{})
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	game := s.newGame()

	s.mock.ExpectGet("emo:game:chan-1").SetVal(s.encode(game))
	s.mock.ExpectExpire("emo:game:chan-1", gameTTL).SetVal(true)

	got, err := s.repo.Get(ctx, "chan-1")
	s.Require().NoError(err)
	s.Equal("chan-1", got.ChannelID)
	s.Equal([]string{"user-1"}, got.PlayerIDs)
	s.True(got.IsAIGM)
	s.Equal(entities.GameStateSetup, got.State)
}

func (s *RedisRepoTestSuite) TestGet_RefreshesLinkKeys() {
	ctx := context.Background()
	game := s.newGame()
	game.ICChannelID = "ic-1"
	game.OOCThreadID = "ooc-1"

	s.mock.ExpectGet("emo:game:chan-1").SetVal(s.encode(game))
	s.mock.ExpectExpire("emo:game:chan-1", gameTTL).SetVal(true)
	s.mock.ExpectExpire("emo:game:link:ic-1", gameTTL).SetVal(true)
	s.mock.ExpectExpire("emo:game:link:ooc-1", gameTTL).SetVal(true)

	got, err := s.repo.Get(ctx, "chan-1")
	s.Require().NoError(err)
	s.Equal("ooc-1", got.OOCThreadID)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	ctx := context.Background()
	s.mock.ExpectGet("emo:game:missing").RedisNil()

	_, err := s.repo.Get(ctx, "missing")
	s.Error(err)
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_DependencyError() {
	ctx := context.Background()
	s.mock.ExpectGet("emo:game:chan-1").SetErr(errors.New("connection refused"))

	_, err := s.repo.Get(ctx, "chan-1")
	s.Error(err)
	s.False(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGetByLinkedChannel() {
	ctx := context.Background()
	game := s.newGame()
	game.ICChannelID = "ic-1"

	s.mock.ExpectGet("emo:game:link:ic-1").SetVal("chan-1")
	s.mock.ExpectGet("emo:game:chan-1").SetVal(s.encode(game))
	s.mock.ExpectExpire("emo:game:chan-1", gameTTL).SetVal(true)
	s.mock.ExpectExpire("emo:game:link:ic-1", gameTTL).SetVal(true)

	got, err := s.repo.GetByLinkedChannel(ctx, "ic-1")
	s.Require().NoError(err)
	s.Equal("chan-1", got.ChannelID)

	s.mock.ExpectGet("emo:game:link:nope").RedisNil()
	_, err = s.repo.GetByLinkedChannel(ctx, "nope")
	s.True(dnderr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()
	game := s.newGame()
	game.ICChannelID = "ic-1"
	game.OOCThreadID = "ooc-1"

	s.mock.ExpectGet("emo:game:chan-1").SetVal(s.encode(game))
	s.mock.ExpectExpire("emo:game:chan-1", gameTTL).SetVal(true)
	s.mock.ExpectTxPipeline()
	s.mock.ExpectDel("emo:game:chan-1").SetVal(1)
	s.mock.ExpectSRem("emo:games", "chan-1").SetVal(1)
	s.mock.ExpectDel("emo:game:link:ic-1").SetVal(1)
	s.mock.ExpectDel("emo:game:link:ooc-1").SetVal(1)
	s.mock.ExpectTxPipelineExec()

	s.NoError(s.repo.Delete(ctx, "chan-1"))
}

func (s *RedisRepoTestSuite) TestDelete_MissingIsNoop() {
	ctx := context.Background()
	s.mock.ExpectGet("emo:game:gone").RedisNil()

	s.NoError(s.repo.Delete(ctx, "gone"))
}

func (s *RedisRepoTestSuite) TestList_SkipsExpired() {
	ctx := context.Background()
	game := s.newGame()

	s.mock.ExpectSMembers("emo:games").SetVal([]string{"chan-1", "chan-old"})
	s.mock.ExpectGet("emo:game:chan-1").SetVal(s.encode(game))
	s.mock.ExpectExpire("emo:game:chan-1", gameTTL).SetVal(true)
	s.mock.ExpectGet("emo:game:chan-old").RedisNil()

	got, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Len(got, 1)
	s.Equal("chan-1", got[0].ChannelID)
}
