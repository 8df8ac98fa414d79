package routers

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/middleware"
)

// NewGameRouter serves the game lifecycle, characters, SRD lookups and
// Emo's narration in IC channels
func NewGameRouter(pipeline *core.Pipeline, cfg *Config) (*core.Router, error) {
	p := cfg.Provider

	games, err := handlers.NewGameHandler(&handlers.GameHandlerConfig{
		Service:      p.GameService,
		Rulebook:     p.Rulebook,
		SetupTimeout: cfg.SetupTimeout,
	})
	if err != nil {
		return nil, err
	}
	characters, err := handlers.NewCharacterHandler(&handlers.CharacterHandlerConfig{
		CharacterService: p.CharacterService,
		GameService:      p.GameService,
		OverwriteTimeout: cfg.OverwriteTimeout,
		SheetTimeout:     cfg.SheetTimeout,
	})
	if err != nil {
		return nil, err
	}
	lookups, err := handlers.NewLookupHandler(p.CharacterService)
	if err != nil {
		return nil, err
	}
	narration, err := handlers.NewNarrationHandler(&handlers.NarrationHandlerConfig{
		GameService:      p.GameService,
		NarrationService: p.NarrationService,
	})
	if err != nil {
		return nil, err
	}

	router := core.NewRouter("dnd", pipeline)
	router.Use(middleware.GuildOnlyMiddleware("dnd", "start", "end_dnd", "creation", "random", "emo"))

	router.CommandFunc("dnd", games.HandleSetup)
	router.CommandFunc("dnd_status", games.HandleStatus)
	router.CommandFunc("end_dnd", games.HandleEnd)
	router.CommandFunc("start", games.HandleStart)
	router.CommandFunc("profile", games.HandleProfile)

	router.CommandFunc("creation", characters.HandleCreation)
	router.CommandFunc("random", characters.HandleRandom)
	router.CommandFunc("view_character", characters.HandleView)
	router.CommandFunc("list_characters", characters.HandleList)

	router.CommandFunc("spell", lookups.HandleSpell)
	router.CommandFunc("race_info", lookups.HandleRace)
	router.CommandFunc("class_info", lookups.HandleClass)

	router.Command("emo", limited(cfg, core.HandlerFunc(narration.HandleEmo)))
	router.CommandFunc("help_emo", narration.HandleHelpEmo)
	router.Message(limited(cfg, narration.Replies()))
	return router, nil
}
