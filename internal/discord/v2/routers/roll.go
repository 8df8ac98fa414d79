package routers

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
)

// NewRollRouter serves !roll and the dice roller components
func NewRollRouter(pipeline *core.Pipeline, cfg *Config) (*core.Router, error) {
	router := core.NewRouter("roll", pipeline)

	h, err := handlers.NewRollHandler(&handlers.RollHandlerConfig{
		GameService:     cfg.Provider.GameService,
		Roller:          cfg.Provider.Roller,
		CustomIDBuilder: router.GetCustomIDBuilder(),
	})
	if err != nil {
		return nil, err
	}

	router.CommandFunc("roll", h.HandleRoll)
	for _, action := range []string{"die", "count", "bonus"} {
		router.ComponentFunc(action, h.HandleSelect)
	}
	for _, action := range []string{"advantage", "normal", "disadvantage"} {
		router.ComponentFunc(action, h.HandleThrow)
	}
	router.ComponentFunc("help", h.HandleHelp)
	return router, nil
}
