package routers

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
)

// NewHelpRouter serves !test, !list and the category dropdown
func NewHelpRouter(pipeline *core.Pipeline, _ *Config) (*core.Router, error) {
	router := core.NewRouter("help", pipeline)
	h := handlers.NewHelpHandler(router.GetCustomIDBuilder())

	router.CommandFunc("test", h.HandleTest)
	router.CommandFunc("list", h.HandleList)
	router.ComponentFunc("category", h.HandleCategory)
	return router, nil
}
