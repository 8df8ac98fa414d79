package routers

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

// NewKitRouter serves !campaign_setup and the kit menus players get by DM
func NewKitRouter(pipeline *core.Pipeline, cfg *Config) (*core.Router, error) {
	router := core.NewRouter("kit", pipeline)

	h, err := handlers.NewCampaignHandler(&handlers.CampaignHandlerConfig{
		GameService:     cfg.Provider.GameService,
		SelectionsRepo:  cfg.Provider.SelectionsRepo,
		CustomIDBuilder: router.GetCustomIDBuilder(),
		ThemeTimeout:    cfg.ThemeTimeout,
	})
	if err != nil {
		return nil, err
	}

	router.CommandFunc("campaign_setup", h.HandleSetup)
	router.ComponentFunc("item", h.HandleItem)
	router.ComponentFunc(string(entities.SelectionStepSkills), h.HandleChoices)
	router.ComponentFunc(string(entities.SelectionStepCantrips), h.HandleChoices)
	router.ComponentFunc(string(entities.SelectionStepSpells), h.HandleChoices)
	router.ComponentFunc("confirm", h.HandleConfirm)
	return router, nil
}
