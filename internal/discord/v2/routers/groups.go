package routers

import (
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/middleware"
)

var groupCommands = []string{"mkgrp", "mkvc", "delvc", "delgrp"}

// NewGroupsRouter serves the private group commands
func NewGroupsRouter(pipeline *core.Pipeline, _ *Config) (*core.Router, error) {
	router := core.NewRouter("groups", pipeline)
	router.Use(middleware.GuildOnlyMiddleware(groupCommands...))

	h := handlers.NewGroupsHandler()
	router.CommandFunc("mkgrp", h.HandleMakeGroup)
	router.CommandFunc("mkvc", h.HandleMakeVoice)
	router.CommandFunc("delvc", h.HandleDeleteVoice)
	router.CommandFunc("delgrp", h.HandleDeleteGroup)
	return router, nil
}
