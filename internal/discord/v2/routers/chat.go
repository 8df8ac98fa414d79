package routers

import (
	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/handlers"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/middleware"
)

// NewChatRouter serves !ask and the chat history commands
func NewChatRouter(pipeline *core.Pipeline, cfg *Config) (*core.Router, error) {
	h, err := handlers.NewChatHandler(&handlers.ChatHandlerConfig{Service: cfg.Provider.ChatService})
	if err != nil {
		return nil, err
	}

	router := core.NewRouter("chat", pipeline)
	router.Use(
		middleware.TypingMiddleware("ask"),
		middleware.PermissionRequiredMiddleware(discordgo.PermissionManageGuild, "reset_all_chats"),
	)

	router.Command("ask", limited(cfg, core.HandlerFunc(h.HandleAsk)))
	router.CommandFunc("list_models", h.HandleListModels)
	router.CommandFunc("reset_chat", h.HandleReset)
	router.CommandFunc("reset_all_chats", h.HandleResetAll)
	return router, nil
}

// limited wraps handler with the configured rate limit, if any.
func limited(cfg *Config, handler core.Handler) core.Handler {
	if mw := cfg.limiter(); mw != nil {
		return mw(handler)
	}
	return handler
}
