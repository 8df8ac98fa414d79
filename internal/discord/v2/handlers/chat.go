package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/services/chat"
)

// ChatHandler lets users talk to Emo outside of a game.
type ChatHandler struct {
	service chat.Service
}

// ChatHandlerConfig holds the configuration
type ChatHandlerConfig struct {
	Service chat.Service
}

// NewChatHandler creates a chat handler
func NewChatHandler(cfg *ChatHandlerConfig) (*ChatHandler, error) {
	if cfg == nil || cfg.Service == nil {
		return nil, fmt.Errorf("chat service is required")
	}
	return &ChatHandler{service: cfg.Service}, nil
}

// HandleAsk answers !ask <question>. The thinking placeholder is edited into
// a short answer, long answers replace it with several messages.
func (h *ChatHandler) HandleAsk(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	question := strings.TrimSpace(ctx.RawArgs)
	if question == "" {
		return core.Respond(core.NewResponse("Please ask a question, e.g. `!ask What is your favorite color?`"))
	}

	thinking, err := ctx.Send("🤔 Thinking...")
	if err != nil {
		return nil, err
	}

	answer, err := h.service.Ask(ctx.Context, ctx.UserID, question)
	if err != nil {
		log.Printf("[Chat] Ask failed for %s: %v", ctx.UserID, err)
		if _, editErr := ctx.Session.ChannelMessageEdit(ctx.ChannelID, thinking.ID, "⚠️ "+err.Error()); editErr != nil {
			return nil, editErr
		}
		return core.Done()
	}

	messages := chat.FormatAnswer(question, answer)
	if len(messages) == 1 {
		if _, err := ctx.Session.ChannelMessageEdit(ctx.ChannelID, thinking.ID, messages[0]); err != nil {
			return nil, err
		}
		return core.Done()
	}

	if err := ctx.Session.ChannelMessageDelete(ctx.ChannelID, thinking.ID); err != nil {
		log.Printf("[Chat] Failed to delete thinking message: %v", err)
	}
	for _, msg := range messages {
		if _, err := ctx.Send(msg); err != nil {
			return nil, err
		}
	}
	return core.Done()
}

// HandleListModels answers !list_models
func (h *ChatHandler) HandleListModels(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	models, err := h.service.ListModels(ctx.Context)
	if err != nil {
		return core.Respond(core.NewResponse("⚠️ " + err.Error()))
	}
	if len(models) == 0 {
		return core.Respond(core.NewResponse("No models are available right now."))
	}
	return core.Respond(core.NewResponse(fmt.Sprintf("Available Gemini models:\n```\n%s\n```", strings.Join(models, ", "))))
}

// HandleReset answers !reset_chat
func (h *ChatHandler) HandleReset(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	had, err := h.service.Reset(ctx.Context, ctx.UserID)
	if err != nil {
		return nil, err
	}
	if !had {
		return core.Respond(core.NewResponse("You don't have an active chat with Emo."))
	}
	return core.Respond(core.NewResponse("✅ Your chat history with Emo has been reset!"))
}

// HandleResetAll answers !reset_all_chats. Permission is checked by middleware.
func (h *ChatHandler) HandleResetAll(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	n, err := h.service.ResetAll(ctx.Context)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to reset chats")
	}
	return core.Respond(core.NewResponse(fmt.Sprintf("✅ Reset %d chat histories with Emo.", n)))
}
