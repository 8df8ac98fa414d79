package chat

//go:generate mockgen -destination=mock/mock_service.go -package=mockchat -source=service.go

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/llm"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/conversations"
)

// SystemPrompt keeps Emo in character for the ask command.
const SystemPrompt = `Your name is Emo. You are a helpful, creative, and friendly Discord bot.
Important: Never say phrases like "As an AI" or "As a language model" or "I don't have personal experiences".
Instead, engage with all questions directly and conversationally as if you were a person named Emo with thoughts and experiences.
If asked about personal experiences, preferences, or opinions, respond as Emo would, with a thoughtful answer.
Avoid disclaimers about your nature unless explicitly asked about how you work.`

// Repository is an alias for the conversation repository interface
type Repository = conversations.Repository

// Service answers free-form questions as Emo and remembers each user's chat.
type Service interface {
	// Ask sends a question in the user's conversation and returns the cleaned reply
	Ask(ctx context.Context, userID, question string) (string, error)

	// ListModels returns the model ids the language endpoint exposes
	ListModels(ctx context.Context) ([]string, error)

	// Reset forgets a user's conversation. It reports false when there was none.
	Reset(ctx context.Context, userID string) (bool, error)

	// ResetAll forgets every conversation and returns how many were dropped
	ResetAll(ctx context.Context) (int, error)
}

type service struct {
	repository Repository
	llmClient  llm.Client
	now        func() time.Time
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository Repository // Required
	LLMClient  llm.Client // Required
}

// NewService creates a new chat service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.LLMClient == nil {
		panic("llm client is required")
	}
	return &service{
		repository: cfg.Repository,
		llmClient:  cfg.LLMClient,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Ask(ctx context.Context, userID, question string) (string, error) {
	if userID == "" {
		return "", dnderr.InvalidArgument("user ID is required")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", dnderr.InvalidArgument("Please ask a question, e.g. `!ask What is your favorite color?`")
	}

	conv, err := s.repository.Get(ctx, userID)
	if err != nil {
		if !dnderr.IsNotFound(err) {
			return "", dnderr.Wrapf(err, "failed to load conversation for %s", userID)
		}
		conv = &entities.Conversation{UserID: userID}
	}

	history := make([]llm.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		history = append(history, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}

	reply, err := s.llmClient.SendPrompt(ctx, SystemPrompt, history, question)
	if err != nil {
		// A failed exchange starts the user over, same as the reset command.
		if delErr := s.repository.Delete(ctx, userID); delErr != nil {
			log.Printf("[Chat] Failed to drop conversation for %s after error: %v", userID, delErr)
		}
		return "", dnderr.Wrap(err, "Error sending message")
	}

	now := s.now()
	conv.Append(string(llm.RoleUser), question, now)
	conv.Append(string(llm.RoleAssistant), reply, now)
	if err := s.repository.Save(ctx, conv); err != nil {
		log.Printf("[Chat] Failed to save conversation for %s: %v", userID, err)
	}

	return CleanDisclaimers(reply), nil
}

func (s *service) ListModels(ctx context.Context) ([]string, error) {
	models, err := s.llmClient.ListModels(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "Error listing models")
	}
	return models, nil
}

func (s *service) Reset(ctx context.Context, userID string) (bool, error) {
	if _, err := s.repository.Get(ctx, userID); err != nil {
		if dnderr.IsNotFound(err) {
			return false, nil
		}
		return false, dnderr.Wrapf(err, "failed to load conversation for %s", userID)
	}
	if err := s.repository.Delete(ctx, userID); err != nil {
		return false, dnderr.Wrapf(err, "failed to reset conversation for %s", userID)
	}
	return true, nil
}

func (s *service) ResetAll(ctx context.Context) (int, error) {
	n, err := s.repository.DeleteAll(ctx)
	if err != nil {
		return 0, dnderr.Wrap(err, "failed to reset conversations")
	}
	log.Printf("[Chat] Reset %d conversations", n)
	return n, nil
}
