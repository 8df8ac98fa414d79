package llm

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// ErrNotConfigured is returned by the disabled client when no API key is set.
var ErrNotConfigured = dnderr.Unavailable("the language model is not configured")

type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	FallbackModel string
	Temperature   float32
	TopP          float32
	MaxTokens     int
	HTTPClient    *http.Client
}

type client struct {
	api *openai.Client
	cfg Config

	resolveOnce sync.Once
	model       string
}

// New creates a client for an OpenAI-compatible chat endpoint.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("llm config is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, dnderr.InvalidArgument("llm API key is required")
	}
	if cfg.Model == "" {
		return nil, dnderr.InvalidArgument("llm model is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		apiCfg.HTTPClient = cfg.HTTPClient
	}

	return &client{
		api: openai.NewClientWithConfig(apiCfg),
		cfg: *cfg,
	}, nil
}

// resolveModel picks the configured model when the endpoint lists it and the
// fallback otherwise. A listing failure keeps the configured model.
func (c *client) resolveModel(ctx context.Context) string {
	c.resolveOnce.Do(func() {
		c.model = c.cfg.Model
		if c.cfg.FallbackModel == "" {
			return
		}

		models, err := c.ListModels(ctx)
		if err != nil {
			log.Printf("[LLM] Could not list models, using %s: %v", c.model, err)
			return
		}
		for _, m := range models {
			if m == c.cfg.Model {
				log.Printf("[LLM] Using model %s", c.model)
				return
			}
		}
		c.model = c.cfg.FallbackModel
		log.Printf("[LLM] Model %s not offered, falling back to %s", c.cfg.Model, c.model)
	})
	return c.model
}

func (c *client) SendPrompt(ctx context.Context, system string, history []Message, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	model := c.resolveModel(ctx)
	resp, err := c.api.CreateChatCompletion(ctx, c.request(model, messages))
	if err != nil && isModelNotFound(err) && c.cfg.FallbackModel != "" && model != c.cfg.FallbackModel {
		log.Printf("[LLM] Model %s rejected, retrying with %s", model, c.cfg.FallbackModel)
		resp, err = c.api.CreateChatCompletion(ctx, c.request(c.cfg.FallbackModel, messages))
	}
	if err != nil {
		return "", dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "chat completion failed").
			WithMeta("model", model)
	}
	if len(resp.Choices) == 0 {
		return "", dnderr.Internal("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *client) request(model string, messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
		MaxTokens:   c.cfg.MaxTokens,
	}
}

func (c *client) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to list models")
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		// Gemini reports "models/gemini-1.5-pro" while chat calls take the bare name.
		ids = append(ids, strings.TrimPrefix(m.ID, "models/"))
	}
	return ids, nil
}

func isModelNotFound(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}

type disabled struct{}

// NewDisabled returns a client whose calls fail with ErrNotConfigured.
func NewDisabled() Client {
	return disabled{}
}

func (disabled) SendPrompt(context.Context, string, []Message, string) (string, error) {
	return "", ErrNotConfigured
}

func (disabled) ListModels(context.Context) ([]string, error) {
	return nil, ErrNotConfigured
}

// IsNotConfigured reports whether err came from a client without an API key.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
