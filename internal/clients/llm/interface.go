package llm

//go:generate mockgen -destination=mock/mock_client.go -package=mockllm . Client

import "context"

// Role is who authored a message in a prompt history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn sent to the model.
type Message struct {
	Role    Role
	Content string
}

// Client talks to a generative language model.
type Client interface {
	// SendPrompt sends the system prompt, the prior turns and the new prompt,
	// and returns the model's reply text.
	SendPrompt(ctx context.Context, system string, history []Message, prompt string) (string, error)
	// ListModels returns the model IDs the endpoint exposes.
	ListModels(ctx context.Context) ([]string, error)
}
