package entities

import "time"

// MaxConversationMessages bounds a user's chat history with Emo.
const MaxConversationMessages = 30

// ConversationMessage is one line of a user's chat with Emo.
type ConversationMessage struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Conversation is the per-user memory used by the ask command.
type Conversation struct {
	UserID    string                `json:"user_id"`
	Messages  []ConversationMessage `json:"messages"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Append adds a message and drops the oldest beyond the cap.
func (c *Conversation) Append(role, content string, at time.Time) {
	c.Messages = append(c.Messages, ConversationMessage{Role: role, Content: content, SentAt: at})
	if len(c.Messages) > MaxConversationMessages {
		c.Messages = append([]ConversationMessage(nil), c.Messages[len(c.Messages)-MaxConversationMessages:]...)
	}
	c.UpdatedAt = at
}
