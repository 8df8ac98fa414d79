package core

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"
)

// DefaultPrefix starts every text command.
const DefaultPrefix = "!"

// InteractionContext wraps a prefix command, a plain message or a component
// interaction with the helpers handlers need.
type InteractionContext struct {
	// Core Discord objects. Message is set for text, Interaction for components.
	Session     Discord
	Message     *discordgo.Message
	Interaction *discordgo.Interaction

	// Extracted common fields for convenience
	UserID    string
	GuildID   string
	ChannelID string
	User      *discordgo.User
	Member    *discordgo.Member

	// BotID is the bot's own user ID, used for permission overwrites and
	// recognising replies to Emo.
	BotID string

	// Command is the name after the prefix, empty for plain messages.
	Command string
	Args    []string
	RawArgs string

	// Waiter delivers follow-up messages for multi-step commands.
	Waiter *MessageWaiter

	// Context for cancellation and values
	Context context.Context

	values map[string]interface{}
}

// NewMessageContext creates a context for a message. The command fields are
// filled when the content starts with prefix.
func NewMessageContext(ctx context.Context, s Discord, m *discordgo.Message, prefix string) *InteractionContext {
	ic := &InteractionContext{
		Session:   s,
		Message:   m,
		UserID:    authorID(m),
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		User:      m.Author,
		Member:    m.Member,
		Context:   ctx,
		values:    make(map[string]interface{}),
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if cmd, raw, ok := ParseCommand(m.Content, prefix); ok {
		ic.Command = cmd
		ic.RawArgs = raw
		ic.Args = strings.Fields(raw)
	}
	return ic
}

// NewComponentContext creates a context for a button or select interaction.
func NewComponentContext(ctx context.Context, s Discord, i *discordgo.Interaction) *InteractionContext {
	ic := &InteractionContext{
		Session:     s,
		Interaction: i,
		GuildID:     i.GuildID,
		ChannelID:   i.ChannelID,
		Member:      i.Member,
		Context:     ctx,
		values:      make(map[string]interface{}),
	}
	if i.Member != nil && i.Member.User != nil {
		ic.User = i.Member.User
	} else if i.User != nil {
		ic.User = i.User
	}
	if ic.User != nil {
		ic.UserID = ic.User.ID
	}
	return ic
}

func authorID(m *discordgo.Message) string {
	if m.Author == nil {
		return ""
	}
	return m.Author.ID
}

// ParseCommand splits "!name rest of line" into the command name and the raw
// argument text. The name must follow the prefix directly.
func ParseCommand(content, prefix string) (name, raw string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := content[len(prefix):]
	if rest == "" {
		return "", "", false
	}
	for _, r := range rest {
		if unicode.IsSpace(r) {
			return "", "", false
		}
		break
	}

	idx := strings.IndexFunc(rest, unicode.IsSpace)
	if idx < 0 {
		return rest, "", true
	}
	return rest[:idx], strings.TrimSpace(rest[idx:]), true
}

// IsCommand reports whether the context holds a prefix command
func (ic *InteractionContext) IsCommand() bool {
	return ic.Message != nil && ic.Command != ""
}

// IsMessage reports whether the context holds a message that is not a command
func (ic *InteractionContext) IsMessage() bool {
	return ic.Message != nil && ic.Command == ""
}

// IsComponent reports whether the context holds a component interaction
func (ic *InteractionContext) IsComponent() bool {
	return ic.Interaction != nil && ic.Interaction.Type == discordgo.InteractionMessageComponent
}

// IsDM reports whether the event came from a direct message
func (ic *InteractionContext) IsDM() bool {
	return ic.GuildID == ""
}

// GetCommandName returns the command name
func (ic *InteractionContext) GetCommandName() string {
	return ic.Command
}

// GetCustomID returns the custom ID of a component interaction
func (ic *InteractionContext) GetCustomID() string {
	if !ic.IsComponent() {
		return ""
	}
	return ic.Interaction.MessageComponentData().CustomID
}

// GetValues returns the picked options of a select menu
func (ic *InteractionContext) GetValues() []string {
	if !ic.IsComponent() {
		return nil
	}
	return ic.Interaction.MessageComponentData().Values
}

// SourceMessage returns the message a component is attached to
func (ic *InteractionContext) SourceMessage() *discordgo.Message {
	if ic.Interaction == nil {
		return nil
	}
	return ic.Interaction.Message
}

// Mentions returns the users mentioned in the message
func (ic *InteractionContext) Mentions() []*discordgo.User {
	if ic.Message == nil {
		return nil
	}
	return ic.Message.Mentions
}

// IsReplyTo reports whether the message replies to one sent by userID
func (ic *InteractionContext) IsReplyTo(userID string) bool {
	if ic.Message == nil || ic.Message.ReferencedMessage == nil || ic.Message.ReferencedMessage.Author == nil {
		return false
	}
	return ic.Message.ReferencedMessage.Author.ID == userID
}

// DisplayName returns the caller's server nickname or global name
func (ic *InteractionContext) DisplayName() string {
	return DisplayName(ic.Member, ic.User)
}

// DisplayName prefers a member's nickname over the user's global name.
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return ""
	}
	return user.DisplayName()
}

// MemberName resolves a user's display name in the current guild, falling
// back to the user record when the member lookup fails.
func (ic *InteractionContext) MemberName(user *discordgo.User) string {
	if ic.GuildID != "" && ic.Session != nil {
		if m, err := ic.Session.GuildMember(ic.GuildID, user.ID); err == nil {
			return DisplayName(m, user)
		}
	}
	return DisplayName(nil, user)
}

// Send posts plain text to the context's channel
func (ic *InteractionContext) Send(content string) (*discordgo.Message, error) {
	return ic.Session.ChannelMessageSend(ic.ChannelID, content)
}

// SendEmbed posts an embed to the context's channel
func (ic *InteractionContext) SendEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return ic.Session.ChannelMessageSendComplex(ic.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
}

// WaitForMessage blocks until the caller sends another message in the same
// channel that accept approves, or the timeout passes.
func (ic *InteractionContext) WaitForMessage(timeout time.Duration, accept func(*discordgo.Message) bool) (*discordgo.Message, error) {
	if ic.Waiter == nil {
		return nil, ErrWaitTimeout
	}
	return ic.Waiter.Wait(ic.Context, ic.ChannelID, ic.UserID, timeout, accept)
}

// WithValue stores a value in the context
func (ic *InteractionContext) WithValue(key string, value interface{}) *InteractionContext {
	ic.values[key] = value
	return ic
}

// Value retrieves a value from the context
func (ic *InteractionContext) Value(key string) interface{} {
	return ic.values[key]
}
