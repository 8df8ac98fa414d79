package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// SentMessage is a message FakeDiscord was asked to post
type SentMessage struct {
	ID        string
	ChannelID string
	Data      *discordgo.MessageSend
}

// FakeDiscord is an in-memory Discord for handler tests. It records every
// call and hands out sequential IDs.
type FakeDiscord struct {
	mu     sync.Mutex
	nextID int

	Sent            []*SentMessage
	Edits           []*discordgo.MessageEdit
	DeletedMessages []string // "channelID/messageID"
	Typing          []string

	Channels        map[string]*discordgo.Channel
	CreatedChannels []*discordgo.Channel
	ChannelEdits    map[string]*discordgo.ChannelEdit
	DeletedChannels []string
	Threads         []*discordgo.Channel

	Members     map[string]*discordgo.Member // user ID -> member
	Permissions map[string]int64             // user ID -> permissions
	Responses   []*discordgo.InteractionResponse

	// SendErr makes every message send fail
	SendErr error
}

var _ Discord = (*FakeDiscord)(nil)

// NewFakeDiscord creates an empty fake
func NewFakeDiscord() *FakeDiscord {
	return &FakeDiscord{
		Channels:     make(map[string]*discordgo.Channel),
		ChannelEdits: make(map[string]*discordgo.ChannelEdit),
		Members:      make(map[string]*discordgo.Member),
		Permissions:  make(map[string]int64),
	}
}

func (f *FakeDiscord) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeDiscord) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (f *FakeDiscord) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SendErr != nil {
		return nil, f.SendErr
	}
	msg := &SentMessage{ID: f.id("msg"), ChannelID: channelID, Data: data}
	f.Sent = append(f.Sent, msg)
	return &discordgo.Message{
		ID:         msg.ID,
		ChannelID:  channelID,
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
		Author:     &discordgo.User{ID: "bot", Bot: true},
	}, nil
}

func (f *FakeDiscord) ChannelMessageEdit(channelID, messageID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageEditComplex(discordgo.NewMessageEdit(channelID, messageID).SetContent(content))
}

func (f *FakeDiscord) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Edits = append(f.Edits, m)
	out := &discordgo.Message{ID: m.ID, ChannelID: m.Channel}
	if m.Content != nil {
		out.Content = *m.Content
	}
	return out, nil
}

func (f *FakeDiscord) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeletedMessages = append(f.DeletedMessages, channelID+"/"+messageID)
	return nil
}

func (f *FakeDiscord) ChannelTyping(channelID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Typing = append(f.Typing, channelID)
	return nil
}

func (f *FakeDiscord) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ch, ok := f.Channels[channelID]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("unknown channel %s", channelID)
}

func (f *FakeDiscord) ChannelEdit(channelID string, data *discordgo.ChannelEdit, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	f.ChannelEdits[channelID] = data
	if data.Name != "" {
		ch.Name = data.Name
	}
	if data.Topic != "" {
		ch.Topic = data.Topic
	}
	return ch, nil
}

func (f *FakeDiscord) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeletedChannels = append(f.DeletedChannels, channelID)
	ch := f.Channels[channelID]
	delete(f.Channels, channelID)
	if ch == nil {
		ch = &discordgo.Channel{ID: channelID}
	}
	return ch, nil
}

func (f *FakeDiscord) GuildChannels(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.Channel
	for _, ch := range f.Channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (f *FakeDiscord) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := &discordgo.Channel{
		ID:                   f.id("chan"),
		GuildID:              guildID,
		Name:                 data.Name,
		Type:                 data.Type,
		Topic:                data.Topic,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	f.Channels[ch.ID] = ch
	f.CreatedChannels = append(f.CreatedChannels, ch)
	return ch, nil
}

func (f *FakeDiscord) ThreadStartComplex(channelID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := &discordgo.Channel{
		ID:       f.id("thread"),
		Name:     data.Name,
		Type:     data.Type,
		ParentID: channelID,
	}
	if parent, ok := f.Channels[channelID]; ok {
		ch.GuildID = parent.GuildID
	}
	f.Channels[ch.ID] = ch
	f.Threads = append(f.Threads, ch)
	return ch, nil
}

func (f *FakeDiscord) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.Members[userID]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown member %s", userID)
}

func (f *FakeDiscord) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *FakeDiscord) UserChannelPermissions(userID, channelID string, _ ...discordgo.RequestOption) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.Permissions[userID], nil
}

func (f *FakeDiscord) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Responses = append(f.Responses, resp)
	return nil
}

// AddChannel registers a channel the fake can look up
func (f *FakeDiscord) AddChannel(ch *discordgo.Channel) *discordgo.Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Channels[ch.ID] = ch
	return ch
}

// MessagesIn returns what was posted to channelID, oldest first
func (f *FakeDiscord) MessagesIn(channelID string) []*discordgo.MessageSend {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*discordgo.MessageSend
	for _, m := range f.Sent {
		if m.ChannelID == channelID {
			out = append(out, m.Data)
		}
	}
	return out
}

// LastMessageIn returns the newest message posted to channelID
func (f *FakeDiscord) LastMessageIn(channelID string) *discordgo.MessageSend {
	msgs := f.MessagesIn(channelID)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

// LastResponse returns the newest interaction response
func (f *FakeDiscord) LastResponse() *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Responses) == 0 {
		return nil
	}
	return f.Responses[len(f.Responses)-1]
}

// TestMessage builds a guild message for tests
func TestMessage(channelID, userID, content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m-" + userID,
		ChannelID: channelID,
		GuildID:   "guild-1",
		Content:   content,
		Author:    &discordgo.User{ID: userID, Username: userID},
	}
}

// TestComponent builds a component interaction for tests
func TestComponent(channelID, userID, customID string, values ...string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "i-" + userID,
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: channelID,
		GuildID:   "guild-1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}},
		Message:   &discordgo.Message{ID: "source-msg", ChannelID: channelID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID: customID,
			Values:   values,
		},
	}
}

// NewTestCommandContext creates a context for a command message
func NewTestCommandContext(s Discord, m *discordgo.Message) *InteractionContext {
	ic := NewMessageContext(context.Background(), s, m, DefaultPrefix)
	ic.BotID = "bot"
	ic.Waiter = NewMessageWaiter()
	return ic
}

// NewTestComponentContext creates a context for a component interaction
func NewTestComponentContext(s Discord, i *discordgo.Interaction) *InteractionContext {
	ic := NewComponentContext(context.Background(), s, i)
	ic.BotID = "bot"
	ic.Waiter = NewMessageWaiter()
	return ic
}
