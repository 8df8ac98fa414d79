package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Responder delivers a handler's Response to Discord
type Responder interface {
	// Respond sends the response
	Respond(response *Response) error

	// HasResponded returns whether a response was already sent
	HasResponded() bool
}

// MessageResponder answers a text command by posting in its channel
type MessageResponder struct {
	session   Discord
	message   *discordgo.Message
	responded bool
}

// NewMessageResponder creates a responder for a text message
func NewMessageResponder(s Discord, m *discordgo.Message) *MessageResponder {
	return &MessageResponder{session: s, message: m}
}

// Respond posts the response, optionally as a reply to the command message
func (r *MessageResponder) Respond(response *Response) error {
	send := &discordgo.MessageSend{
		Content:         response.Content,
		Embeds:          response.Embeds,
		Components:      response.Components,
		AllowedMentions: response.AllowedMentions,
	}
	if response.Reply {
		send.Reference = r.message.Reference()
	}

	if _, err := r.session.ChannelMessageSendComplex(r.message.ChannelID, send); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	r.responded = true
	return nil
}

// HasResponded returns whether this responder has already sent a response
func (r *MessageResponder) HasResponded() bool {
	return r.responded
}

// ComponentResponder answers a button or select interaction
type ComponentResponder struct {
	session     Discord
	interaction *discordgo.Interaction
	responded   bool
}

// NewComponentResponder creates a responder for a component interaction
func NewComponentResponder(s Discord, i *discordgo.Interaction) *ComponentResponder {
	return &ComponentResponder{session: s, interaction: i}
}

// Respond sends a new message, or replaces the source message when the
// response is an update
func (r *ComponentResponder) Respond(response *Response) error {
	if r.responded {
		return fmt.Errorf("interaction already responded to")
	}

	respType := discordgo.InteractionResponseChannelMessageWithSource
	data := &discordgo.InteractionResponseData{
		Content:         response.Content,
		Embeds:          response.Embeds,
		Components:      response.Components,
		AllowedMentions: response.AllowedMentions,
	}
	if response.Update {
		respType = discordgo.InteractionResponseUpdateMessage
		if data.Components == nil {
			data.Components = []discordgo.MessageComponent{}
		}
	} else if response.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: respType,
		Data: data,
	})
	if err != nil {
		return fmt.Errorf("failed to respond to interaction: %w", err)
	}
	r.responded = true
	return nil
}

// Acknowledge tells Discord the interaction was handled without changing the
// message
func (r *ComponentResponder) Acknowledge() error {
	if r.responded {
		return nil
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err == nil {
		r.responded = true
	}
	return err
}

// HasResponded returns whether this responder has already sent a response
func (r *ComponentResponder) HasResponded() bool {
	return r.responded
}
