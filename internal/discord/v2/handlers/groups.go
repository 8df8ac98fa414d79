package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
)

const (
	// PrivateGroupsCategory holds every private group channel.
	PrivateGroupsCategory = "Private Groups"

	privateVoiceName = "private-voice"
	maxChannelName   = 100
	creatorPrefix    = "Creator: "
	voiceMarker      = ", Voice: "
)

const memberAccess = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages

// GroupsHandler manages private text and voice rooms.
type GroupsHandler struct{}

// NewGroupsHandler creates a private groups handler
func NewGroupsHandler() *GroupsHandler {
	return &GroupsHandler{}
}

// groupTopic is the "Creator: {id}[, Voice: {id}]" topic of a group channel.
type groupTopic struct {
	creatorID string
	voiceID   string
}

func parseGroupTopic(topic string) (groupTopic, bool) {
	if !strings.HasPrefix(topic, creatorPrefix) {
		return groupTopic{}, false
	}
	rest := strings.TrimPrefix(topic, creatorPrefix)
	creator, voice, _ := strings.Cut(rest, voiceMarker)
	creator, _, _ = strings.Cut(creator, ",")
	return groupTopic{creatorID: strings.TrimSpace(creator), voiceID: strings.TrimSpace(voice)}, true
}

func (t groupTopic) String() string {
	if t.voiceID == "" {
		return creatorPrefix + t.creatorID
	}
	return creatorPrefix + t.creatorID + voiceMarker + t.voiceID
}

// GroupChannelName builds "private-{author}-{a}-{b}-{c}[-+N]", cut to Discord's limit.
func GroupChannelName(author string, members []string) string {
	names := members
	if len(names) > 3 {
		names = append(append([]string(nil), members[:3]...), fmt.Sprintf("+%d", len(members)-3))
	}
	name := fmt.Sprintf("private-%s-%s", author, strings.Join(names, "-"))
	if len(name) > maxChannelName {
		name = name[:maxChannelName-3] + "..."
	}
	return name
}

// HandleMakeGroup answers !mkgrp @members
func (h *GroupsHandler) HandleMakeGroup(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	mentions := ctx.Mentions()
	if len(mentions) == 0 {
		return core.Respond(core.NewResponse("Please mention at least one member to create a group with."))
	}

	var members []*discordgo.User
	for _, u := range mentions {
		if u.ID == ctx.UserID {
			if _, err := ctx.Send("You don't need to mention yourself, you're automatically included."); err != nil {
				return nil, err
			}
			continue
		}
		if u.Bot {
			continue
		}
		members = append(members, u)
	}
	if len(members) == 0 {
		return core.Respond(core.NewResponse("No valid members to create a group with."))
	}

	category, err := h.ensureCategory(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, ctx.MemberName(m))
	}

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: ctx.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: ctx.UserID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess},
	}
	if ctx.BotID != "" {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{ID: ctx.BotID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess})
	}
	mentionList := []string{entities.Mention(ctx.UserID)}
	for _, m := range members {
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{ID: m.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess})
		mentionList = append(mentionList, entities.Mention(m.ID))
	}

	channel, err := ctx.Session.GuildChannelCreateComplex(ctx.GuildID, discordgo.GuildChannelCreateData{
		Name:                 GroupChannelName(ctx.DisplayName(), names),
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                groupTopic{creatorID: ctx.UserID}.String(),
		ParentID:             category.ID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create private group channel: %w", err)
	}

	if _, err := ctx.Session.ChannelMessageSend(channel.ID, "Welcome to your private group! Members: "+strings.Join(mentionList, ", ")); err != nil {
		log.Printf("[Groups] Failed to welcome members in %s: %v", channel.ID, err)
	}

	log.Printf("[Groups] Created %s for %d members", channel.Name, len(mentionList))
	return core.Respond(core.NewResponse(fmt.Sprintf("Private group created for %d members.", len(mentionList))))
}

// ensureCategory finds or creates the hidden Private Groups category.
func (h *GroupsHandler) ensureCategory(ctx *core.InteractionContext) (*discordgo.Channel, error) {
	channels, err := ctx.Session.GuildChannels(ctx.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildCategory && ch.Name == PrivateGroupsCategory {
			return ch, nil
		}
	}

	category, err := ctx.Session.GuildChannelCreateComplex(ctx.GuildID, discordgo.GuildChannelCreateData{
		Name: PrivateGroupsCategory,
		Type: discordgo.ChannelTypeGuildCategory,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{ID: ctx.GuildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s category: %w", PrivateGroupsCategory, err)
	}
	return category, nil
}

// groupChannel loads the current channel and checks it is a private group.
// A non-empty reply means the command should stop with that message.
func (h *GroupsHandler) groupChannel(ctx *core.InteractionContext) (*discordgo.Channel, groupTopic, string, error) {
	channel, err := ctx.Session.Channel(ctx.ChannelID)
	if err != nil {
		return nil, groupTopic{}, "", fmt.Errorf("failed to load channel: %w", err)
	}

	inCategory := false
	if channel.ParentID != "" {
		if parent, err := ctx.Session.Channel(channel.ParentID); err == nil && parent.Name == PrivateGroupsCategory {
			inCategory = true
		}
	}
	if !inCategory {
		return nil, groupTopic{}, "This command can only be used in a private group text channel.", nil
	}

	topic, ok := parseGroupTopic(channel.Topic)
	if !ok {
		return nil, groupTopic{}, "This is not a private group channel.", nil
	}
	return channel, topic, "", nil
}

// HandleMakeVoice answers !mkvc
func (h *GroupsHandler) HandleMakeVoice(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	channel, topic, reply, err := h.groupChannel(ctx)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return core.Respond(core.NewResponse(reply))
	}
	if topic.creatorID != ctx.UserID {
		return core.Respond(core.NewResponse("Only the creator can add a voice channel."))
	}
	if topic.voiceID != "" {
		return core.Respond(core.NewResponse("A voice channel already exists for this group."))
	}

	voice, err := ctx.Session.GuildChannelCreateComplex(ctx.GuildID, discordgo.GuildChannelCreateData{
		Name:                 privateVoiceName,
		Type:                 discordgo.ChannelTypeGuildVoice,
		ParentID:             channel.ParentID,
		PermissionOverwrites: channel.PermissionOverwrites,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create voice channel: %w", err)
	}

	topic.voiceID = voice.ID
	if _, err := ctx.Session.ChannelEdit(channel.ID, &discordgo.ChannelEdit{Topic: topic.String()}); err != nil {
		return nil, fmt.Errorf("failed to link voice channel: %w", err)
	}

	return core.Respond(core.NewResponse(fmt.Sprintf("Voice channel %s has been created.", voice.Name)))
}

// HandleDeleteVoice answers !delvc
func (h *GroupsHandler) HandleDeleteVoice(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	channel, topic, reply, err := h.groupChannel(ctx)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return core.Respond(core.NewResponse(reply))
	}
	if topic.creatorID != ctx.UserID {
		return core.Respond(core.NewResponse("Only the creator can delete the voice channel."))
	}
	if topic.voiceID == "" {
		return core.Respond(core.NewResponse("There is no voice channel to delete."))
	}

	h.deleteVoice(ctx, topic.voiceID)

	topic.voiceID = ""
	if _, err := ctx.Session.ChannelEdit(channel.ID, &discordgo.ChannelEdit{Topic: topic.String()}); err != nil {
		return nil, fmt.Errorf("failed to unlink voice channel: %w", err)
	}
	return core.Respond(core.NewResponse("Voice channel has been deleted."))
}

// HandleDeleteGroup answers !delgrp
func (h *GroupsHandler) HandleDeleteGroup(ctx *core.InteractionContext) (*core.HandlerResult, error) {
	channel, topic, reply, err := h.groupChannel(ctx)
	if err != nil {
		return nil, err
	}
	if reply != "" {
		return core.Respond(core.NewResponse(reply))
	}
	if topic.creatorID != ctx.UserID {
		return core.Respond(core.NewResponse("Only the creator can delete the group."))
	}

	if topic.voiceID != "" {
		h.deleteVoice(ctx, topic.voiceID)
	}

	if _, err := ctx.Send("This private group will be deleted in a few seconds..."); err != nil {
		log.Printf("[Groups] Failed to announce deletion of %s: %v", channel.ID, err)
	}
	if _, err := ctx.Session.ChannelDelete(channel.ID); err != nil {
		return nil, fmt.Errorf("failed to delete private group: %w", err)
	}
	return core.Done()
}

// deleteVoice removes a linked voice channel. A channel deleted by hand is
// not an error.
func (h *GroupsHandler) deleteVoice(ctx *core.InteractionContext, voiceID string) {
	if _, err := ctx.Session.ChannelDelete(voiceID); err != nil {
		log.Printf("[Groups] Voice channel %s could not be deleted: %v", voiceID, err)
	}
}
