package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// MockHandler for testing
type MockHandler struct {
	name      string
	canHandle bool
	result    *HandlerResult
	err       error
	called    bool
}

func (m *MockHandler) CanHandle(ctx *InteractionContext) bool {
	return m.canHandle
}

func (m *MockHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	m.called = true
	return m.result, m.err
}

func TestPipeline_Register(t *testing.T) {
	pipeline := NewPipeline()

	handler1 := &MockHandler{name: "handler1"}
	handler2 := &MockHandler{name: "handler2"}

	pipeline.Register(handler1, handler2)

	assert.Equal(t, 2, pipeline.HandlerCount())
}

func TestPipeline_ExecuteMessage_StopOnFirst(t *testing.T) {
	pipeline := NewPipeline()
	discord := NewFakeDiscord()

	handler1 := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("Response 1")}}
	handler2 := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("Response 2")}}
	pipeline.Register(handler1, handler2)

	err := pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!test"))
	require.NoError(t, err)

	assert.True(t, handler1.called)
	assert.False(t, handler2.called)
	require.Len(t, discord.MessagesIn("c1"), 1)
	assert.Equal(t, "Response 1", discord.LastMessageIn("c1").Content)
}

func TestPipeline_ExecuteMessage_ContinueOnMultiple(t *testing.T) {
	pipeline := NewPipeline()
	pipeline.SetStopOnFirst(false)
	discord := NewFakeDiscord()

	handler1 := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("Response 1")}}
	handler2 := &MockHandler{canHandle: false}
	handler3 := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("Response 3")}}
	pipeline.Register(handler1, handler2, handler3)

	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!test")))

	assert.True(t, handler1.called)
	assert.False(t, handler2.called)
	assert.True(t, handler3.called)
	assert.Len(t, discord.MessagesIn("c1"), 2)
}

func TestPipeline_ExecuteMessage_StopPropagation(t *testing.T) {
	pipeline := NewPipeline()
	pipeline.SetStopOnFirst(false)
	discord := NewFakeDiscord()

	handler1 := &MockHandler{canHandle: true, result: &HandlerResult{Response: NewResponse("first"), StopPropagation: true}}
	handler2 := &MockHandler{canHandle: true}
	pipeline.Register(handler1, handler2)

	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!test")))

	assert.True(t, handler1.called)
	assert.False(t, handler2.called)
}

func TestPipeline_ExecuteMessage_ErrorHandling(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "handler error shows its message",
			err:      NewUserError("You are not a player in this D&D game.", ErrorCodeForbidden),
			expected: "You are not a player in this D&D game.",
		},
		{
			name:     "service error converted by handler",
			err:      FromServiceError(dnderr.NotFound("There is no active D&D game in this channel.")),
			expected: "There is no active D&D game in this channel.",
		},
		{
			name:     "plain error is generic",
			err:      errors.New("redis down"),
			expected: "An error occurred while processing your request.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := NewPipeline()
			discord := NewFakeDiscord()
			pipeline.Register(&MockHandler{canHandle: true, err: tc.err})

			require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!dnd")))
			assert.Equal(t, tc.expected, discord.LastMessageIn("c1").Content)
		})
	}
}

func TestPipeline_Middleware(t *testing.T) {
	pipeline := NewPipeline()
	discord := NewFakeDiscord()
	var order []string

	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return &wrapped{next: next, before: func() { order = append(order, name) }}
		}
	}
	pipeline.Use(tag("outer"), tag("inner"))
	pipeline.Register(HandlerFunc(func(ctx *InteractionContext) (*HandlerResult, error) {
		order = append(order, "handler")
		return Done()
	}))

	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!test")))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Empty(t, discord.Sent)
}

type wrapped struct {
	next   Handler
	before func()
}

func (w *wrapped) CanHandle(ctx *InteractionContext) bool { return w.next.CanHandle(ctx) }

func (w *wrapped) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	w.before()
	return w.next.Handle(ctx)
}

func TestPipeline_IgnoresBotsAndUnknownCommands(t *testing.T) {
	pipeline := NewPipeline()
	discord := NewFakeDiscord()

	router := NewRouter("misc", pipeline)
	router.CommandFunc("test", func(ctx *InteractionContext) (*HandlerResult, error) {
		return Respond(NewResponse("Test command works!"))
	})
	router.Register()

	botMsg := TestMessage("c1", "other-bot", "!test")
	botMsg.Author.Bot = true
	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, botMsg))
	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!nope")))
	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "just chatting")))
	assert.Empty(t, discord.Sent)

	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!test")))
	assert.Equal(t, "Test command works!", discord.LastMessageIn("c1").Content)
}

func TestPipeline_WaiterConsumesMessage(t *testing.T) {
	pipeline := NewPipeline()
	discord := NewFakeDiscord()
	handler := &MockHandler{canHandle: true}
	pipeline.Register(handler)

	got := make(chan *discordgo.Message, 1)
	go func() {
		m, err := pipeline.Waiter().Wait(context.Background(), "c1", "u1", time.Second, nil)
		if err == nil {
			got <- m
		}
	}()
	require.Eventually(t, func() bool { return pipeline.Waiter().Pending() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, pipeline.ExecuteMessage(context.Background(), discord, TestMessage("c1", "u1", "!start")))

	select {
	case m := <-got:
		assert.Equal(t, "!start", m.Content)
	case <-time.After(time.Second):
		t.Fatal("waiter never received the message")
	}
	assert.False(t, handler.called)
}

func TestPipeline_ExecuteInteraction(t *testing.T) {
	t.Run("routes by custom id and updates", func(t *testing.T) {
		pipeline := NewPipeline()
		discord := NewFakeDiscord()

		router := NewRouter("list", pipeline)
		router.ComponentFunc("category", func(ctx *InteractionContext) (*HandlerResult, error) {
			assert.Equal(t, []string{"dnd"}, ctx.GetValues())
			return Respond(NewResponse("picked").AsUpdate())
		})
		router.Register()

		err := pipeline.ExecuteInteraction(context.Background(), discord, TestComponent("c1", "u1", "list:category", "dnd"))
		require.NoError(t, err)

		require.Len(t, discord.Responses, 1)
		assert.Equal(t, discordgo.InteractionResponseUpdateMessage, discord.Responses[0].Type)
		assert.Equal(t, "picked", discord.Responses[0].Data.Content)
	})

	t.Run("acknowledges when nothing responded", func(t *testing.T) {
		pipeline := NewPipeline()
		discord := NewFakeDiscord()

		require.NoError(t, pipeline.ExecuteInteraction(context.Background(), discord, TestComponent("c1", "u1", "other:thing")))

		require.Len(t, discord.Responses, 1)
		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, discord.Responses[0].Type)
	})

	t.Run("ephemeral errors", func(t *testing.T) {
		pipeline := NewPipeline()
		discord := NewFakeDiscord()

		router := NewRouter("roll", pipeline)
		router.ComponentFunc("die", func(ctx *InteractionContext) (*HandlerResult, error) {
			return nil, NewForbiddenError("This dice roller belongs to someone else!")
		})
		router.Register()

		require.NoError(t, pipeline.ExecuteInteraction(context.Background(), discord, TestComponent("c1", "u2", "roll:die:u1")))

		resp := discord.LastResponse()
		require.NotNil(t, resp)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
		assert.Equal(t, "This dice roller belongs to someone else!", resp.Data.Content)
	})
}
