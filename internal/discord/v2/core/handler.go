package core

import (
	"github.com/bwmarrin/discordgo"
)

// Handler is anything the pipeline can dispatch to. CanHandle must be cheap,
// the pipeline asks every registered handler in order.
type Handler interface {
	CanHandle(ctx *InteractionContext) bool
	Handle(ctx *InteractionContext) (*HandlerResult, error)
}

// HandlerFunc is a Handler that accepts everything.
type HandlerFunc func(ctx *InteractionContext) (*HandlerResult, error)

func (f HandlerFunc) CanHandle(*InteractionContext) bool { return true }

func (f HandlerFunc) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return f(ctx)
}

type wrappedHandler struct {
	next Handler
	fn   HandlerFunc
}

func (w *wrappedHandler) CanHandle(ctx *InteractionContext) bool {
	return w.next.CanHandle(ctx)
}

func (w *wrappedHandler) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return w.fn(ctx)
}

// Wrap returns a handler that runs fn but keeps next's CanHandle, so
// middleware does not change which route is chosen.
func Wrap(next Handler, fn HandlerFunc) Handler {
	return &wrappedHandler{next: next, fn: fn}
}

// HandlerResult is what a handler hands back to the pipeline.
type HandlerResult struct {
	// Nil when the handler already posted everything itself
	Response *Response

	StopPropagation bool
}

// Response is sent by the pipeline either as a channel message or, for
// component clicks, as the interaction response.
type Response struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent

	// Ephemeral only takes effect on component interactions
	Ephemeral bool
	// Update edits the message carrying the clicked component
	Update bool
	// Reply threads the message under the one that triggered it
	Reply bool

	AllowedMentions *discordgo.MessageAllowedMentions
}

func NewResponse(content string) *Response {
	return &Response{Content: content}
}

func NewEphemeralResponse(content string) *Response {
	return NewResponse(content).AsEphemeral()
}

func NewEmbedResponse(embed *discordgo.MessageEmbed) *Response {
	return &Response{Embeds: []*discordgo.MessageEmbed{embed}}
}

func (r *Response) WithContent(content string) *Response {
	r.Content = content
	return r
}

// WithComponents replaces any components already set.
func (r *Response) WithComponents(components ...discordgo.MessageComponent) *Response {
	r.Components = components
	return r
}

func (r *Response) AsEphemeral() *Response {
	r.Ephemeral = true
	return r
}

func (r *Response) AsUpdate() *Response {
	r.Update = true
	return r
}

func (r *Response) AsReply() *Response {
	r.Reply = true
	return r
}

// Respond is the usual return of a handler.
func Respond(response *Response) (*HandlerResult, error) {
	return &HandlerResult{Response: response}, nil
}

// Done is returned by handlers that posted their own messages.
func Done() (*HandlerResult, error) {
	return &HandlerResult{}, nil
}
