package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Pipeline dispatches messages and component clicks to the registered
// handlers. By default the first handler whose CanHandle accepts wins.
type Pipeline struct {
	mu          sync.RWMutex
	handlers    []Handler
	middleware  []Middleware
	stopOnFirst bool

	prefix string
	botID  string
	waiter *MessageWaiter
}

type Middleware func(Handler) Handler

func NewPipeline() *Pipeline {
	return &Pipeline{
		stopOnFirst: true,
		prefix:      DefaultPrefix,
		waiter:      NewMessageWaiter(),
	}
}

// Register wraps each handler in the pipeline middleware added so far.
func (p *Pipeline) Register(handlers ...Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, h := range handlers {
		for i := len(p.middleware) - 1; i >= 0; i-- {
			h = p.middleware[i](h)
		}
		p.handlers = append(p.handlers, h)
	}
}

// Use must be called before Register to affect a handler.
func (p *Pipeline) Use(middleware ...Middleware) {
	p.mu.Lock()
	p.middleware = append(p.middleware, middleware...)
	p.mu.Unlock()
}

// SetStopOnFirst(false) lets every willing handler run until one sets
// StopPropagation.
func (p *Pipeline) SetStopOnFirst(stop bool) {
	p.mu.Lock()
	p.stopOnFirst = stop
	p.mu.Unlock()
}

// SetPrefix ignores an empty prefix.
func (p *Pipeline) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if prefix != "" {
		p.prefix = prefix
	}
}

// SetBotID is called from the Ready event.
func (p *Pipeline) SetBotID(id string) {
	p.mu.Lock()
	p.botID = id
	p.mu.Unlock()
}

func (p *Pipeline) Waiter() *MessageWaiter {
	return p.waiter
}

// ExecuteMessage runs the pipeline for a created message. Messages an open
// wait is expecting are delivered there instead of being dispatched.
func (p *Pipeline) ExecuteMessage(ctx context.Context, s Discord, m *discordgo.Message) error {
	if m == nil || m.Author == nil || m.Author.Bot {
		return nil
	}
	if p.waiter.Deliver(m) {
		return nil
	}

	p.mu.RLock()
	prefix, botID := p.prefix, p.botID
	p.mu.RUnlock()

	ictx := NewMessageContext(ctx, s, m, prefix)
	ictx.Waiter = p.waiter
	ictx.BotID = botID

	if ictx.IsCommand() {
		log.Printf("[Pipeline] Executing command: %s (user %s, channel %s)",
			ictx.Command, ictx.UserID, ictx.ChannelID)
	}

	return p.run(ictx, NewMessageResponder(s, m))
}

// ExecuteInteraction runs the pipeline for a component interaction. The
// interaction is acknowledged if no handler responded.
func (p *Pipeline) ExecuteInteraction(ctx context.Context, s Discord, i *discordgo.Interaction) error {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return nil
	}

	p.mu.RLock()
	botID := p.botID
	p.mu.RUnlock()

	ictx := NewComponentContext(ctx, s, i)
	ictx.Waiter = p.waiter
	ictx.BotID = botID

	log.Printf("[Pipeline] Executing component: %s (user %s)", ictx.GetCustomID(), ictx.UserID)

	responder := NewComponentResponder(s, i)
	err := p.run(ictx, responder)
	if ackErr := responder.Acknowledge(); ackErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to acknowledge interaction: %w", ackErr))
	}
	return err
}

func (p *Pipeline) run(ictx *InteractionContext, responder Responder) error {
	ictx.WithValue("responder", responder)

	p.mu.RLock()
	handlers := append([]Handler(nil), p.handlers...)
	stopOnFirst := p.stopOnFirst
	p.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(ictx) {
			continue
		}
		result, err := h.Handle(ictx)
		if err != nil {
			result = errorResult(err)
		}
		if result != nil && result.Response != nil {
			if err := responder.Respond(result.Response); err != nil {
				return fmt.Errorf("failed to send response: %w", err)
			}
		}
		if stopOnFirst || (result != nil && result.StopPropagation) {
			break
		}
	}
	// Unknown commands and ordinary chatter fall through silently.
	return nil
}

func (p *Pipeline) HandlerCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}

// errorResult renders errors that got past ErrorMiddleware, which normally
// sits first in the chain.
func errorResult(err error) *HandlerResult {
	msg := genericUserMessage
	var herr *HandlerError
	if errors.As(err, &herr) && herr.ShowToUser {
		msg = herr.UserMessage
	}
	return &HandlerResult{Response: NewEphemeralResponse(msg)}
}
