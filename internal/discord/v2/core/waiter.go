package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrWaitTimeout is returned when no matching message arrived in time.
var ErrWaitTimeout = errors.New("timed out waiting for a message")

type pendingWait struct {
	accept func(*discordgo.Message) bool
	ch     chan *discordgo.Message
}

// MessageWaiter lets a handler block until a specific user posts in a
// specific channel. The message handler offers every incoming message to
// Deliver before dispatching commands.
type MessageWaiter struct {
	mu    sync.Mutex
	waits map[string][]*pendingWait
}

// NewMessageWaiter creates an empty waiter
func NewMessageWaiter() *MessageWaiter {
	return &MessageWaiter{waits: make(map[string][]*pendingWait)}
}

func waitKey(channelID, userID string) string {
	return channelID + ":" + userID
}

// Wait returns the next message from userID in channelID that accept
// approves. A nil accept takes any message.
func (w *MessageWaiter) Wait(ctx context.Context, channelID, userID string, timeout time.Duration, accept func(*discordgo.Message) bool) (*discordgo.Message, error) {
	if accept == nil {
		accept = func(*discordgo.Message) bool { return true }
	}
	pw := &pendingWait{accept: accept, ch: make(chan *discordgo.Message, 1)}
	key := waitKey(channelID, userID)

	w.mu.Lock()
	w.waits[key] = append(w.waits[key], pw)
	w.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m := <-pw.ch:
		return m, nil
	case <-timer.C:
	case <-ctx.Done():
	}

	w.remove(key, pw)
	// Deliver may have won the race after the timer fired.
	select {
	case m := <-pw.ch:
		return m, nil
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrWaitTimeout
}

// Deliver hands m to the oldest matching wait. It reports whether the
// message was consumed.
func (w *MessageWaiter) Deliver(m *discordgo.Message) bool {
	if m == nil || m.Author == nil {
		return false
	}
	key := waitKey(m.ChannelID, m.Author.ID)

	w.mu.Lock()
	defer w.mu.Unlock()

	waits := w.waits[key]
	for i, pw := range waits {
		if !pw.accept(m) {
			continue
		}
		w.waits[key] = append(waits[:i:i], waits[i+1:]...)
		if len(w.waits[key]) == 0 {
			delete(w.waits, key)
		}
		pw.ch <- m
		return true
	}
	return false
}

// Pending returns how many waits are open
func (w *MessageWaiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, waits := range w.waits {
		n += len(waits)
	}
	return n
}

func (w *MessageWaiter) remove(key string, target *pendingWait) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waits := w.waits[key]
	for i, pw := range waits {
		if pw == target {
			w.waits[key] = append(waits[:i:i], waits[i+1:]...)
			break
		}
	}
	if len(w.waits[key]) == 0 {
		delete(w.waits, key)
	}
}
