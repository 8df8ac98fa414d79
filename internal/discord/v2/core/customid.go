package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	customIDSep = ":"

	// MaxCustomIDLength is the most Discord accepts on a component
	MaxCustomIDLength = 100
)

// CustomID is a component ID of the form domain:action[:target[:args...]].
//
// Emo keeps per-message state in the args (the roller's die, count and
// modifier, the kit step being confirmed) so clicks need no server-side
// session. Target is usually the user or game that owns the message.
type CustomID struct {
	Domain string
	Action string
	Target string
	Args   []string
}

// NewCustomID builds an ID. An empty target keeps its slot when args follow.
func NewCustomID(domain, action, target string, args ...string) *CustomID {
	return &CustomID{Domain: domain, Action: action, Target: target, Args: args}
}

// String joins the parts without checking the length
func (c *CustomID) String() string {
	var sb strings.Builder
	sb.WriteString(c.Domain)
	sb.WriteString(customIDSep)
	sb.WriteString(c.Action)
	if c.Target == "" && len(c.Args) == 0 {
		return sb.String()
	}
	sb.WriteString(customIDSep)
	sb.WriteString(c.Target)
	for _, a := range c.Args {
		sb.WriteString(customIDSep)
		sb.WriteString(a)
	}
	return sb.String()
}

// Encode is String with Discord's length limit enforced.
func (c *CustomID) Encode() (string, error) {
	s := c.String()
	if len(s) > MaxCustomIDLength {
		return "", fmt.Errorf("custom ID %q is %d characters, limit is %d", c.Domain+customIDSep+c.Action, len(s), MaxCustomIDLength)
	}
	return s, nil
}

// Arg returns the i-th argument, or "" past the end.
func (c *CustomID) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// IntArgs reads the first n arguments as integers.
func (c *CustomID) IntArgs(n int) ([]int, error) {
	if len(c.Args) < n {
		return nil, fmt.Errorf("%s:%s needs %d arguments, has %d", c.Domain, c.Action, n, len(c.Args))
	}
	out := make([]int, n)
	for i := range out {
		v, err := strconv.Atoi(c.Args[i])
		if err != nil {
			return nil, fmt.Errorf("%s:%s argument %d: %w", c.Domain, c.Action, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// ParseCustomID splits an ID produced by CustomID.String.
func ParseCustomID(customID string) (*CustomID, error) {
	domain, rest, ok := strings.Cut(customID, customIDSep)
	if !ok || domain == "" {
		return nil, fmt.Errorf("custom ID %q has no domain:action", customID)
	}
	parts := strings.Split(rest, customIDSep)
	if parts[0] == "" {
		return nil, fmt.Errorf("custom ID %q has an empty action", customID)
	}

	id := &CustomID{Domain: domain, Action: parts[0], Args: []string{}}
	if len(parts) > 1 {
		id.Target = parts[1]
		id.Args = append(id.Args, parts[2:]...)
	}
	return id, nil
}

// CustomIDBuilder stamps IDs for one router domain.
type CustomIDBuilder struct {
	domain string
}

func NewCustomIDBuilder(domain string) *CustomIDBuilder {
	return &CustomIDBuilder{domain: domain}
}

// Build starts an ID for action in the builder's domain.
func (b *CustomIDBuilder) Build(action string) *CustomID {
	return NewCustomID(b.domain, action, "")
}

// Button returns the encoded ID for a button. It does not truncate, Discord
// rejects anything over MaxCustomIDLength.
func (b *CustomIDBuilder) Button(action, target string, args ...string) string {
	return NewCustomID(b.domain, action, target, args...).String()
}

// Select returns the encoded ID for a select menu.
func (b *CustomIDBuilder) Select(action, target string, args ...string) string {
	return b.Button(action, target, args...)
}
