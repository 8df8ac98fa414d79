package dnd5e

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"

	dnderr "github.com/KirkDiggler/emo-bot-discord/internal/errors"
)

// TODO: add context to functions once the upstream client accepts one
type client struct {
	client dnd5e.Interface
}

type Config struct {
	HttpClient *http.Client
	// BaseURL points requests at a mirror of dnd5eapi.co. Empty keeps the default.
	BaseURL string
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("dnd5e config is required")
	}

	httpClient := cfg.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil || base.Host == "" {
			return nil, dnderr.InvalidArgumentf("invalid dnd5e base URL %q", cfg.BaseURL)
		}
		rt := httpClient.Transport
		if rt == nil {
			rt = http.DefaultTransport
		}
		clone := *httpClient
		clone.Transport = &rewriteTransport{base: base, next: rt}
		httpClient = &clone
	}

	dndClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: httpClient,
	})
	if err != nil {
		return nil, err
	}

	return &client{
		client: dndClient,
	}, nil
}

// Key turns a display name like "Magic Missile" into an SRD index.
func Key(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	key := strings.Join(fields, "-")
	return strings.NewReplacer("'", "", "(", "", ")", "", "/", "-").Replace(key)
}

func (c *client) GetSpell(key string) (*Spell, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("spell name is required")
	}

	response, err := c.client.GetSpell(key)
	if err != nil {
		return nil, lookupError(err, "spell", key)
	}
	return apiSpellToSpell(response), nil
}

func (c *client) GetRace(key string) (*Race, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("race name is required")
	}

	response, err := c.client.GetRace(key)
	if err != nil {
		return nil, lookupError(err, "race", key)
	}
	return apiRaceToRace(response), nil
}

func (c *client) GetClass(key string) (*Class, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("class name is required")
	}

	response, err := c.client.GetClass(key)
	if err != nil {
		return nil, lookupError(err, "class", key)
	}
	return apiClassToClass(response), nil
}

// The upstream client reports a missing index as a plain error mentioning the
// status, so the message is the only signal available.
func lookupError(err error, kind, key string) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "404") || strings.Contains(msg, "not found") {
		return dnderr.WrapWithCode(err, dnderr.CodeNotFound, "no "+kind+" named "+key).
			WithMeta("key", key)
	}
	return dnderr.WrapWithCode(err, dnderr.CodeUnavailable, "failed to look up "+kind).
		WithMeta("key", key)
}

type rewriteTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.Host = t.base.Host
	return t.next.RoundTrip(out)
}
