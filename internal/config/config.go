package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the bot.
type Config struct {
	Discord   DiscordConfig
	Redis     RedisConfig
	Narration NarrationConfig
	LLM       LLMConfig
	DND5E     DND5EConfig
	Health    HealthConfig
	RateLimit RateLimitConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	GuildID string `env:"DISCORD_GUILD_ID"`
	Prefix  string `env:"COMMAND_PREFIX" envDefault:"!"`
}

// RedisConfig selects the document store. An empty URL keeps everything in memory.
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// NarrationConfig points at the SQLite file that holds per-channel story state.
// ":memory:" keeps it in a process-local database.
type NarrationConfig struct {
	DBPath string `env:"NARRATION_DB" envDefault:"data/narration.db"`
}

// LLMConfig configures the OpenAI-compatible chat endpoint. The defaults target
// Gemini's compatibility layer.
type LLMConfig struct {
	APIKey        string  `env:"GEMINI_API_KEY"`
	BaseURL       string  `env:"LLM_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	Model         string  `env:"LLM_MODEL" envDefault:"gemini-1.5-pro"`
	FallbackModel string  `env:"LLM_FALLBACK_MODEL" envDefault:"gemini-pro"`
	Temperature   float32 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	TopP          float32 `env:"LLM_TOP_P" envDefault:"0.95"`
	MaxTokens     int     `env:"LLM_MAX_TOKENS" envDefault:"2048"`
}

// DND5EConfig holds D&D 5e API configuration
type DND5EConfig struct {
	BaseURL string        `env:"DND5E_API_URL" envDefault:"https://www.dnd5eapi.co/api"`
	Timeout time.Duration `env:"DND5E_TIMEOUT" envDefault:"30s"`
}

// HealthConfig configures the liveness/readiness listener. "off" disables it.
type HealthConfig struct {
	Addr string `env:"HEALTH_ADDR" envDefault:":8080"`
}

// RateLimitConfig bounds how often a user may call the LLM-backed commands.
type RateLimitConfig struct {
	MaxRequests int           `env:"RATE_LIMIT_MAX" envDefault:"5"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"30s"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from the given variables instead of the process
// environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Discord.Prefix == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit must allow at least one request per window")
	}
	return nil
}

// HealthEnabled reports whether the health listener should start.
func (c *Config) HealthEnabled() bool {
	return c.Health.Addr != "" && !strings.EqualFold(c.Health.Addr, "off")
}

// MaskedToken returns the token with its middle hidden, for startup logs.
func (c *Config) MaskedToken() string {
	t := c.Discord.Token
	if len(t) <= 12 {
		return "****"
	}
	return t[:8] + "..." + t[len(t)-4:]
}
