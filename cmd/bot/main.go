package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/clients/dnd5e"
	"github.com/KirkDiggler/emo-bot-discord/internal/clients/llm"
	"github.com/KirkDiggler/emo-bot-discord/internal/config"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/core"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/middleware"
	"github.com/KirkDiggler/emo-bot-discord/internal/discord/v2/routers"
	"github.com/KirkDiggler/emo-bot-discord/internal/health"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/conversations"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/selections"
	"github.com/KirkDiggler/emo-bot-discord/internal/services"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Bot Token: %s", cfg.MaskedToken())

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	dndClient, err := dnd5e.New(&dnd5e.Config{
		HttpClient: &http.Client{Timeout: cfg.DND5E.Timeout},
		BaseURL:    cfg.DND5E.BaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to create D&D 5e client: %v", err)
	}

	llmClient := llm.NewDisabled()
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(&llm.Config{
			APIKey:        cfg.LLM.APIKey,
			BaseURL:       cfg.LLM.BaseURL,
			Model:         cfg.LLM.Model,
			FallbackModel: cfg.LLM.FallbackModel,
			Temperature:   cfg.LLM.Temperature,
			TopP:          cfg.LLM.TopP,
			MaxTokens:     cfg.LLM.MaxTokens,
		})
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
	} else {
		log.Println("No GEMINI_API_KEY found, Emo will not answer questions or narrate")
	}

	providerConfig := &services.ProviderConfig{
		DNDClient: dndClient,
		LLMClient: llmClient,
	}
	rateLimit := &routers.RateLimit{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}

	// Keep Redis client for cleanup
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient = connectRedis(cfg.Redis.URL)
	} else {
		log.Println("No REDIS_URL found, using in-memory repositories")
	}
	if redisClient != nil {
		providerConfig.GameRepository = games.NewRedis(redisClient)
		providerConfig.SelectionsRepository = selections.NewRedis(redisClient)
		providerConfig.ConversationRepository = conversations.NewRedis(redisClient)
		rateLimit.Store = middleware.NewRedisRateLimitStore(redisClient)
		log.Println("Using Redis for persistence")
	}

	var narrationStore *narration.SQLiteRepository
	if path := cfg.Narration.DBPath; path != "" {
		narrationStore, err = openNarrationStore(path)
		if err != nil {
			log.Fatalf("Failed to open narration store: %v", err)
		}
		providerConfig.NarrationRepository = narrationStore
		log.Printf("Narration state stored in %s", path)
	}

	serviceProvider := services.NewProvider(providerConfig)

	pipeline := core.NewPipeline()
	pipeline.SetPrefix(cfg.Discord.Prefix)
	pipeline.Use(
		middleware.RecoveryMiddleware(),
		middleware.ErrorMiddleware(middleware.DefaultErrorConfig()),
		middleware.LoggingMiddleware(middleware.DefaultLogConfig()),
	)
	if err := routers.RegisterAll(pipeline, &routers.Config{
		Provider:  serviceProvider,
		RateLimit: rateLimit,
	}); err != nil {
		log.Fatalf("Failed to register routers: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		pipeline.SetBotID(r.User.ID)
		log.Printf("[Discord] Logged in as %s", r.User.String())
	})
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if err := pipeline.ExecuteMessage(ctx, s, m.Message); err != nil {
			log.Printf("[Discord] Message %s failed: %v", m.ID, err)
		}
	})
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if err := pipeline.ExecuteInteraction(ctx, s, i.Interaction); err != nil {
			log.Printf("[Discord] Interaction %s failed: %v", i.ID, err)
		}
	})

	var probes *health.Server
	if cfg.HealthEnabled() {
		checks := map[string]health.Checker{}
		if redisClient != nil {
			checks["redis"] = health.RedisCheck(redisClient)
		}
		probes, err = health.New(&health.Config{Addr: cfg.Health.Addr, Checks: checks})
		if err != nil {
			log.Fatalf("Failed to create health server: %v", err)
		}
		probes.Start()
	}

	if err := dg.Open(); err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	<-ctx.Done()
	fmt.Println("Shutting down...")

	if err := dg.Close(); err != nil {
		log.Printf("Failed to close Discord connection: %v", err)
	}
	if probes != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := probes.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to stop health server: %v", err)
		}
		cancel()
	}
	if narrationStore != nil {
		if err := narrationStore.Close(); err != nil {
			log.Printf("Error closing narration store: %v", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}

// connectRedis returns a live client, or nil to fall back to memory.
func connectRedis(url string) *redis.Client {
	log.Printf("Connecting to Redis at: %s", url)

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v", err)
		log.Println("Falling back to in-memory repositories")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory repositories")
		_ = client.Close()
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}

func openNarrationStore(path string) (*narration.SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
	}
	return narration.NewSQLite(path)
}
