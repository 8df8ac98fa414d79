package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/entities"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games"
	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/narration"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug-game <channel-id> [narration-db]")
		os.Exit(1)
	}

	channelID := os.Args[1]
	ctx := context.Background()

	// Set up Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection first
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}
	defer func() {
		clientErr := client.Close()
		if clientErr != nil {
			log.Printf("Failed to close Redis connection: %v", clientErr)
		}
	}()

	repo := games.NewRedis(client)
	game, err := repo.Get(ctx, channelID)
	if err != nil {
		// IC channels and OOC threads resolve through their link keys
		game, err = repo.GetByLinkedChannel(ctx, channelID)
	}
	if err != nil {
		log.Printf("Failed to get game: %v", err)
		return
	}

	printGame(game)

	if len(os.Args) > 2 {
		printNarration(ctx, os.Args[2], game.ICChannelID)
	}
}

func printGame(game *entities.GameSession) {
	fmt.Printf("Channel: %s\n", game.ChannelID)
	fmt.Printf("Guild: %s\n", game.GuildID)
	fmt.Printf("Creator: %s\n", game.CreatedBy)
	fmt.Printf("State: %s\n", game.State)
	fmt.Printf("Game master: %s (%s, ai=%t)\n", game.GameMaster, game.GameMasterID, game.IsAIGM)
	if game.Campaign != nil {
		fmt.Printf("Campaign: %s (%s)\n", game.Campaign.Name, game.Campaign.Theme)
	}
	if game.ICChannelID != "" {
		fmt.Printf("IC channel: %s\n", game.ICChannelID)
		fmt.Printf("OOC thread: %s\n", game.OOCThreadID)
	}

	fmt.Printf("Players: %d\n", len(game.PlayerIDs))
	for i, id := range game.PlayerIDs {
		name := id
		if i < len(game.Players) {
			name = game.Players[i]
		}
		c, ok := game.Character(id)
		if !ok {
			fmt.Printf("  %s (%s): no character\n", name, id)
			continue
		}
		fmt.Printf("  %s (%s): %s, level %d %s %s, HP %d/%d, XP %d\n",
			name, id, c.Name, c.Level, c.Race, c.Class, c.HP, c.MaxHP, c.Exp)
	}

	fmt.Printf("History: %d entries\n", len(game.History))
}

func printNarration(ctx context.Context, dsn, channelID string) {
	if channelID == "" {
		fmt.Println("Narration: game has not started")
		return
	}
	store, err := narration.NewSQLite(dsn)
	if err != nil {
		log.Printf("Failed to open narration store: %v", err)
		return
	}
	defer store.Close()

	state, err := store.Get(ctx, channelID)
	if err != nil {
		log.Printf("Failed to get narration state: %v", err)
		return
	}
	fmt.Printf("Narration: %d turns, updated %s\n", len(state.Turns), state.UpdatedAt.Format("2006-01-02 15:04"))
	if state.Scene != "" {
		fmt.Printf("Scene: %s\n", state.Scene)
	}
	for name, desc := range state.NPCs {
		fmt.Printf("  NPC %s: %s\n", name, desc)
	}
	for name, roll := range state.PendingRolls {
		fmt.Printf("  %s owes: %s\n", name, roll)
	}
}
