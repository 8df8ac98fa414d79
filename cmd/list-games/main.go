package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/emo-bot-discord/internal/repositories/games"
)

func main() {
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
	defer client.Close()

	// Test connection
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	list, err := games.NewRedis(client).List(ctx)
	if err != nil {
		log.Fatalf("Failed to list games: %v", err)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastUpdated.After(list[j].LastUpdated)
	})

	fmt.Printf("Found %d games:\n", len(list))
	for _, game := range list {
		gm := game.GameMaster
		if game.IsAIGM {
			gm += " (AI)"
		}
		fmt.Printf("  %s [%s] guild=%s players=%d characters=%d gm=%s updated=%s\n",
			game.ChannelID, game.State, game.GuildID, len(game.PlayerIDs), len(game.Characters),
			gm, game.LastUpdated.Format("2006-01-02 15:04"))
	}
}
