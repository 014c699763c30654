package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gamespace/internal/games"
	"gamespace/internal/shared/config"
	"gamespace/internal/shared/database"
	"gamespace/pkg/cache"

	"github.com/joho/godotenv"
)

type Seeder struct {
	repo    games.Repository
	service games.Service
}

func main() {
	clean := flag.Bool("clean", false, "delete the existing inventory first")
	file := flag.String("file", "", "JSON file with a list of games (defaults to the starter inventory)")
	flag.Parse()

	fmt.Println("🌱 Starting GameSpace inventory seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.Database.Enabled {
		log.Fatal("DB_ENABLED is false; nothing to seed")
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// the cached inventory must go too, or the site keeps the old list
	cacheService := cache.NewMemoryService()
	if db.Redis != nil {
		cacheService = cache.NewService(db.Redis)
	}

	repo := games.NewRepository(db.PostgreSQL)
	seeder := &Seeder{repo: repo, service: games.NewService(repo, cacheService)}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *clean {
		fmt.Println("\n🧹 Cleaning inventory...")
		if err := seeder.repo.DeleteAll(ctx); err != nil {
			log.Fatalf("Failed to clean inventory: %v", err)
		}
	}

	inventory := games.Starter()
	if *file != "" {
		if inventory, err = loadFile(*file); err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
	}

	fmt.Printf("\n🎲 Seeding %d games...\n", len(inventory))
	if err := seeder.Seed(ctx, inventory); err != nil {
		log.Fatalf("Failed to seed games: %v", err)
	}

	n, err := seeder.repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count games: %v", err)
	}
	fmt.Printf("✅ Inventory holds %d games\n", n)
}

// Seed imports inventory, skipping nameless entries
func (s *Seeder) Seed(ctx context.Context, inventory []games.Game) error {
	valid := make([]games.Game, 0, len(inventory))
	for _, g := range inventory {
		if g.Game == "" {
			fmt.Println("  ⚠️  skipping a game without a title")
			continue
		}
		fmt.Printf("  + %s\n", g.Game)
		valid = append(valid, g)
	}
	return s.service.Import(ctx, valid)
}

func loadFile(path string) ([]games.Game, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inventory []games.Game
	if err := json.Unmarshal(raw, &inventory); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	return inventory, nil
}
