package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/taskhub/taskhub-backend/migrations"
	"github.com/taskhub/taskhub-backend/pkg/config"
	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load("migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("migrate", cfg.Server.Environment)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()

	switch command {
	case "up":
		err = migrations.Up(ctx, db.DB.DB)
	case "down":
		err = migrations.Down(ctx, db.DB.DB)
	case "status":
		err = migrations.Status(ctx, db.DB.DB)
	default:
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status]\n")
		os.Exit(1)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}

	log.Info().Str("command", command).Msg("migration complete")
}
