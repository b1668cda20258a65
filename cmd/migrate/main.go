package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/expedition-planner/internal/pkg/config"
)

var migrations = []string{
	"migrations/001_itineraries",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("expedition-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		run(ctx, pool, migrations, ".sql")
	case "down":
		down := slices.Clone(migrations)
		slices.Reverse(down)
		run(ctx, pool, down, ".down.sql")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// run applies each file in its own transaction and stops at the first failure.
func run(ctx context.Context, pool *pgxpool.Pool, names []string, suffix string) {
	for _, name := range names {
		f := name + suffix
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			_, err := tx.Exec(ctx, string(data))
			return err
		})
		if err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}
