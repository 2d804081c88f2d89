package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"studyboard/internal/db"
	"studyboard/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	apply := flag.Bool("apply", false, "apply migrations")
	flag.Parse()

	names, err := db.Migrations()
	if err != nil {
		logger.Fatal("read migrations", "error", err)
	}
	if !*apply {
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate failed", "error", err)
	}
	applied, err := db.Applied(ctx, pool)
	if err != nil {
		logger.Fatal("read schema_migrations", "error", err)
	}
	fmt.Printf("%d of %d migrations applied\n", len(applied), len(names))
}
