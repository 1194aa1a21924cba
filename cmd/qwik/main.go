package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/qwiksocial/backend/internal/app"
)

func main() {
	// Missing .env files are fine; deployments configure the environment
	// directly.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
