package main

import (
	"github.com/joho/godotenv"

	"github.com/grill-labs/aerobot/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cli.Execute()
}
