package main

import (
	"log"

	"trading-reports/app"
	"trading-reports/config"
)

func main() {
	// Load config from .env file; the process environment wins
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal(err)
	}

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}
