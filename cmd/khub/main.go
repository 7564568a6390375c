package main

import (
	"log"

	"github.com/MrSnakeDoc/khub/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ khub failed to start: %v", err)
	}
}
