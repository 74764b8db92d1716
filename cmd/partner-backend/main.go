package main

import (
	"flag"
	"log"

	"github.com/futig/partner-backend/internal/builder"
)

func main() {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	app, err := builder.Build(*envFlag)
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal("Application error:", err)
	}
}
