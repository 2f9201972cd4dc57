package main

import (
	"log"

	"jobfinder-backend/internal/server"
	"jobfinder-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	r, err := server.Build(cfg)
	if err != nil {
		log.Fatalf("server build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
