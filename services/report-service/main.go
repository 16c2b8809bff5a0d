package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"animal-safety-hub/pkg/middleware"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := mustConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	app, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("[ERROR] Failed to start report service: %v", err)
	}
	defer app.close()

	middleware.RegisterMetrics()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("[INFO] Report Service running on port :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}
