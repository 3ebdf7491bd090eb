// Command spectate plays bot games back to back and streams them to
// websocket viewers.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neoneye/SwiftSnakeEngine-sub000/config"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/spectate"
)

func main() {
	cfg, err := config.Load("spectate", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Player1 == config.SeatHuman || cfg.Player2 == config.SeatHuman {
		log.Fatalf("spectate needs bot or empty seats, got %s vs %s", cfg.Player1, cfg.Player2)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	level, err := cfg.Levels(logger).Get(cfg.Level)
	if err != nil {
		log.Fatalf("level: %v", err)
	}
	seats, err := cfg.Seats(cfg.Seed)
	if err != nil {
		log.Fatalf("seats: %v", err)
	}
	env, err := engine.NewEnvironment(level, seats, cfg.Seed, engine.Options{Logger: logger})
	if err != nil {
		log.Fatalf("environment: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := spectate.NewHub(logger)
	srv := &http.Server{Addr: cfg.Addr, Handler: hub.Router(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("Spectator server on %s (GET /ws, GET /state)", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
			stop()
		}
	}()

	loop := spectate.Loop{
		Stepper:  env,
		Hub:      hub,
		Interval: cfg.Tick,
		Pause:    2 * time.Second,
		MaxSteps: cfg.MaxSteps,
		Log:      logger,
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("loop: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
