// Command selfplay plays bot-vs-bot games in parallel and writes them to
// parquet batches.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neoneye/SwiftSnakeEngine-sub000/config"
	"github.com/neoneye/SwiftSnakeEngine-sub000/dataset"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

func main() {
	cfg, err := config.Load("selfplay", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Player1 == config.SeatHuman || cfg.Player2 == config.SeatHuman {
		log.Fatalf("selfplay needs bot or empty seats, got %s vs %s", cfg.Player1, cfg.Player2)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	level, err := cfg.Levels(logger).Get(cfg.Level)
	if err != nil {
		log.Fatalf("level: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := dataset.NewWriter(cfg.DatasetDir, cfg.FlushGames, logger)
	if err != nil {
		log.Fatalf("dataset writer: %v", err)
	}

	log.Printf("Starting self-play")
	log.Printf("  Level: %s", level.ID())
	log.Printf("  Seats: %s vs %s", cfg.Player1, cfg.Player2)
	log.Printf("  Games: %d on %d workers", cfg.Games, cfg.Workers)
	log.Printf("  Dataset Dir: %s (flush every %d games)", cfg.DatasetDir, cfg.FlushGames)

	var next atomic.Int64
	var steps atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for worker := range max(cfg.Workers, 1) {
		g.Go(func() error {
			rec := w.NewRecorder()
			for ctx.Err() == nil {
				n := next.Add(1)
				if cfg.Games > 0 && n > int64(cfg.Games) {
					return nil
				}
				seed := rules.Mix(cfg.Seed, uint64(n))
				seats, err := cfg.Seats(seed)
				if err != nil {
					return err
				}
				env, err := engine.NewEnvironment(level, seats, seed, engine.Options{Logger: logger})
				if err != nil {
					return err
				}
				r := engine.NewRecorded(env, rec, logger)
				final, err := engine.RunToEnd(ctx, r, cfg.MaxSteps, nil)
				if err != nil {
					// Interrupted mid game; the partial game is not written.
					return nil
				}
				r.Finish()
				if err := r.Err(); err != nil {
					return fmt.Errorf("worker %d game %d: %w", worker, n, err)
				}
				steps.Add(int64(final.Step()))
				log.Printf("Worker %d: game %d, steps %d, p1 %s len %d, p2 %s len %d", worker, n, final.Step(),
					final.Player1().LastCause(), final.Player1().Length(),
					final.Player2().LastCause(), final.Player2().Length())
			}
			return nil
		})
	}
	runErr := g.Wait()

	if err := w.Close(); err != nil {
		log.Fatalf("flush dataset: %v", err)
	}
	if runErr != nil {
		log.Fatalf("self-play: %v", runErr)
	}
	elapsed := time.Since(start)
	log.Printf("Done: %d games, %d steps in %s (%.1f steps/s)", w.Games(), steps.Load(),
		elapsed.Round(time.Millisecond), float64(steps.Load())/max(elapsed.Seconds(), 1e-9))
}
