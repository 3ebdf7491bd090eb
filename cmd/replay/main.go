// Command replay plays a recorded game back on the terminal.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/neoneye/SwiftSnakeEngine-sub000/config"
	"github.com/neoneye/SwiftSnakeEngine-sub000/dataset"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

func main() {
	cfg, err := config.Load("replay", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	gameID := cfg.GameID
	if gameID == "" {
		games, err := dataset.LoadGames(cfg.DatasetDir)
		if err != nil {
			log.Fatalf("list games: %v", err)
		}
		if len(games) == 0 {
			log.Fatalf("no games recorded in %s", cfg.DatasetDir)
		}
		gameID = games[len(games)-1].GameID
	}

	rec, err := dataset.LoadRecording(cfg.DatasetDir, gameID)
	if err != nil {
		log.Fatalf("load %s: %v", gameID, err)
	}
	level, err := cfg.Levels(logger).Get(rec.LevelID)
	if err != nil {
		log.Fatalf("level: %v", err)
	}
	env, err := engine.NewReplayEnvironment(level, rec, logger)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}

	log.Printf("Replaying %s on %s (%d steps)", rec.GameID, rec.LevelID, rec.Steps())
	s := env.Reset()
	show(s)
	for !env.Done() {
		time.Sleep(cfg.Tick)
		s = env.Step(nil)
		show(s)
	}
	for _, id := range []game.PlayerID{game.Player1, game.Player2} {
		if p := s.Player(id); p.Installed() {
			fmt.Printf("%v (%s): length %d, alive %v, cause %s\n", id, p.Role(), p.Length(), p.Alive(), p.LastCause())
		}
	}
}

func show(s game.State) {
	// Clear the screen and home the cursor.
	fmt.Print("\x1b[H\x1b[2J")
	fmt.Printf("step %d\n%s", s.Step(), s.Board())
}
