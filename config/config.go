// Package config reads command settings from flags whose defaults come from
// SNAKE_* environment variables, optionally loaded from a .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/neoneye/SwiftSnakeEngine-sub000/bot"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
	"github.com/neoneye/SwiftSnakeEngine-sub000/levels"
	"github.com/neoneye/SwiftSnakeEngine-sub000/logging"
	"github.com/neoneye/SwiftSnakeEngine-sub000/mcts"
	"github.com/neoneye/SwiftSnakeEngine-sub000/rules"
)

type Config struct {
	Level   string
	Player1 string // human, none or a bot strategy
	Player2 string
	Seed    uint64

	DatasetDir string
	FlushGames int
	CacheDir   string
	Record     bool   // interactive games are written to DatasetDir
	GameID     string // game to replay; empty picks the latest

	LogFormat string
	LogLevel  string

	Addr     string
	Tick     time.Duration
	Games    int
	Workers  int
	MaxSteps int

	Tree mcts.Config
}

const (
	SeatHuman = "human"
	SeatNone  = "none"
)

// Load loads .env when present and parses args with fs named name.
func Load(name string, args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	tree := mcts.DefaultConfig()
	var c Config
	fl := flag.NewFlagSet(name, flag.ContinueOnError)
	fl.StringVar(&c.Level, "level", getEnvOrDefault("SNAKE_LEVEL", "duel20x14"), "Level id or name")
	fl.StringVar(&c.Player1, "player1", getEnvOrDefault("SNAKE_PLAYER1", SeatHuman), "Player 1: human, none or a bot strategy")
	fl.StringVar(&c.Player2, "player2", getEnvOrDefault("SNAKE_PLAYER2", bot.StrategyMCTree), "Player 2: human, none or a bot strategy")
	fl.Uint64Var(&c.Seed, "seed", getEnvUint64OrDefault("SNAKE_SEED", 0), "Seed for food and bots (0 picks one from the clock)")
	fl.StringVar(&c.DatasetDir, "dataset-dir", getEnvOrDefault("SNAKE_DATASET_DIR", "data/games"), "Directory for parquet batches")
	fl.IntVar(&c.FlushGames, "flush-games", getEnvIntOrDefault("SNAKE_FLUSH_GAMES", 50), "Games per parquet batch")
	fl.BoolVar(&c.Record, "record", getEnvBoolOrDefault("SNAKE_RECORD", false), "Record interactive games to the dataset directory")
	fl.StringVar(&c.GameID, "game", getEnvOrDefault("SNAKE_GAME_ID", ""), "Recorded game id to replay (default: latest)")
	fl.StringVar(&c.CacheDir, "cache-dir", getEnvOrDefault("SNAKE_CACHE_DIR", ".cache/levels"), "Level distance cache directory (empty disables)")
	fl.StringVar(&c.LogFormat, "log-format", getEnvOrDefault("SNAKE_LOG_FORMAT", "pretty"), "Log format: pretty, json or text")
	fl.StringVar(&c.LogLevel, "log-level", getEnvOrDefault("SNAKE_LOG_LEVEL", "info"), "Log level")
	fl.StringVar(&c.Addr, "addr", getEnvOrDefault("SNAKE_ADDR", ":8080"), "Listen address for the spectator server")
	fl.DurationVar(&c.Tick, "tick", getEnvDurationOrDefault("SNAKE_TICK", 150*time.Millisecond), "Interval between ticks when stepping continuously")
	fl.IntVar(&c.Games, "games", getEnvIntOrDefault("SNAKE_GAMES", 100), "Games to play (0 runs until interrupted)")
	fl.IntVar(&c.Workers, "workers", getEnvIntOrDefault("SNAKE_WORKERS", 4), "Games played in parallel")
	fl.IntVar(&c.MaxSteps, "max-steps", getEnvIntOrDefault("SNAKE_MAX_STEPS", 1000), "Stop a game after this many steps (0 for no limit)")
	fl.IntVar(&tree.MaxDepth, "tree-depth", getEnvIntOrDefault("SNAKE_TREE_DEPTH", tree.MaxDepth), "Tree planner horizon in ticks")
	fl.IntVar(&tree.MaxNodes, "tree-max-nodes", getEnvIntOrDefault("SNAKE_TREE_MAX_NODES", tree.MaxNodes), "Tree planner node budget")
	if err := fl.Parse(args); err != nil {
		return Config{}, err
	}
	c.Tree = tree

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c, nil
}

func (c Config) validate() error {
	for _, seat := range []string{c.Player1, c.Player2} {
		if seat == SeatHuman || seat == SeatNone {
			continue
		}
		if _, err := bot.New(seat, 0); err != nil {
			return err
		}
	}
	if c.Tree.MaxDepth < 1 || c.Tree.MaxNodes < 2 {
		return fmt.Errorf("tree planner needs depth >= 1 and at least 2 nodes, got %d and %d", c.Tree.MaxDepth, c.Tree.MaxNodes)
	}
	return nil
}

func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	return logging.New(c.LogFormat, c.LogLevel, w)
}

// Levels serves the built-in levels, caching distances under CacheDir.
func (c Config) Levels(log *slog.Logger) *levels.Repository {
	var cache *levels.Cache
	if c.CacheDir != "" {
		cache = levels.NewCache(c.CacheDir)
	}
	return levels.NewRepository(levels.Builtin, cache, log)
}

// Seats builds the two seats. Bot planners get a per-player seed derived
// from seed.
func (c Config) Seats(seed uint64) ([2]engine.Seat, error) {
	var seats [2]engine.Seat
	for i, name := range [2]string{c.Player1, c.Player2} {
		switch name {
		case SeatHuman:
			seats[i] = engine.HumanSeat()
		case SeatNone:
			seats[i] = engine.Seat{Role: game.NoneRole()}
		default:
			botSeed := rules.Mix(seed, uint64(i+1))
			if _, err := bot.NewWithTreeConfig(name, botSeed, c.Tree); err != nil {
				return seats, err
			}
			strategy, tree := name, c.Tree
			seats[i] = engine.BotSeat(strategy, func() game.Planner {
				p, _ := bot.NewWithTreeConfig(strategy, botSeed, tree)
				return p
			})
		}
	}
	return seats, nil
}

// Environment variable helpers
func getEnvOrDefault(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		if _, err := fmt.Sscanf(val, "%d", &i); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvUint64OrDefault(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		var u uint64
		if _, err := fmt.Sscanf(val, "%d", &u); err == nil {
			return u
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
