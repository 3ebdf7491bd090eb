package config

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/neoneye/SwiftSnakeEngine-sub000/bot"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

func TestLoad_EnvironmentDefaultsAndFlags(t *testing.T) {
	t.Setenv("SNAKE_LEVEL", "maze16x12")
	t.Setenv("SNAKE_SEED", "42")
	t.Setenv("SNAKE_TICK", "40ms")
	t.Setenv("SNAKE_TREE_DEPTH", "5")

	c, err := Load("test", []string{"-player1", bot.StrategyGreedy, "-games", "3"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Level != "maze16x12" || c.Seed != 42 || c.Tick != 40*time.Millisecond {
		t.Fatalf("config=%+v", c)
	}
	if c.Player1 != bot.StrategyGreedy || c.Games != 3 || c.Tree.MaxDepth != 5 {
		t.Fatalf("flags not applied: %+v", c)
	}
}

func TestLoad_RejectsUnknownStrategy(t *testing.T) {
	_, err := Load("test", []string{"-player2", "telepathy"})
	if !errors.Is(err, bot.ErrUnknownStrategy) {
		t.Fatalf("err=%v want=%v", err, bot.ErrUnknownStrategy)
	}
}

func TestLoad_PicksSeedWhenUnset(t *testing.T) {
	t.Setenv("SNAKE_SEED", "")
	c, err := Load("test", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Seed == 0 {
		t.Fatalf("seed left at zero")
	}
}

func TestConfig_Seats(t *testing.T) {
	c := Config{Player1: SeatHuman, Player2: bot.StrategyMCTree}
	c.Tree.MaxDepth, c.Tree.MaxNodes = 4, 100
	seats, err := c.Seats(9)
	if err != nil {
		t.Fatalf("Seats: %v", err)
	}
	if seats[0].Role.Kind != game.RoleHuman || seats[0].NewPlanner != nil {
		t.Fatalf("seat 1=%+v want human", seats[0])
	}
	if seats[1].Role != game.BotRole(bot.StrategyMCTree) || seats[1].NewPlanner() == nil {
		t.Fatalf("seat 2=%+v want mctree bot", seats[1])
	}

	c.Player1 = SeatNone
	seats, _ = c.Seats(9)
	if seats[0].Role.Kind != game.RoleNone {
		t.Fatalf("seat 1=%+v want none", seats[0])
	}
}

func TestConfig_LevelsAndLogger(t *testing.T) {
	c := Config{CacheDir: t.TempDir(), LogFormat: "text", LogLevel: "debug"}
	log, err := c.Logger(io.Discard)
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	l, err := c.Levels(log).Get("empty10x10")
	if err != nil || l.ID() != "empty10x10" {
		t.Fatalf("level=%v err=%v", l, err)
	}
}
