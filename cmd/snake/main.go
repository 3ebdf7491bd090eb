// Command snake is a terminal front-end: a human (or a bot) against a bot,
// with stepping, undo and reset.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neoneye/SwiftSnakeEngine-sub000/config"
	"github.com/neoneye/SwiftSnakeEngine-sub000/dataset"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

type TickMsg time.Time

type model struct {
	env     engine.Stepper
	state   game.State
	tick    time.Duration
	running bool
	status  string
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return nil
}

var keyDirections = map[string]struct {
	id  game.PlayerID
	dir game.Direction
}{
	"up":    {game.Player1, game.Up},
	"down":  {game.Player1, game.Down},
	"left":  {game.Player1, game.Left},
	"right": {game.Player1, game.Right},
	"w":     {game.Player2, game.Up},
	"s":     {game.Player2, game.Down},
	"a":     {game.Player2, game.Left},
	"d":     {game.Player2, game.Right},
}

// intent turns an absolute direction into the relative movement of id.
func (m model) intent(id game.PlayerID, dir game.Direction) (game.Movement, bool) {
	p := m.state.Player(id)
	if !p.Active() || !p.IsHuman() {
		return game.MoveNone, false
	}
	dx, dy := dir.Delta()
	head := p.Body().HeadPosition()
	mv, ok := p.Body().MoveToward(game.Position{X: head.X + dx, Y: head.Y + dy})
	return mv, ok && mv != game.MoveNone
}

func (m model) step(intents map[game.PlayerID]game.Movement) model {
	before := m.state.Step()
	m.state = m.env.Step(intents)
	if m.state.Step() == before && !m.state.IsOver() {
		m.status = "waiting for the other player"
	} else {
		m.status = ""
	}
	if m.state.IsOver() {
		m.running = false
		m.status = "game over: r resets, u undoes"
	}
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if k, ok := keyDirections[key]; ok {
			mv, ok := m.intent(k.id, k.dir)
			if !ok {
				return m, nil
			}
			return m.step(map[game.PlayerID]game.Movement{k.id: mv}), nil
		}
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			return m.step(nil), nil
		case "p":
			m.running = !m.running && !m.state.IsOver()
			if m.running {
				return m, tickCmd(m.tick)
			}
		case "u":
			if s, ok := m.env.Undo(); ok {
				m.state, m.status = s, fmt.Sprintf("undone to step %d", s.Step())
			} else {
				m.status = "nothing to undo"
			}
		case "r":
			m.state, m.running, m.status = m.env.Reset(), false, "reset"
		}
	case TickMsg:
		if !m.running {
			return m, nil
		}
		m = m.step(nil)
		if m.running {
			return m, tickCmd(m.tick)
		}
	}
	return m, nil
}

func (m model) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Level %s   step %d   history %d\n\n", m.state.Level().Name(), m.state.Step(), m.env.History())
	sb.WriteString(m.state.Board())
	sb.WriteByte('\n')
	for _, id := range []game.PlayerID{game.Player1, game.Player2} {
		p := m.state.Player(id)
		if !p.Installed() {
			continue
		}
		state := "alive"
		if !p.Alive() {
			state = "dead (" + p.LastCause().String() + ")"
		}
		fmt.Fprintf(&sb, "%v %-16s length %-3d %s\n", id, p.Role(), p.Length(), state)
	}
	if m.status != "" {
		fmt.Fprintf(&sb, "\n%s\n", m.status)
	}
	sb.WriteString("\narrows: player 1   wasd: player 2   space: step   p: play/pause   u: undo   r: reset   q: quit\n")
	return sb.String()
}

func main() {
	cfg, err := config.Load("snake", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Logs would tear the TUI; they go to a file instead.
	f, err := os.OpenFile("snake.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()
	log.SetOutput(f)
	logger, err := cfg.Logger(f)
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
	var env engine.Stepper
	env, err = engine.NewEnvironment(level, seats, cfg.Seed, engine.Options{Logger: logger})
	if err != nil {
		log.Fatalf("environment: %v", err)
	}
	var w *dataset.Writer
	if cfg.Record {
		if w, err = dataset.NewWriter(cfg.DatasetDir, cfg.FlushGames, logger); err != nil {
			log.Fatalf("dataset writer: %v", err)
		}
		env = engine.NewRecorded(env, w.NewRecorder(), logger)
	}

	m := model{env: env, state: env.Reset(), tick: cfg.Tick}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
	if w != nil {
		if err := w.Close(); err != nil {
			log.Fatalf("flush dataset: %v", err)
		}
	}
}
