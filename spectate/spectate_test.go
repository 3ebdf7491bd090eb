package spectate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neoneye/SwiftSnakeEngine-sub000/bot"
	"github.com/neoneye/SwiftSnakeEngine-sub000/engine"
	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

func duel(t *testing.T) *engine.Environment {
	t.Helper()
	l, err := game.NewLevelBuilder("duel", 12, 10).
		SetWallBorder().
		SetInitialBody(game.Player1, game.NewBody(game.Position{X: 3, Y: 3}, game.Up, 3)).
		SetInitialBody(game.Player2, game.NewBody(game.Position{X: 8, Y: 6}, game.Down, 3)).
		Build()
	if err != nil {
		t.Fatalf("build level: %v", err)
	}
	seats := [2]engine.Seat{
		engine.BotSeat(bot.StrategyGreedy, func() game.Planner { return bot.Greedy{} }),
		engine.BotSeat(bot.StrategyTreeSearch, func() game.Planner { return bot.NewTreeSearch(bot.DefaultTreeSearchConfig()) }),
	}
	e, err := engine.NewEnvironment(l, seats, 5, engine.Options{})
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	return e
}

func dial(t *testing.T, srv *httptest.Server, h *Hub) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("viewer never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("unmarshal %s: %v", msg, err)
	}
	return ev
}

func TestHub_StateAndBroadcast(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d before any game", resp.StatusCode)
	}

	conn := dial(t, srv, h)
	defer conn.Close()

	s := duel(t).Reset()
	h.Publish(Event{Type: "frame", Data: NewSnapshot("g1", s)})
	ev := readEvent(t, conn)
	if ev.Type != "frame" || ev.Data.GameID != "g1" || len(ev.Data.Snakes) != 2 {
		t.Fatalf("event=%+v", ev)
	}
	if got := ev.Data.Snakes[0].Body[0]; got != (Point{X: 3, Y: 3}) {
		t.Fatalf("player1 head=%v want=(3,3)", got)
	}
	if len(ev.Data.Walls) != 2*12+2*8 {
		t.Fatalf("walls=%d want=%d", len(ev.Data.Walls), 2*12+2*8)
	}

	resp, err = http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	defer resp.Body.Close()
	var snap Event
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil || snap.Data.GameID != "g1" {
		t.Fatalf("state=%+v err=%v", snap, err)
	}
}

func TestLoop_PublishesWholeGame(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(h.Router())
	defer srv.Close()
	conn := dial(t, srv, h)
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	env := duel(t)
	done := make(chan error, 1)
	go func() {
		done <- Loop{Stepper: env, Hub: h, Interval: time.Millisecond, Pause: time.Hour, MaxSteps: 6}.Run(ctx)
	}()

	var steps []uint32
	var gameID string
	for {
		ev := readEvent(t, conn)
		if gameID == "" {
			gameID = ev.Data.GameID
		}
		if ev.Data.GameID != gameID {
			t.Fatalf("game id changed mid game: %s -> %s", gameID, ev.Data.GameID)
		}
		if ev.Type == "game_end" {
			break
		}
		steps = append(steps, ev.Data.Step)
	}
	for i, s := range steps {
		if int(s) != i {
			t.Fatalf("frames=%v want consecutive steps from 0", steps)
		}
	}
	if len(steps) < 2 {
		t.Fatalf("frames=%v want several", steps)
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("Run returned %v", err)
	}
}
