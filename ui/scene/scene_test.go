package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-ai/config"
	"snake-ai/game/types"

	"golang.org/x/exp/rand"
)

func newTestScene(t *testing.T) (*GameScene, string) {
	t.Helper()
	cfg := config.Default()
	cfg.GridRows, cfg.GridCols = 5, 5
	cfg.MoveInterval = config.Duration(100 * time.Millisecond)
	path := filepath.Join(t.TempDir(), "model.txt")

	s, err := NewGameScene(cfg, path, rand.New(rand.NewSource(5)), nil)
	if err != nil {
		t.Fatalf("NewGameScene: %v", err)
	}
	return s, path
}

// pointAtWall leaves the snake one step from the right wall with a greedy
// policy that always goes straight.
func pointAtWall(t *testing.T, s *GameScene) {
	t.Helper()
	if err := s.Driver.Game.Place([]types.Point{{X: 4, Y: 2}}, types.Point{X: 0, Y: 0}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	a := s.Driver.Agent
	a.Epsilon = 0
	out := a.Net.Layers[len(a.Net.Layers)-1]
	out.Weights.Zero()
	out.Biases.Zero()
	out.Biases.SetVec(types.Straight, 0.9)
}

func TestStartScene(t *testing.T) {
	s := NewStartScene("High Score: 3")
	tests := []struct {
		in   Input
		want Action
	}{
		{Input{}, None},
		{Input{Enter: true}, StartGame},
		{Input{Escape: true}, Exit},
	}
	for _, tt := range tests {
		if got := s.Update(time.Second, tt.in); got != tt.want {
			t.Errorf("Update(%+v)=%v want=%v", tt.in, got, tt.want)
		}
	}
	if s.Summary() != "High Score: 3" {
		t.Fatalf("summary=%q", s.Summary())
	}
}

func TestGameScene_PlaysWithLowEpsilon(t *testing.T) {
	s, _ := newTestScene(t)
	if s.Driver.Teacher {
		t.Fatal("interactive game must not use the oracle")
	}
	if got, want := s.Driver.Agent.Epsilon, config.Default().PlayEpsilon; got != want {
		t.Fatalf("epsilon=%v want=%v", got, want)
	}
}

func TestGameScene_TicksOnInterval(t *testing.T) {
	s, _ := newTestScene(t)

	s.Update(50*time.Millisecond, Input{})
	if s.Driver.Steps() != 0 {
		t.Fatalf("steps=%d want=0 before the first interval", s.Driver.Steps())
	}
	s.Update(60*time.Millisecond, Input{})
	if s.Driver.Steps() != 1 {
		t.Fatalf("steps=%d want=1", s.Driver.Steps())
	}
}

func TestGameScene_Escape(t *testing.T) {
	s, _ := newTestScene(t)
	if got := s.Update(0, Input{Escape: true}); got != ReturnToMenu {
		t.Fatalf("action=%v want=ReturnToMenu", got)
	}
}

func TestGameScene_GameOverStartsNewAttempt(t *testing.T) {
	s, _ := newTestScene(t)
	pointAtWall(t, s)

	// Several intervals at once: ticking stops at the crash.
	s.Update(time.Second, Input{})
	if !s.Driver.Done() || !s.LastTick.Done || s.LastTick.Alive {
		t.Fatalf("tick=%+v want a crash", s.LastTick)
	}
	if s.Driver.Steps() != 1 {
		t.Fatalf("steps=%d want=1", s.Driver.Steps())
	}
	if s.Attempt != 1 {
		t.Fatalf("attempt=%d want=1 until the next update", s.Attempt)
	}

	s.Update(0, Input{})
	if s.Attempt != 2 || s.HighScore != 1 {
		t.Fatalf("attempt=%d high=%d want 2 and 1", s.Attempt, s.HighScore)
	}
	if s.Stats.GamesPlayed() != 1 {
		t.Fatalf("games=%d want=1", s.Stats.GamesPlayed())
	}
	if s.Driver.Done() || s.Driver.Steps() != 0 {
		t.Fatal("a new episode should have started")
	}
	if s.Summary() != "High Score: 1" {
		t.Fatalf("summary=%q", s.Summary())
	}
}

func TestGameScene_CloseSavesModel(t *testing.T) {
	s, path := newTestScene(t)
	s.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("model not saved: %v", err)
	}
}
