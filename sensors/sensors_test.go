package sensors

import (
	"math"
	"testing"

	"snake-ai/game"
	"snake-ai/game/types"

	"golang.org/x/exp/rand"
)

const (
	rayN = 0
	rayE = 2

	idxFood   = 24
	idxTail   = 26
	idxDanger = 28
	idxFlood  = 31
)

func place(t *testing.T, body []types.Point, food types.Point) *game.Game {
	t.Helper()
	g := game.New(5, 5, rand.New(rand.NewSource(7)))
	if err := g.Place(body, food); err != nil {
		t.Fatalf("Place: %v", err)
	}
	return g
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("%s=%v want=%v", name, got, want)
	}
}

func TestState_OpenBoard(t *testing.T) {
	g := place(t, []types.Point{{X: 2, Y: 2}}, types.Point{X: 4, Y: 2})
	food, _ := g.FoodPos()
	s := State(g, g.Head(), g.Tail(), food, types.Right)

	if len(s) != Size {
		t.Fatalf("len=%d want=%d", len(s), Size)
	}

	approx(t, "N wall", s[3*rayN], 1.0/3)
	approx(t, "N food", s[3*rayN+1], 0)
	approx(t, "N body", s[3*rayN+2], 0)
	approx(t, "E wall", s[3*rayE], 1.0/3)
	approx(t, "E food", s[3*rayE+1], 0.5)

	approx(t, "food forward", s[idxFood], 0.4)
	approx(t, "food side", s[idxFood+1], 0)
	approx(t, "tail forward", s[idxTail], 0)
	approx(t, "tail side", s[idxTail+1], 0)

	for i := 0; i < 3; i++ {
		approx(t, "danger", s[idxDanger+i], 0)
		approx(t, "flood", s[idxFlood+i], 1)
	}
}

func TestState_SideProjection(t *testing.T) {
	// Heading up with food to the east.
	g := place(t, []types.Point{{X: 2, Y: 2}}, types.Point{X: 4, Y: 2})
	food, _ := g.FoodPos()
	s := State(g, g.Head(), g.Tail(), food, types.Up)

	approx(t, "food forward", s[idxFood], 0)
	approx(t, "food side", s[idxFood+1], -0.4)
}

func TestState_BodyDanger(t *testing.T) {
	body := []types.Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}}
	g := place(t, body, types.Point{X: 0, Y: 0})
	food, _ := g.FoodPos()
	s := State(g, g.Head(), g.Tail(), food, types.Up)

	approx(t, "E body", s[3*rayE+2], 1)
	approx(t, "E wall", s[3*rayE], 1.0/3)

	approx(t, "danger straight", s[idxDanger], 0)
	approx(t, "danger left", s[idxDanger+1], 0)
	approx(t, "danger right", s[idxDanger+2], 1)
	approx(t, "flood right", s[idxFlood+2], 0)
}

func TestState_TailIsNotDanger(t *testing.T) {
	body := []types.Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}}
	g := place(t, body, types.Point{X: 0, Y: 0})
	food, _ := g.FoodPos()
	s := State(g, g.Head(), g.Tail(), food, types.Up)

	approx(t, "danger right", s[idxDanger+2], 0)
	// Everything except the three non-tail segments is reachable.
	approx(t, "flood right", s[idxFlood+2], 22.0/25)
	// The tail still shows up on the ray.
	approx(t, "E body", s[3*rayE+2], 1)
}

func TestState_WallDanger(t *testing.T) {
	g := place(t, []types.Point{{X: 0, Y: 0}}, types.Point{X: 4, Y: 4})
	food, _ := g.FoodPos()
	s := State(g, g.Head(), g.Tail(), food, types.Up)

	approx(t, "N wall", s[3*rayN], 1)
	approx(t, "danger straight", s[idxDanger], 1)
	approx(t, "danger left", s[idxDanger+1], 1)
	approx(t, "danger right", s[idxDanger+2], 0)
	approx(t, "flood straight", s[idxFlood], 0)
	approx(t, "flood right", s[idxFlood+2], 1)
}

func TestState_FloodMatchesBoardFloodFill(t *testing.T) {
	body := []types.Point{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}, {X: 3, Y: 1}}
	g := place(t, body, types.Point{X: 0, Y: 0})
	food, _ := g.FoodPos()
	dir := types.Up
	s := State(g, g.Head(), g.Tail(), food, dir)

	moves := []types.Point{dir, types.LeftOf(dir), types.RightOf(dir)}
	for i, m := range moves {
		want := 0.0
		if s[idxDanger+i] == 0 {
			want = float64(types.FloodFill(g, g.Head().Add(m), g.Tail())) / 25
		}
		approx(t, "flood", s[idxFlood+i], want)
	}
	// Four non-tail segments block, the tail at (3,1) does not.
	approx(t, "flood straight", s[idxFlood], 21.0/25)
}
