package game

import (
	"testing"

	"snake-ai/game/types"
)

func TestFindBestMoveBFS_StraightToFood(t *testing.T) {
	g := newTestGame(t, 5, 5, []types.Point{{X: 2, Y: 2}}, types.Point{X: 4, Y: 2})

	if got := g.FindBestMoveBFS(); got != types.Right {
		t.Fatalf("move=%v want=%v\n%s", got, types.Right, dumpBoard(g))
	}
}

func TestFindBestMoveBFS_FirstStepOfShortestPath(t *testing.T) {
	g := newTestGame(t, 5, 5, []types.Point{{X: 2, Y: 2}}, types.Point{X: 2, Y: 0})

	if got := g.FindBestMoveBFS(); got != types.Up {
		t.Fatalf("move=%v want=%v\n%s", got, types.Up, dumpBoard(g))
	}
}

func TestFindBestMoveBFS_TrapRejected(t *testing.T) {
	// The tail is boxed in by the body, so after eating there is no way back to it.
	body := []types.Point{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}}
	g := newTestGame(t, 5, 5, body, types.Point{X: 4, Y: 0})

	if got := g.FindBestMoveBFS(); got != types.None {
		t.Fatalf("move=%v want=None\n%s", got, dumpBoard(g))
	}
}

func TestFindBestMoveBFS_NoFood(t *testing.T) {
	g := newTestGame(t, 5, 5, []types.Point{{X: 2, Y: 2}}, types.Point{X: -1, Y: -1})

	if got := g.FindBestMoveBFS(); got != types.None {
		t.Fatalf("move=%v want=None", got)
	}
}

func TestFindBestMoveBFS_Unreachable(t *testing.T) {
	// Column 1 is all body, so the head on the right cannot reach the food on the left.
	body := []types.Point{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	g := newTestGame(t, 3, 3, body, types.Point{X: 0, Y: 1})

	if got := g.FindBestMoveBFS(); got != types.None {
		t.Fatalf("move=%v want=None\n%s", got, dumpBoard(g))
	}
}

func TestIsPathAvailable(t *testing.T) {
	g := newTestGame(t, 5, 5, []types.Point{{X: 2, Y: 2}}, types.Point{X: 4, Y: 4})

	p := types.Point{X: 3, Y: 3}
	if !g.IsPathAvailable(p, p) {
		t.Fatal("a cell must reach itself")
	}
	if !g.IsPathAvailable(types.Point{X: 0, Y: 0}, types.Point{X: 4, Y: 4}) {
		t.Fatal("corners of an open board must be connected")
	}
	if g.IsPathAvailable(types.Point{X: 0, Y: 0}, types.Point{X: 5, Y: 5}) {
		t.Fatal("an off-board target is never reachable")
	}
}

func TestFloodFill(t *testing.T) {
	g := newTestGame(t, 5, 5, []types.Point{{X: 2, Y: 2}}, types.Point{X: 4, Y: 4})
	if got := types.FloodFill(g, types.Point{X: 0, Y: 0}, g.Tail()); got != 25 {
		t.Fatalf("open board fill=%d want=25", got)
	}

	body := []types.Point{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	g = newTestGame(t, 3, 3, body, types.Point{X: 0, Y: 1})
	if got := types.FloodFill(g, types.Point{X: 0, Y: 0}, g.Tail()); got != 3 {
		t.Fatalf("left column fill=%d want=3\n%s", got, dumpBoard(g))
	}
}

func TestFloodFill_TailIsPassable(t *testing.T) {
	// The tail at (2,2) is the only way out of the right column's bottom cell.
	body := []types.Point{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	g := newTestGame(t, 3, 3, body, types.Point{X: 0, Y: 1})

	// (2,1) -> (2,2) tail; (2,0) is the head and blocks.
	if got := types.FloodFill(g, types.Point{X: 2, Y: 1}, g.Tail()); got != 2 {
		t.Fatalf("fill=%d want=2\n%s", got, dumpBoard(g))
	}
	if got := types.FloodFill(g, types.Point{X: 2, Y: 1}, types.Point{X: -1, Y: -1}); got != 1 {
		t.Fatalf("fill without a passable tail=%d want=1\n%s", got, dumpBoard(g))
	}
}
