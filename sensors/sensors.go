// Package sensors turns a board snapshot into the fixed-length feature vector
// fed to the Q network.
package sensors

import (
	"snake-ai/game/types"
)

// Size is the length of the vector returned by State:
// 24 (rays) + 2 (food) + 2 (tail) + 3 (danger) + 3 (flood fill).
const Size = 34

// rays are the eight ray-casting directions, clockwise from north.
var rays = [8]types.Point{
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
}

// State builds the feature vector for a snake with the given head and tail,
// heading in dir, with food at food. It has no side effects on board.
func State(board types.Board, head, tail, food, dir types.Point) []float64 {
	grid := types.Grid{Rows: board.Rows(), Cols: board.Cols()}
	state := make([]float64, 0, Size)

	// 1. Raggi nelle 8 direzioni: muro, primo cibo, primo segmento
	for _, d := range rays {
		wall, foodDist, body := castRay(board, grid, head, food, d)
		state = append(state, wall, foodDist, body)
	}

	// 2. Vettore relativo al cibo
	fwd, side := project(grid, head, food, dir)
	state = append(state, fwd, side)

	// 3. Vettore relativo alla coda
	fwd, side = project(grid, head, tail, dir)
	state = append(state, fwd, side)

	// 4. Pericolo immediato: dritto, sinistra, destra
	moves := [3]types.Point{dir, types.LeftOf(dir), types.RightOf(dir)}
	for _, m := range moves {
		if isDanger(board, head.Add(m), tail) {
			state = append(state, 1)
		} else {
			state = append(state, 0)
		}
	}

	// 5. Spazio accessibile per ogni mossa
	for _, m := range moves {
		state = append(state, accessibility(board, grid, head.Add(m), tail))
	}

	return state
}

// castRay walks from head along d until it leaves the board. The wall term is
// always set; the food and body terms are 0 when nothing is met first.
func castRay(board types.Board, grid types.Grid, head, food, d types.Point) (wall, foodDist, body float64) {
	p := head
	foundFood, foundBody := false, false
	for distance := 1.0; ; distance++ {
		p = p.Add(d)
		if !grid.Contains(p) {
			return 1 / distance, foodDist, body
		}
		if !foundFood && p == food {
			foodDist = 1 / distance
			foundFood = true
		}
		if !foundBody && board.CellAt(p) == types.Snake {
			body = 1 / distance
			foundBody = true
		}
	}
}

// project expresses target-head, normalised by the board size, in the frame
// of dir: forward along the heading and sideways to it.
func project(grid types.Grid, head, target, dir types.Point) (forward, side float64) {
	dx := float64(target.X-head.X) / float64(grid.Cols)
	dy := float64(target.Y-head.Y) / float64(grid.Rows)
	forward = dx*float64(dir.X) + dy*float64(dir.Y)
	side = dx*float64(dir.Y) - dy*float64(dir.X)
	return forward, side
}

func isDanger(board types.Board, p, tail types.Point) bool {
	return !types.Passable(board, p, tail)
}

// accessibility is the share of the board reachable from start, or 0 when
// stepping onto start would already be fatal.
func accessibility(board types.Board, grid types.Grid, start, tail types.Point) float64 {
	if isDanger(board, start, tail) {
		return 0
	}
	return float64(types.FloodFill(board, start, tail)) / float64(grid.Area())
}
