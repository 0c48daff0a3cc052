package game

import (
	"snake-ai/game/types"
)

// IsPathAvailable reports whether end can be reached from start moving through
// free cells. Snake cells block the search, except the tail which is about to vacate.
func (g *Game) IsPathAvailable(start, end types.Point) bool {
	if start == end {
		return true
	}
	found := false
	g.bfs(start, func(p, _ types.Point) bool {
		if p == end {
			found = true
			return false
		}
		return true
	})
	return found
}

// FindBestMoveBFS returns the first step of the shortest path from the head to
// the food. The move is only proposed when the tail stays reachable from the
// food cell afterwards; otherwise, and when there is no food or no path, it
// returns types.None.
func (g *Game) FindBestMoveBFS() types.Point {
	food, ok := g.FoodPos()
	if !ok {
		return types.None
	}
	head := g.snake.GetHead()

	parent := make(map[types.Point]types.Point, g.grid.Area())
	found := false
	g.bfs(head, func(p, from types.Point) bool {
		if p != head {
			parent[p] = from
		}
		if p == food {
			found = true
			return false
		}
		return true
	})
	if !found {
		return types.None
	}

	// Walk back from the food to the cell right after the head.
	curr := food
	for parent[curr] != head {
		curr = parent[curr]
	}
	firstMove := curr.Sub(head)

	// Anti-trap: once we reach the food, can we still get back to the tail?
	if !g.IsPathAvailable(food, g.snake.GetTail()) {
		return types.None
	}
	return firstMove
}

// bfs runs types.Search from start with the current tail as the only
// passable snake cell.
func (g *Game) bfs(start types.Point, visit func(p, from types.Point) bool) {
	types.Search(g, start, g.snake.GetTail(), visit)
}
