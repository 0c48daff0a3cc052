// Package game implements the single-snake grid simulator and the BFS path
// oracle used to propose moves while training.
package game

import (
	"errors"
	"fmt"
	"time"

	"snake-ai/game/entity"
	"snake-ai/game/manager"
	"snake-ai/game/types"

	"golang.org/x/exp/rand"
)

// ErrInvalidLayout is returned by Place when the requested board is not a legal snake position.
var ErrInvalidLayout = errors.New("invalid board layout")

// Game owns the board, the snake and the food cell.
type Game struct {
	grid         types.Grid
	cells        []types.Cell // row-major
	snake        *entity.Snake
	food         types.Point
	hasFood      bool
	rng          *rand.Rand
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager

	// LastCollision records why the most recent rejected Step failed.
	LastCollision manager.CollisionType
}

// New creates a rows×cols game and resets it. A nil rng is seeded from the clock.
func New(rows, cols int, rng *rand.Rand) *Game {
	if rows <= 0 {
		rows = types.DefaultRows
	}
	if cols <= 0 {
		cols = types.DefaultCols
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	grid := types.Grid{Rows: rows, Cols: cols}
	g := &Game{
		grid:         grid,
		cells:        make([]types.Cell, grid.Area()),
		rng:          rng,
		collisionMgr: manager.NewCollisionManager(grid),
		foodMgr:      manager.NewFoodManager(grid, rng),
	}
	g.Reset()
	return g
}

// Reset clears the board, places a single-segment snake in the centre and spawns food.
func (g *Game) Reset() {
	g.clear()
	start := types.Point{X: g.grid.Cols / 2, Y: g.grid.Rows / 2}
	g.snake = entity.NewSnake(start)
	g.set(start, types.Snake)
	g.LastCollision = manager.NoCollision
	g.SpawnFood()
}

// Place resets the board to an explicit layout. body is head first; a food
// position outside the board means "no food".
func (g *Game) Place(body []types.Point, food types.Point) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidLayout)
	}
	seen := make(map[types.Point]bool, len(body))
	for i, p := range body {
		if !g.grid.Contains(p) {
			return fmt.Errorf("%w: segment %d at %v is off the board", ErrInvalidLayout, i, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: segment %d at %v overlaps the body", ErrInvalidLayout, i, p)
		}
		if i > 0 && p.Manhattan(body[i-1]) != 1 {
			return fmt.Errorf("%w: segment %d at %v is not adjacent to %v", ErrInvalidLayout, i, p, body[i-1])
		}
		seen[p] = true
	}
	if g.grid.Contains(food) && seen[food] {
		return fmt.Errorf("%w: food at %v is under the snake", ErrInvalidLayout, food)
	}

	g.clear()
	g.snake = &entity.Snake{Body: append([]types.Point(nil), body...)}
	for _, p := range body {
		g.set(p, types.Snake)
	}
	if g.grid.Contains(food) {
		g.food = food
		g.hasFood = true
		g.set(food, types.Food)
	}
	g.LastCollision = manager.NoCollision
	return nil
}

// Step moves the head one cell in direction dir.
// It returns false, leaving the board untouched, when the move hits a wall or
// the body. Moving onto the current tail is legal because the tail vacates
// on the same tick.
func (g *Game) Step(dir types.Point) bool {
	if !dir.IsUnit() {
		g.LastCollision = manager.InvalidDirection
		return false
	}
	newHead := g.snake.GetHead().Add(dir)
	if collision := g.collisionMgr.CheckCollision(newHead, g, g.snake); collision != manager.NoCollision {
		g.LastCollision = collision
		return false
	}

	if g.hasFood && newHead == g.food {
		g.snake.Move(newHead)
		g.set(newHead, types.Snake)
		g.hasFood = false
		g.SpawnFood()
		return true
	}

	tail := g.snake.RemoveTail()
	g.set(tail, types.Empty)
	g.snake.Move(newHead)
	g.set(newHead, types.Snake)
	return true
}

// SpawnFood places food on a uniformly chosen empty cell. On a full board no food is placed.
func (g *Game) SpawnFood() {
	if g.hasFood {
		g.set(g.food, types.Empty)
		g.hasFood = false
	}
	food, ok := g.foodMgr.GenerateFood(g)
	if !ok {
		return
	}
	g.food = food
	g.hasFood = true
	g.set(food, types.Food)
}

// Rows returns the number of board rows.
func (g *Game) Rows() int { return g.grid.Rows }

// Cols returns the number of board columns.
func (g *Game) Cols() int { return g.grid.Cols }

// Grid returns the board dimensions.
func (g *Game) Grid() types.Grid { return g.grid }

// CellAt returns the content of p; positions off the board read as Border.
func (g *Game) CellAt(p types.Point) types.Cell {
	if !g.grid.Contains(p) {
		return types.Border
	}
	return g.cells[g.index(p)]
}

// Cells returns a copy of the board as [row][col].
func (g *Game) Cells() [][]types.Cell {
	out := make([][]types.Cell, g.grid.Rows)
	for y := range out {
		out[y] = make([]types.Cell, g.grid.Cols)
		copy(out[y], g.cells[y*g.grid.Cols:(y+1)*g.grid.Cols])
	}
	return out
}

// SnakeBody returns a copy of the body, head first.
func (g *Game) SnakeBody() []types.Point { return g.snake.Clone() }

// Head returns the head position.
func (g *Game) Head() types.Point { return g.snake.GetHead() }

// Tail returns the tail position.
func (g *Game) Tail() types.Point { return g.snake.GetTail() }

// FoodPos returns the food position and whether there is any food on the board.
// Without food it returns (-1, -1).
func (g *Game) FoodPos() (types.Point, bool) {
	if !g.hasFood {
		return types.Point{X: -1, Y: -1}, false
	}
	return g.food, true
}

// HasFood reports whether food is on the board. A board without food is full.
func (g *Game) HasFood() bool { return g.hasFood }

// Score is the current snake length.
func (g *Game) Score() int { return g.snake.Len() }

func (g *Game) index(p types.Point) int { return p.Y*g.grid.Cols + p.X }

func (g *Game) set(p types.Point, c types.Cell) { g.cells[g.index(p)] = c }

func (g *Game) clear() {
	for i := range g.cells {
		g.cells[i] = types.Empty
	}
	g.hasFood = false
}
