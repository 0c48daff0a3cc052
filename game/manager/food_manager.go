package manager

import (
	"snake-ai/game/types"

	"golang.org/x/exp/rand"
)

type FoodManager struct {
	grid types.Grid
	rng  *rand.Rand
}

func NewFoodManager(grid types.Grid, rng *rand.Rand) *FoodManager {
	return &FoodManager{
		grid: grid,
		rng:  rng,
	}
}

// GenerateFood picks a cell uniformly among the empty ones.
// It returns false when the board has no empty cell left.
func (fm *FoodManager) GenerateFood(board types.Board) (types.Point, bool) {
	free := make([]types.Point, 0, fm.grid.Area())
	for y := 0; y < fm.grid.Rows; y++ {
		for x := 0; x < fm.grid.Cols; x++ {
			p := types.Point{X: x, Y: y}
			if board.CellAt(p) == types.Empty {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return types.Point{}, false
	}
	return free[fm.rng.Intn(len(free))], true
}
