package manager

import (
	"snake-ai/game/entity"
	"snake-ai/game/types"
)

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	InvalidDirection
)

// String returns a readable collision name.
func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case InvalidDirection:
		return "invalid direction"
	default:
		return "none"
	}
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// CheckCollision checks what moving the head onto pos would hit.
// The tail cell vacates on the same tick, so it never counts as a collision.
func (cm *CollisionManager) CheckCollision(pos types.Point, board types.Board, snake *entity.Snake) CollisionType {
	if cm.isWallCollision(pos) {
		return WallCollision
	}
	if board.CellAt(pos) == types.Snake && !snake.IsTail(pos) {
		return SelfCollision
	}
	return NoCollision
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.Contains(pos)
}
