package types

// Grid represents the game grid dimensions
type Grid struct {
	Rows int
	Cols int
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Cols && p.Y >= 0 && p.Y < g.Rows
}

// Area returns the number of cells in the grid.
func (g Grid) Area() int {
	return g.Rows * g.Cols
}

// Default board size
const (
	DefaultRows = 25
	DefaultCols = 25
)

// Point is a board coordinate: X is the column, Y is the row (growing downward).
// Directions are unit Points; the zero Point means "no move".
type Point struct {
	X, Y int
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether p is the zero vector.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// IsUnit reports whether p is one of the four cardinal unit vectors.
func (p Point) IsUnit() bool {
	return abs(p.X)+abs(p.Y) == 1
}

// Manhattan returns the Manhattan distance between p and q.
func (p Point) Manhattan(q Point) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// Cardinal directions
var (
	Up    = Point{X: 0, Y: -1}
	Down  = Point{X: 0, Y: 1}
	Left  = Point{X: -1, Y: 0}
	Right = Point{X: 1, Y: 0}
	None  = Point{}
)

// Neighbors is the BFS expansion order used everywhere on the board.
var Neighbors = [4]Point{Up, Down, Left, Right}

// Relative actions, relative to the current heading.
const (
	Straight = iota
	TurnLeft
	TurnRight

	// NumActions is the number of relative actions.
	NumActions
)

// LeftOf returns the direction obtained by turning left from d.
func LeftOf(d Point) Point {
	return Point{X: d.Y, Y: -d.X}
}

// RightOf returns the direction obtained by turning right from d.
func RightOf(d Point) Point {
	return Point{X: -d.Y, Y: d.X}
}

// ApplyAction converts a relative action into an absolute direction.
//
//	0: straight
//	1: turn left
//	2: turn right
func ApplyAction(d Point, action int) Point {
	switch action {
	case TurnLeft:
		return LeftOf(d)
	case TurnRight:
		return RightOf(d)
	default:
		return d
	}
}

// ActionFor converts an absolute move into the relative action that produces it
// from heading d. Anything that is neither a left nor a right turn counts as straight.
func ActionFor(d, move Point) int {
	switch move {
	case LeftOf(d):
		return TurnLeft
	case RightOf(d):
		return TurnRight
	default:
		return Straight
	}
}

// Cell is the content of a single grid cell.
type Cell uint8

const (
	Empty Cell = iota
	Snake
	Food
	Border
)

// String returns a one-letter representation, handy in board dumps.
func (c Cell) String() string {
	switch c {
	case Snake:
		return "S"
	case Food:
		return "F"
	case Border:
		return "#"
	default:
		return "."
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Board is a read-only view of the grid.
type Board interface {
	Rows() int
	Cols() int
	CellAt(p Point) Cell
}
