package types

// Passable reports whether a search may walk onto p: inside the board and
// either free or the tail, which vacates on the next move.
func Passable(board Board, p, tail Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= board.Cols() || p.Y >= board.Rows() {
		return false
	}
	return board.CellAt(p) != Snake || p == tail
}

// Search visits cells breadth-first from start in Neighbors order, stepping
// only onto Passable cells. visit receives each dequeued cell and the cell it
// was reached from (start comes from itself); returning false stops the search.
// Nothing is visited when start is off the board.
func Search(board Board, start, tail Point, visit func(p, from Point) bool) {
	cols := board.Cols()
	if start.X < 0 || start.Y < 0 || start.X >= cols || start.Y >= board.Rows() {
		return
	}
	visited := make([]bool, board.Rows()*cols)
	visited[start.Y*cols+start.X] = true

	type item struct{ p, from Point }
	queue := []item{{p: start, from: start}}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if !visit(curr.p, curr.from) {
			return
		}
		for _, d := range Neighbors {
			next := curr.p.Add(d)
			if !Passable(board, next, tail) || visited[next.Y*cols+next.X] {
				continue
			}
			visited[next.Y*cols+next.X] = true
			queue = append(queue, item{p: next, from: curr.p})
		}
	}
}

// FloodFill counts the cells Search reaches from start, start included.
func FloodFill(board Board, start, tail Point) int {
	count := 0
	Search(board, start, tail, func(_, _ Point) bool {
		count++
		return true
	})
	return count
}
