package entity

import (
	"snake-ai/game/types"
)

// Snake is the body of the snake, stored head first.
// Body[0] is the head, Body[len-1] is the tail.
type Snake struct {
	Body []types.Point
}

// NewSnake creates a single-segment snake at startPos.
func NewSnake(startPos types.Point) *Snake {
	return &Snake{
		Body: []types.Point{startPos},
	}
}

// Move pushes a new head in front of the body.
func (s *Snake) Move(newHead types.Point) {
	s.Body = append(s.Body, types.Point{})
	copy(s.Body[1:], s.Body)
	s.Body[0] = newHead
}

// RemoveTail drops the last segment and returns it.
func (s *Snake) RemoveTail() types.Point {
	tail := s.Body[len(s.Body)-1]
	s.Body = s.Body[:len(s.Body)-1]
	return tail
}

// GetHead returns the head position.
func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

// GetTail returns the tail position.
func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

// Len returns the number of segments.
func (s *Snake) Len() int {
	return len(s.Body)
}

// IsTail reports whether p is the current tail cell.
func (s *Snake) IsTail(p types.Point) bool {
	return len(s.Body) > 0 && s.GetTail() == p
}

// Clone returns a copy of the body, head first.
func (s *Snake) Clone() []types.Point {
	body := make([]types.Point, len(s.Body))
	copy(body, s.Body)
	return body
}
