package ui

import (
	"fmt"
	"time"

	"snake-ai/game/types"
	"snake-ai/ui/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = 200 // punti massimi nel grafico
	borderPadding = 10
)

var (
	headColor = rl.Color{R: 0, G: 228, B: 48, A: 255}
	bodyColor = rl.Color{R: 0, G: 158, B: 47, A: 255}
)

// Renderer draws scenes into the raylib window, sizing everything from the
// current screen dimensions.
type Renderer struct {
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	graphHeight     int32
	graphWidth      int32
	gameWidth       int32
	statsPanel      int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
	fontSize        int32
	lineHeight      int32
}

func NewRenderer() *Renderer {
	r := &Renderer{}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 4
	r.gameWidth = r.screenWidth - r.statsPanel

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5

	r.fontSize = max(min(r.screenHeight/40, r.statsPanel/14), 10)
	r.lineHeight = r.fontSize + r.fontSize/2
}

// DrawStart draws the menu.
func (r *Renderer) DrawStart(s *scene.StartScene) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	title := r.fontSize * 2
	y := r.screenHeight/3 - title
	r.centered(s.Title, y, title, rl.White)
	y += title * 2
	if s.Message != "" {
		r.centered(s.Message, y, r.fontSize, rl.Gold)
		y += r.lineHeight
	}
	y += r.lineHeight
	r.centered("Press ENTER to start", y, r.fontSize, rl.LightGray)
	r.centered("Press ESC to quit", y+r.lineHeight, r.fontSize, rl.LightGray)

	rl.EndDrawing()
}

// DrawGame draws the board and the stats panel of a running game.
func (r *Renderer) DrawGame(s *scene.GameScene) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g := s.Driver.Game
	availableWidth := r.gameWidth - borderPadding*2
	availableHeight := r.screenHeight - borderPadding*2
	r.cellSize = max(min(availableWidth/int32(g.Cols()), availableHeight/int32(g.Rows())), 1)

	r.totalGridWidth = r.cellSize * int32(g.Cols())
	r.totalGridHeight = r.cellSize * int32(g.Rows())
	r.offsetX = borderPadding + (availableWidth-r.totalGridWidth)/2
	r.offsetY = (r.screenHeight - r.totalGridHeight) / 2

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.totalGridWidth+2, r.totalGridHeight+2, rl.DarkGray)
	for y, row := range g.Cells() {
		for x, cell := range row {
			switch cell {
			case types.Snake:
				rl.DrawRectangle(r.cellX(x), r.cellY(y), r.cellSize, r.cellSize, bodyColor)
			case types.Food:
				rl.DrawRectangle(r.cellX(x), r.cellY(y), r.cellSize, r.cellSize, rl.Red)
			}
			rl.DrawRectangleLines(r.cellX(x), r.cellY(y), r.cellSize, r.cellSize, rl.Gray)
		}
	}

	head := g.Head()
	rl.DrawRectangle(r.cellX(head.X), r.cellY(head.Y), r.cellSize, r.cellSize, headColor)
	r.drawDirection(head, s.Driver.Direction())

	if s.Driver.Done() {
		text := "Game Over! (Restarting...)"
		w := rl.MeasureText(text, r.fontSize)
		rl.DrawText(text, r.offsetX+(r.totalGridWidth-w)/2, r.offsetY+r.totalGridHeight/2, r.fontSize, rl.White)
	}

	r.drawStatsPanel(s)
	rl.EndDrawing()
}

func (r *Renderer) cellX(x int) int32 { return r.offsetX + int32(x)*r.cellSize }
func (r *Renderer) cellY(y int) int32 { return r.offsetY + int32(y)*r.cellSize }

func (r *Renderer) centered(text string, y, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, (r.screenWidth-w)/2, y, size, color)
}

// drawDirection draws a triangle on the head pointing where the snake is going.
func (r *Renderer) drawDirection(head, dir types.Point) {
	x := float32(r.cellX(head.X))
	y := float32(r.cellY(head.Y))
	c := float32(r.cellSize)
	h := c / 2

	var a, b, d rl.Vector2
	switch dir {
	case types.Right:
		a, b, d = rl.Vector2{X: x + c, Y: y + h}, rl.Vector2{X: x + h, Y: y}, rl.Vector2{X: x + h, Y: y + c}
	case types.Left:
		a, b, d = rl.Vector2{X: x, Y: y + h}, rl.Vector2{X: x + h, Y: y + c}, rl.Vector2{X: x + h, Y: y}
	case types.Down:
		a, b, d = rl.Vector2{X: x + h, Y: y + c}, rl.Vector2{X: x + c, Y: y + h}, rl.Vector2{X: x, Y: y + h}
	default:
		a, b, d = rl.Vector2{X: x + h, Y: y}, rl.Vector2{X: x, Y: y + h}, rl.Vector2{X: x + c, Y: y + h}
	}
	// raylib wants counter-clockwise vertices
	rl.DrawTriangle(a, b, d, rl.Yellow)
}

func (r *Renderer) drawStatsPanel(s *scene.GameScene) {
	statsX := r.gameWidth + 5
	statsY := int32(10)
	d := s.Driver

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	lines := []string{
		fmt.Sprintf("Attempt: %d", s.Attempt),
		fmt.Sprintf("Score: %d", d.Game.Score()),
		fmt.Sprintf("High Score: %d", s.HighScore),
		fmt.Sprintf("Steps: %d", d.Steps()),
		fmt.Sprintf("Epsilon: %.5f", d.Agent.Epsilon),
		"",
		fmt.Sprintf("Games: %d", s.Stats.GamesPlayed()),
		fmt.Sprintf("Avg: %.2f", s.Stats.AverageScore()),
		fmt.Sprintf("Median: %.1f", s.Stats.MedianScore()),
		fmt.Sprintf("Last 100: %.2f", s.Stats.RecentAverage(100)),
	}
	rl.DrawText("Stats:", statsX, statsY, r.fontSize, rl.White)
	statsY += r.lineHeight
	for _, l := range lines {
		if l != "" {
			rl.DrawText(l, statsX+5, statsY, r.fontSize, rl.RayWhite)
		}
		statsY += r.lineHeight
	}

	r.drawPerformanceGraph(s, statsX)
}

func (r *Renderer) drawPerformanceGraph(s *scene.GameScene, graphX int32) {
	graphY := r.screenHeight - r.graphHeight - r.fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, r.graphHeight, rl.White)
	rl.DrawText("Performance", graphX, graphY-r.fontSize-5, r.fontSize, rl.White)

	elapsed := time.Since(s.StartedAt)
	timeText := fmt.Sprintf("%02d:%02d:%02d", int(elapsed.Hours()), int(elapsed.Minutes())%60, int(elapsed.Seconds())%60)
	rl.DrawText(timeText, graphX, r.screenHeight-r.fontSize-5, r.fontSize, rl.White)

	scores := s.Stats.RecentScores(maxScores)
	if len(scores) < 2 {
		return
	}
	maxScore := 1.0
	sum := 0.0
	for _, v := range scores {
		maxScore = max(maxScore, v)
		sum += v
	}

	toY := func(v float64) int32 {
		return graphY + r.graphHeight - int32(float64(r.graphHeight)*v/maxScore)
	}
	toX := func(i int) int32 {
		return graphX + int32(float64(r.graphWidth)*float64(i)/float64(maxScores))
	}
	for j := 1; j < len(scores); j++ {
		rl.DrawLine(toX(j-1), toY(scores[j-1]), toX(j), toY(scores[j]), headColor)
	}

	// media tratteggiata
	avgY := toY(sum / float64(len(scores)))
	for x := graphX; x < graphX+r.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, rl.Gold)
	}
}
