// Package ui is the raylib front-end: a menu and a live game that keeps
// learning while it plays.
package ui

import (
	"time"

	"snake-ai/config"
	"snake-ai/ui/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
)

// Run opens the window and loops until it is closed or the menu asks to exit.
// The model at modelPath is loaded when a game starts and saved when it ends.
func Run(cfg config.Config, modelPath string, rng *rand.Rand, logger log.Logger) error {
	rl.InitWindow(int32(cfg.WindowWidth), int32(cfg.WindowHeight), "Snake AI - Q-Learning")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	// Esc is handled by the scenes
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	renderer := NewRenderer()
	var current scene.Scene = scene.NewStartScene("")
	defer func() { current.Close() }()

	for !rl.WindowShouldClose() {
		in := scene.Input{
			Enter:  rl.IsKeyPressed(rl.KeyEnter),
			Escape: rl.IsKeyPressed(rl.KeyEscape),
		}
		dt := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))

		switch current.Update(dt, in) {
		case scene.StartGame:
			gs, err := scene.NewGameScene(cfg, modelPath, rng, logger)
			if err != nil {
				_ = level.Error(logger).Log("msg", "could not start game", "err", err)
				return err
			}
			current.Close()
			current = gs
		case scene.ReturnToMenu:
			current.Close()
			current = scene.NewStartScene(current.Summary())
		case scene.Exit:
			return nil
		}

		switch s := current.(type) {
		case *scene.StartScene:
			renderer.DrawStart(s)
		case *scene.GameScene:
			renderer.DrawGame(s)
		}
	}
	return nil
}
