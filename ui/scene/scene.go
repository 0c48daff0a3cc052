// Package scene holds the window-independent state of the interactive view:
// a start menu and a game that plays and keeps training in real time.
package scene

import (
	"fmt"
	"time"

	"snake-ai/config"
	"snake-ai/game"
	"snake-ai/qlearning"
	"snake-ai/stats"
	"snake-ai/training"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
)

// Action tells the window loop what to do after an update.
type Action int

const (
	None Action = iota
	StartGame
	ReturnToMenu
	Exit
)

// Input is the subset of keyboard state the scenes react to.
type Input struct {
	Enter  bool
	Escape bool
}

// Scene is one screen of the interactive view.
type Scene interface {
	Update(dt time.Duration, in Input) Action
	// Close is called once when the scene is left or the window closes.
	Close()
	// Summary is a one-line summary shown by the next menu.
	Summary() string
}

// StartScene is the menu: Enter starts a game, Escape quits.
type StartScene struct {
	Title   string
	Message string
}

// NewStartScene creates the menu showing message under the title.
func NewStartScene(message string) *StartScene {
	return &StartScene{Title: "Snake AI - Reinforcement Learning", Message: message}
}

// Update implements Scene.
func (s *StartScene) Update(_ time.Duration, in Input) Action {
	switch {
	case in.Enter:
		return StartGame
	case in.Escape:
		return Exit
	}
	return None
}

// Close implements Scene.
func (s *StartScene) Close() {}

// Summary implements Scene.
func (s *StartScene) Summary() string { return s.Message }

// GameScene plays with a nearly greedy policy while still training, one tick
// every move interval.
type GameScene struct {
	Driver    *training.Driver
	Stats     *stats.GameStats
	ModelPath string

	Attempt   int
	HighScore int
	LastTick  training.TickResult
	StartedAt time.Time

	interval     time.Duration
	elapsed      time.Duration
	episodeStart time.Time
	logger       log.Logger
}

// NewGameScene loads the model at modelPath and sets exploration to cfg.PlayEpsilon.
func NewGameScene(cfg config.Config, modelPath string, rng *rand.Rand, logger log.Logger) (*GameScene, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	agent, err := qlearning.NewAgent(cfg.AgentParams(), rng, logger)
	if err != nil {
		return nil, err
	}
	if err := agent.Load(modelPath); err != nil {
		_ = level.Warn(logger).Log("msg", "playing with fresh weights", "err", err)
	}
	agent.Epsilon = cfg.PlayEpsilon

	d := training.NewDriver(cfg, game.New(cfg.GridRows, cfg.GridCols, rng), agent, rng, logger)
	d.Teacher = false

	interval := cfg.MoveInterval.Std()
	if interval <= 0 {
		interval = config.Default().MoveInterval.Std()
	}
	return &GameScene{
		Driver:       d,
		Stats:        stats.NewGameStats(0),
		ModelPath:    modelPath,
		Attempt:      1,
		StartedAt:    time.Now(),
		interval:     interval,
		episodeStart: time.Now(),
		logger:       logger,
	}, nil
}

// Update implements Scene. A finished episode is closed on the update after
// the one that ended it, so the last frame stays visible.
func (s *GameScene) Update(dt time.Duration, in Input) Action {
	if in.Escape {
		return ReturnToMenu
	}

	d := s.Driver
	if d.Done() {
		score := d.Game.Score()
		s.HighScore = max(s.HighScore, score)
		s.Stats.AddGame(score, d.Steps(), d.Agent.Epsilon, s.episodeStart, time.Now())
		d.EndEpisode()
		_ = level.Info(s.logger).Log("attempt", s.Attempt, "score", score, "epsilon", d.Agent.Epsilon)
		s.Attempt++
		s.elapsed = 0
		s.episodeStart = time.Now()
		return None
	}

	s.elapsed += dt
	for s.elapsed >= s.interval {
		s.elapsed -= s.interval
		s.LastTick = d.Tick()
		if s.LastTick.Done {
			break
		}
	}
	return None
}

// Close saves the model.
func (s *GameScene) Close() {
	if err := s.Driver.Agent.Save(s.ModelPath); err != nil {
		_ = level.Error(s.logger).Log("msg", "could not save model on exit", "path", s.ModelPath, "err", err)
	}
}

// Summary implements Scene.
func (s *GameScene) Summary() string {
	return fmt.Sprintf("High Score: %d", s.HighScore)
}
