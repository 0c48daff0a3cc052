package training

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// EpisodeReport is emitted once per finished attempt.
type EpisodeReport struct {
	Attempt    int
	Score      int
	Steps      int
	Epsilon    float64
	Reward     float64
	Teacher    bool
	Duration   time.Duration
	FinishedAt time.Time
}

// Trainer runs a fixed number of attempts without a window, sharing the model
// with other trainers through LoadPath and SavePath.
type Trainer struct {
	Driver    *Driver
	Attempts  int
	LoadPath  string
	SavePath  string
	SaveEvery int

	// OnEpisode, if set, is called after every finished attempt.
	OnEpisode func(EpisodeReport)

	logger log.Logger
}

// NewTrainer creates a trainer for attempts episodes.
func NewTrainer(d *Driver, attempts int, loadPath, savePath string, saveEvery int, logger log.Logger) *Trainer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if saveEvery <= 0 {
		saveEvery = 1
	}
	return &Trainer{
		Driver:    d,
		Attempts:  attempts,
		LoadPath:  loadPath,
		SavePath:  savePath,
		SaveEvery: saveEvery,
		logger:    logger,
	}
}

// Run plays the attempts in order. Before each one the shared model is
// reloaded; after each one epsilon decays and every SaveEvery attempts the
// model is written back. Cancelling ctx stops after the current tick. A final
// save is made before returning.
func (t *Trainer) Run(ctx context.Context) error {
	_ = level.Info(t.logger).Log("msg", "starting headless training", "attempts", t.Attempts, "load", t.LoadPath, "save", t.SavePath, "teacher", t.Driver.Teacher)

	lastSaved := 0
	attempt := 0
	for attempt < t.Attempts {
		if ctx.Err() != nil {
			break
		}
		attempt++

		// 1. Sync: carica il modello condiviso
		if t.LoadPath != "" {
			if err := t.Driver.Agent.Load(t.LoadPath); err != nil {
				_ = level.Warn(t.logger).Log("msg", "could not load shared model, keeping current weights", "path", t.LoadPath, "err", err)
			}
		}

		start := time.Now()
		res := t.Driver.RunEpisode(ctx)
		if res.Interrupted {
			_ = level.Info(t.logger).Log("msg", "training interrupted", "attempt", attempt, "steps", res.Steps)
			attempt--
			break
		}

		// 2. Fine partita: decadimento e reset
		t.Driver.EndEpisode()

		// 3. Condivisione del modello
		if attempt%t.SaveEvery == 0 {
			if t.save() {
				lastSaved = attempt
			}
		}

		report := EpisodeReport{
			Attempt:    attempt,
			Score:      res.Score,
			Steps:      res.Steps,
			Epsilon:    t.Driver.Agent.Epsilon,
			Reward:     res.Reward,
			Teacher:    t.Driver.Teacher,
			Duration:   time.Since(start),
			FinishedAt: time.Now(),
		}
		_ = level.Info(t.logger).Log("attempt", report.Attempt, "score", report.Score, "epsilon", report.Epsilon, "steps", report.Steps)
		if t.OnEpisode != nil {
			t.OnEpisode(report)
		}
	}

	if lastSaved != attempt || attempt == 0 {
		t.save()
	}
	_ = level.Info(t.logger).Log("msg", "training complete", "attempts", attempt)
	return ctx.Err()
}

func (t *Trainer) save() bool {
	if t.SavePath == "" {
		return false
	}
	if err := t.Driver.Agent.Save(t.SavePath); err != nil {
		_ = level.Error(t.logger).Log("msg", "could not save model", "path", t.SavePath, "err", err)
		return false
	}
	return true
}
