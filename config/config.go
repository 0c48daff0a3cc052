// Package config holds every tunable of the trainer and the interactive view.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"snake-ai/game/types"
	"snake-ai/qlearning"
	"snake-ai/replay"
)

// Rewards used by the training driver.
type Rewards struct {
	Food   float64 `json:"food"`
	Death  float64 `json:"death"`
	Step   float64 `json:"step"`
	Closer float64 `json:"closer"`
	Away   float64 `json:"away"`
}

// Config is the complete runtime configuration.
type Config struct {
	// Griglia
	GridRows int `json:"grid_rows"`
	GridCols int `json:"grid_cols"`

	// Addestramento
	ReplayMemorySize int     `json:"replay_memory_size"`
	BatchSize        int     `json:"batch_size"`
	TrainEvery       int     `json:"train_every"`
	MaxSteps         int     `json:"max_steps"`
	SaveEvery        int     `json:"save_every"`
	LearningRate     float64 `json:"learning_rate"`
	Gamma            float64 `json:"gamma"`
	EpsilonDecay     float64 `json:"epsilon_decay"`
	MinEpsilon       float64 `json:"min_epsilon"`
	TeacherMode      bool    `json:"teacher_mode"`

	Rewards Rewards `json:"rewards"`

	// Finestra
	WindowWidth  int      `json:"window_width"`
	WindowHeight int      `json:"window_height"`
	MoveInterval Duration `json:"move_interval"`
	PlayEpsilon  float64  `json:"play_epsilon"`

	LogLevel string `json:"log_level"`
}

// Default returns the stock configuration.
func Default() Config {
	p := qlearning.DefaultParams()
	return Config{
		GridRows: types.DefaultRows,
		GridCols: types.DefaultCols,

		ReplayMemorySize: replay.DefaultCapacity,
		BatchSize:        32,
		TrainEvery:       5,
		MaxSteps:         10000,
		SaveEvery:        10,
		LearningRate:     p.LearningRate,
		Gamma:            p.Gamma,
		EpsilonDecay:     p.EpsilonDecay,
		MinEpsilon:       p.MinEpsilon,
		TeacherMode:      true,

		Rewards: Rewards{
			Food:  10,
			Death: -10,
			Step:  -0.01,
		},

		WindowWidth:  1000,
		WindowHeight: 800,
		MoveInterval: Duration(100 * time.Millisecond),
		PlayEpsilon:  0.01,

		LogLevel: "info",
	}
}

// Load overlays the JSON file at path on the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the trainer cannot run with.
func (c Config) Validate() error {
	var errs []error
	positive := []struct {
		name string
		v    int
	}{
		{"grid_rows", c.GridRows},
		{"grid_cols", c.GridCols},
		{"replay_memory_size", c.ReplayMemorySize},
		{"batch_size", c.BatchSize},
		{"train_every", c.TrainEvery},
		{"max_steps", c.MaxSteps},
		{"save_every", c.SaveEvery},
	}
	for _, f := range positive {
		if f.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", f.name, f.v))
		}
	}
	if c.GridRows > 0 && c.GridCols > 0 && c.GridRows*c.GridCols < 2 {
		errs = append(errs, fmt.Errorf("grid %dx%d is too small", c.GridRows, c.GridCols))
	}
	unit := []struct {
		name string
		v    float64
	}{
		{"gamma", c.Gamma},
		{"epsilon_decay", c.EpsilonDecay},
		{"min_epsilon", c.MinEpsilon},
		{"play_epsilon", c.PlayEpsilon},
	}
	for _, f := range unit {
		if f.v < 0 || f.v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", f.name, f.v))
		}
	}
	if c.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("learning_rate must be positive, got %v", c.LearningRate))
	}
	if c.MoveInterval < 0 {
		errs = append(errs, fmt.Errorf("move_interval must not be negative, got %v", c.MoveInterval.Std()))
	}
	return errors.Join(errs...)
}

// AgentParams extracts the agent hyper-parameters.
func (c Config) AgentParams() qlearning.Params {
	return qlearning.Params{
		LearningRate: c.LearningRate,
		Gamma:        c.Gamma,
		EpsilonDecay: c.EpsilonDecay,
		MinEpsilon:   c.MinEpsilon,
	}
}

// Duration is a time.Duration that reads and writes as a string like "100ms".
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
