// Package training runs Q-learning episodes: the per-tick driver, the batch
// trainer and a background manager for front-ends.
package training

import (
	"context"

	"snake-ai/config"
	"snake-ai/game"
	"snake-ai/game/types"
	"snake-ai/qlearning"
	"snake-ai/replay"
	"snake-ai/sensors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
)

// TickResult describes one simulated tick.
type TickResult struct {
	Action     int
	Move       types.Point
	FromOracle bool
	Reward     float64
	Ate        bool
	Alive      bool
	// Done is set when the episode is over: death, full board or step limit.
	Done    bool
	Trained int
}

// EpisodeResult summarises a finished (or interrupted) episode.
type EpisodeResult struct {
	Score       int
	Steps       int
	Reward      float64
	Interrupted bool
}

// Driver owns one game, one agent and the replay memory, and advances them
// one tick at a time.
type Driver struct {
	Game    *game.Game
	Agent   *qlearning.Agent
	Memory  *replay.Buffer[qlearning.Transition]
	Teacher bool

	rewards    config.Rewards
	batchSize  int
	trainEvery int
	maxSteps   int
	rng        *rand.Rand
	logger     log.Logger

	direction types.Point
	steps     int
	reward    float64
	done      bool
}

// NewDriver wires a driver around g and agent with a fresh replay memory.
func NewDriver(cfg config.Config, g *game.Game, agent *qlearning.Agent, rng *rand.Rand, logger log.Logger) *Driver {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.TrainEvery <= 0 {
		cfg.TrainEvery = 1
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = config.Default().MaxSteps
	}
	return &Driver{
		Game:       g,
		Agent:      agent,
		Memory:     replay.New[qlearning.Transition](cfg.ReplayMemorySize),
		Teacher:    cfg.TeacherMode,
		rewards:    cfg.Rewards,
		batchSize:  cfg.BatchSize,
		trainEvery: cfg.TrainEvery,
		maxSteps:   cfg.MaxSteps,
		rng:        rng,
		logger:     logger,
		direction:  types.Right,
	}
}

// Direction returns the current heading.
func (d *Driver) Direction() types.Point { return d.direction }

// Steps returns the ticks played in the current episode.
func (d *Driver) Steps() int { return d.steps }

// EpisodeReward returns the reward accumulated in the current episode.
func (d *Driver) EpisodeReward() float64 { return d.reward }

// Done reports whether the current episode is over.
func (d *Driver) Done() bool { return d.done }

// Tick plays one step: featurize, choose, move, reward, remember, and every
// trainEvery ticks learn from a sampled batch.
func (d *Driver) Tick() TickResult {
	if d.done {
		return TickResult{Done: true}
	}
	g := d.Game

	head := g.Head()
	food, _ := g.FoodPos()
	state := sensors.State(g, head, g.Tail(), food, d.direction)

	var res TickResult
	if d.Teacher {
		// Il maestro BFS propone la mossa, se ne trova una sicura
		if move := g.FindBestMoveBFS(); !move.IsZero() {
			res.Move = move
			res.Action = types.ActionFor(d.direction, move)
			res.FromOracle = true
		}
	}
	if !res.FromOracle {
		res.Action = d.Agent.GetAction(state)
		res.Move = types.ApplyAction(d.direction, res.Action)
	}

	before := g.Score()
	res.Alive = g.Step(res.Move)
	res.Ate = res.Alive && g.Score() > before
	full := res.Ate && !g.HasFood()

	newHead := g.Head()
	res.Reward = Reward(d.rewards, Outcome{
		Alive:      res.Alive,
		Ate:        res.Ate,
		DistBefore: head.Manhattan(food),
		DistAfter:  newHead.Manhattan(food),
	})
	if !res.Alive {
		_ = level.Debug(d.logger).Log("msg", "snake died", "collision", g.LastCollision, "score", g.Score(), "steps", d.steps+1)
	}

	d.direction = res.Move
	gameOver := !res.Alive || full

	nextFood, _ := g.FoodPos()
	nextState := sensors.State(g, newHead, g.Tail(), nextFood, d.direction)
	d.Memory.Add(qlearning.Transition{
		State:     state,
		Action:    res.Action,
		Reward:    res.Reward,
		NextState: nextState,
		Done:      gameOver,
	})

	if d.steps%d.trainEvery == 0 {
		res.Trained = d.Agent.Train(d.Memory.Sample(d.rng, d.batchSize))
	}

	d.steps++
	d.reward += res.Reward
	d.done = gameOver || d.steps >= d.maxSteps
	res.Done = d.done
	return res
}

// RunEpisode ticks until the episode ends or ctx is cancelled. It does not
// call EndEpisode.
func (d *Driver) RunEpisode(ctx context.Context) EpisodeResult {
	for !d.done {
		if ctx.Err() != nil {
			return EpisodeResult{Score: d.Game.Score(), Steps: d.steps, Reward: d.reward, Interrupted: true}
		}
		d.Tick()
	}
	return EpisodeResult{Score: d.Game.Score(), Steps: d.steps, Reward: d.reward}
}

// EndEpisode decays epsilon and starts a new episode heading right.
func (d *Driver) EndEpisode() {
	d.Agent.DecayEpsilon()
	d.Game.Reset()
	d.direction = types.Right
	d.steps = 0
	d.reward = 0
	d.done = false
}
