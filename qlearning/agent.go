// Package qlearning implements the Q-learning agent: a small tanh network,
// epsilon-greedy action selection, one-step Q targets and a plain-text model file.
package qlearning

import (
	"fmt"

	"snake-ai/game/types"
	"snake-ai/sensors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

const (
	// Architettura fissa della rete
	InputSize  = sensors.Size
	HiddenSize = 32
	OutputSize = types.NumActions

	// Epsilon di partenza senza modello salvato
	InitialEpsilon = 1.0
	// Epsilon usato quando il file ha un header sconosciuto
	FallbackEpsilon = 0.5
)

// Params are the learning hyper-parameters of an Agent.
type Params struct {
	LearningRate float64
	Gamma        float64
	EpsilonDecay float64
	MinEpsilon   float64
}

// DefaultParams returns the stock hyper-parameters.
func DefaultParams() Params {
	return Params{
		LearningRate: 0.01,
		Gamma:        0.95,
		EpsilonDecay: 0.999,
		MinEpsilon:   0.00001,
	}
}

// Transition is one stored step of experience.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// Agent rappresenta l'agente Q-learning con la sua rete.
type Agent struct {
	Net     *Network
	Epsilon float64
	Params  Params

	rng    *rand.Rand
	logger log.Logger
}

// NewAgent crea un agente con una rete 34→32→3 inizializzata a caso.
func NewAgent(params Params, rng *rand.Rand, logger log.Logger) (*Agent, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	net, err := NewNetwork(rng, params.LearningRate, InputSize, HiddenSize, OutputSize)
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	return &Agent{
		Net:     net,
		Epsilon: InitialEpsilon,
		Params:  params,
		rng:     rng,
		logger:  logger,
	}, nil
}

// GetAction seleziona un'azione relativa con politica epsilon-greedy.
func (a *Agent) GetAction(state []float64) int {
	// Esplorazione
	if a.rng.Float64() < a.Epsilon {
		return a.rng.Intn(OutputSize)
	}

	// Sfruttamento
	q, err := a.Net.FeedForward(state)
	if err != nil {
		_ = level.Warn(a.logger).Log("msg", "forward pass failed, acting randomly", "err", err)
		return a.rng.Intn(OutputSize)
	}
	return floats.MaxIdx(q)
}

// Train performs one gradient step per transition in batch and returns how
// many transitions were used. Only the target of the action taken changes.
func (a *Agent) Train(batch []Transition) int {
	trained := 0
	for _, tr := range batch {
		if err := a.trainOne(tr); err != nil {
			_ = level.Warn(a.logger).Log("msg", "skipping transition", "err", err)
			continue
		}
		trained++
	}
	return trained
}

func (a *Agent) trainOne(tr Transition) error {
	if tr.Action < 0 || tr.Action >= OutputSize {
		return fmt.Errorf("action %d out of range", tr.Action)
	}
	acts, err := a.Net.Forward(tr.State)
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}
	nextQ, err := a.Net.FeedForward(tr.NextState)
	if err != nil {
		return fmt.Errorf("next state: %w", err)
	}

	// Q(s,a) <- r + γ * max_a' Q(s',a')
	target := tr.Reward
	if !tr.Done {
		target += a.Params.Gamma * floats.Max(nextQ)
	}
	targets := acts.Output()
	targets[tr.Action] = target

	return a.Net.BackPropagate(acts, targets)
}

// DecayEpsilon multiplies epsilon by the decay factor, never going below MinEpsilon.
func (a *Agent) DecayEpsilon() {
	if a.Epsilon <= a.Params.MinEpsilon {
		return
	}
	a.Epsilon *= a.Params.EpsilonDecay
	if a.Epsilon < a.Params.MinEpsilon {
		a.Epsilon = a.Params.MinEpsilon
	}
}
