package qlearning

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInputSize is returned when an input vector does not match the input layer.
	ErrInputSize = errors.New("input size mismatch")
	// ErrTargetSize is returned when a target vector does not match the output layer.
	ErrTargetSize = errors.New("target size mismatch")
)

// Layer is one fully connected layer. The input layer has no weights.
type Layer struct {
	Size    int
	Weights *mat.Dense    // Size × previous layer size
	Biases  *mat.VecDense // Size
}

// Network is a plain feed-forward network with tanh on every non-input layer.
type Network struct {
	Layers       []Layer
	LearningRate float64
}

// Activations holds the output of every layer for one forward pass, input first.
type Activations []*mat.VecDense

// Output returns a copy of the last layer's activations.
func (a Activations) Output() []float64 {
	if len(a) == 0 {
		return nil
	}
	return mat.Col(nil, 0, a[len(a)-1])
}

// Gradients holds the per-layer deltas of one backward pass together with
// the activations they were computed from. Deltas[0] is always nil.
type Gradients struct {
	Deltas []*mat.VecDense
	acts   Activations
}

// NewNetwork builds a network with the given layer sizes, input first.
// Every weight and bias is drawn uniformly from [-1, 1].
func NewNetwork(rng *rand.Rand, learningRate float64, sizes ...int) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("network needs at least 2 layers, got %d", len(sizes))
	}
	n := &Network{LearningRate: learningRate}
	for i, size := range sizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d: invalid size %d", i, size)
		}
		if i == 0 {
			n.Layers = append(n.Layers, Layer{Size: size})
			continue
		}
		prev := sizes[i-1]
		w := make([]float64, size*prev)
		for j := range w {
			w[j] = rng.Float64()*2 - 1
		}
		b := make([]float64, size)
		for j := range b {
			b[j] = rng.Float64()*2 - 1
		}
		n.Layers = append(n.Layers, Layer{
			Size:    size,
			Weights: mat.NewDense(size, prev, w),
			Biases:  mat.NewVecDense(size, b),
		})
	}
	return n, nil
}

// InputSize returns the size of the input layer.
func (n *Network) InputSize() int { return n.Layers[0].Size }

// OutputSize returns the size of the output layer.
func (n *Network) OutputSize() int { return n.Layers[len(n.Layers)-1].Size }

// Forward runs input through the network and returns every layer's activations.
func (n *Network) Forward(input []float64) (Activations, error) {
	if len(input) != n.InputSize() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputSize, len(input), n.InputSize())
	}
	acts := make(Activations, len(n.Layers))
	acts[0] = mat.NewVecDense(len(input), append([]float64(nil), input...))
	for i := 1; i < len(n.Layers); i++ {
		l := n.Layers[i]
		out := mat.NewVecDense(l.Size, nil)
		out.MulVec(l.Weights, acts[i-1])
		out.AddVec(out, l.Biases)
		for j := 0; j < l.Size; j++ {
			out.SetVec(j, math.Tanh(out.AtVec(j)))
		}
		acts[i] = out
	}
	return acts, nil
}

// FeedForward returns only the output layer of a forward pass.
func (n *Network) FeedForward(input []float64) ([]float64, error) {
	acts, err := n.Forward(input)
	if err != nil {
		return nil, err
	}
	return acts.Output(), nil
}

// Gradients computes the deltas that move the output of acts towards targets.
// The network is not modified.
func (n *Network) Gradients(acts Activations, targets []float64) (Gradients, error) {
	if len(acts) != len(n.Layers) {
		return Gradients{}, fmt.Errorf("activations for %d layers, network has %d", len(acts), len(n.Layers))
	}
	last := len(n.Layers) - 1
	if len(targets) != n.OutputSize() {
		return Gradients{}, fmt.Errorf("%w: got %d, want %d", ErrTargetSize, len(targets), n.OutputSize())
	}

	deltas := make([]*mat.VecDense, len(n.Layers))

	// Output layer: derivative of tanh is 1 - o².
	out := acts[last]
	d := mat.NewVecDense(n.Layers[last].Size, nil)
	for j := 0; j < d.Len(); j++ {
		o := out.AtVec(j)
		d.SetVec(j, (targets[j]-o)*(1-o*o))
	}
	deltas[last] = d

	// Hidden layers, back to front.
	for i := last - 1; i > 0; i-- {
		d := mat.NewVecDense(n.Layers[i].Size, nil)
		d.MulVec(n.Layers[i+1].Weights.T(), deltas[i+1])
		for j := 0; j < d.Len(); j++ {
			h := acts[i].AtVec(j)
			d.SetVec(j, d.AtVec(j)*(1-h*h))
		}
		deltas[i] = d
	}

	return Gradients{Deltas: deltas, acts: acts}, nil
}

// Apply updates weights and biases in place: W += lr·δ·inputᵀ, b += lr·δ.
func (n *Network) Apply(g Gradients) {
	for i := 1; i < len(n.Layers); i++ {
		l := n.Layers[i]
		l.Weights.RankOne(l.Weights, n.LearningRate, g.Deltas[i], g.acts[i-1])
		l.Biases.AddScaledVec(l.Biases, n.LearningRate, g.Deltas[i])
	}
}

// BackPropagate performs one gradient step towards targets for the pass in acts.
func (n *Network) BackPropagate(acts Activations, targets []float64) error {
	g, err := n.Gradients(acts, targets)
	if err != nil {
		return err
	}
	n.Apply(g)
	return nil
}
