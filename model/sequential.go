package model

import (
	"fmt"
	"math"
	"sync"
)

// Layer is one dense layer of a Sequential network. Weights is
// row-major: Weights[j] holds the incoming weights of output unit j.
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

// Sequential is a small feed-forward classifier ending in a single
// sigmoid unit. Per-call activation buffers come from a pool and are
// returned on every exit path, so repeated interactive predictions do
// not grow the heap.
type Sequential struct {
	layers     []Layer
	inputWidth int
	bufPool    sync.Pool
}

func NewSequential(layers []Layer) (*Sequential, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: network has no layers", ErrModelUnavailable)
	}
	maxWidth := 0
	width := 0
	for i, layer := range layers {
		if len(layer.Weights) == 0 || len(layer.Weights) != len(layer.Bias) {
			return nil, fmt.Errorf("%w: layer %d has %d weight rows, %d biases",
				ErrModelUnavailable, i, len(layer.Weights), len(layer.Bias))
		}
		in := len(layer.Weights[0])
		for j, row := range layer.Weights {
			if len(row) != in {
				return nil, fmt.Errorf("%w: layer %d row %d width %d, want %d",
					ErrModelUnavailable, i, j, len(row), in)
			}
		}
		if i == 0 {
			width = in
		} else if in != width {
			return nil, fmt.Errorf("%w: layer %d expects width %d, previous layer outputs %d",
				ErrModelUnavailable, i, in, width)
		}
		if i == 0 {
			maxWidth = in
		}
		width = len(layer.Weights)
		if width > maxWidth {
			maxWidth = width
		}
		switch layer.Activation {
		case "relu", "sigmoid", "linear":
		default:
			return nil, fmt.Errorf("%w: layer %d has unsupported activation %q",
				ErrModelUnavailable, i, layer.Activation)
		}
	}
	if width != 1 {
		return nil, fmt.Errorf("%w: final layer outputs %d units, want 1", ErrModelUnavailable, width)
	}

	m := &Sequential{layers: layers, inputWidth: len(layers[0].Weights[0])}
	m.bufPool.New = func() interface{} {
		buf := make([]float64, maxWidth)
		return &buf
	}
	return m, nil
}

func (m *Sequential) Name() string    { return "sequential" }
func (m *Sequential) InputWidth() int { return m.inputWidth }

func (m *Sequential) Predict(vector []float64) (float64, error) {
	if len(vector) != m.inputWidth {
		return 0, fmt.Errorf("%w: got %d features, model expects %d",
			ErrShapeMismatch, len(vector), m.inputWidth)
	}

	cur := m.bufPool.Get().(*[]float64)
	next := m.bufPool.Get().(*[]float64)
	defer m.bufPool.Put(cur)
	defer m.bufPool.Put(next)

	in := (*cur)[:len(vector)]
	copy(in, vector)

	for _, layer := range m.layers {
		out := (*next)[:len(layer.Weights)]
		for j, row := range layer.Weights {
			sum := layer.Bias[j]
			for k, w := range row {
				sum += w * in[k]
			}
			out[j] = activate(layer.Activation, sum)
		}
		cur, next = next, cur
		in = out
	}

	return in[0], nil
}

func activate(name string, x float64) float64 {
	switch name {
	case "relu":
		return math.Max(0, x)
	case "sigmoid":
		return sigmoid(x)
	default:
		return x
	}
}
