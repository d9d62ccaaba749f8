package model

import (
	"fmt"
	"math"
)

// Logistic is a logistic regression classifier: a weighted sum over
// the scaled vector plus a bias, squashed through sigmoid.
type Logistic struct {
	Bias    float64   `json:"bias"`
	Weights []float64 `json:"weights"`
}

func (m *Logistic) Name() string    { return "logistic" }
func (m *Logistic) InputWidth() int { return len(m.Weights) }

func (m *Logistic) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.Weights) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d",
			ErrShapeMismatch, len(vector), len(m.Weights))
	}
	score := m.Bias
	for i, value := range vector {
		score += m.Weights[i] * value
	}
	return sigmoid(score), nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
