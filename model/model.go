package model

import "errors"

var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrShapeMismatch    = errors.New("input shape mismatch")
)

// Model is a loaded binary classifier. Predict takes a scaled feature
// vector whose width must exactly match the trained input width and
// returns a probability in [0, 1]. Implementations must not retain the
// vector or leak per-call scratch state.
type Model interface {
	Predict(vector []float64) (float64, error)
	InputWidth() int
	Name() string
}
