package preprocess

import "fmt"

// Transform applies the fitted min-max transform in its stored linear
// form: out[i] = vec[i]*Scale[i] + Min[i]. The scale/min pair is what
// was actually fit at training time; rederiving the transform from
// data_min/data_max is not guaranteed to be numerically identical and
// must not be done.
func (p ScalerParams) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(p.Scale) || len(vector) != len(p.Min) {
		return nil, fmt.Errorf("%w: vector=%d scale=%d min=%d",
			ErrShapeMismatch, len(vector), len(p.Scale), len(p.Min))
	}
	scaled := make([]float64, len(vector))
	for i, value := range vector {
		scaled[i] = value*p.Scale[i] + p.Min[i]
	}
	return scaled, nil
}
