package preprocess

import "errors"

var (
	ErrConfigUnavailable = errors.New("preprocessing config unavailable")
	ErrConfigMalformed   = errors.New("preprocessing config malformed")
	ErrFeatureMissing    = errors.New("feature missing from value map")
	ErrShapeMismatch     = errors.New("vector shape mismatch")
)
