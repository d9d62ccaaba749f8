package preprocess

import (
	"fmt"
	"sort"
)

// Config holds the preprocessing parameters fitted at training time.
// It is loaded once at startup and never mutated afterwards; encoding
// must use the vocabularies exactly as stored, since a category's
// position in its vocabulary is its encoded value.
type Config struct {
	LabelEncoders          map[string][]string `json:"label_encoders"`
	FeaturesOrder          []string            `json:"features_order"`
	Scaler                 ScalerParams        `json:"scaler"`
	NumSearchQueryFeatures int                 `json:"num_search_query_features"`
	Metrics                *Metrics            `json:"metrics,omitempty"`
}

// ScalerParams carries the fitted min-max transform. Scale and Min are
// the pair actually applied at inference; DataMin and DataMax are kept
// only as range hints for input controls.
type ScalerParams struct {
	DataMin []float64 `json:"data_min"`
	DataMax []float64 `json:"data_max"`
	Scale   []float64 `json:"scale"`
	Min     []float64 `json:"min"`
}

type Metrics struct {
	Accuracy float64 `json:"accuracy"`
	ROCAUC   float64 `json:"roc_auc"`
}

func (c *Config) Validate() error {
	if len(c.LabelEncoders) == 0 {
		return fmt.Errorf("%w: label_encoders is empty", ErrConfigMalformed)
	}
	if len(c.FeaturesOrder) == 0 {
		return fmt.Errorf("%w: features_order is empty", ErrConfigMalformed)
	}
	if c.NumSearchQueryFeatures < 0 {
		return fmt.Errorf("%w: num_search_query_features is negative", ErrConfigMalformed)
	}
	n := len(c.FeaturesOrder)
	if len(c.Scaler.Scale) != n || len(c.Scaler.Min) != n {
		return fmt.Errorf("%w: scaler arrays scale=%d min=%d, want %d",
			ErrConfigMalformed, len(c.Scaler.Scale), len(c.Scaler.Min), n)
	}
	if len(c.Scaler.DataMin) != n || len(c.Scaler.DataMax) != n {
		return fmt.Errorf("%w: scaler arrays data_min=%d data_max=%d, want %d",
			ErrConfigMalformed, len(c.Scaler.DataMin), len(c.Scaler.DataMax), n)
	}
	seen := make(map[string]bool, n)
	for _, name := range c.FeaturesOrder {
		if seen[name] {
			return fmt.Errorf("%w: duplicate feature %q in features_order", ErrConfigMalformed, name)
		}
		seen[name] = true
	}
	for feature, vocab := range c.LabelEncoders {
		categories := make(map[string]bool, len(vocab))
		for _, category := range vocab {
			if categories[category] {
				return fmt.Errorf("%w: duplicate category %q in encoder %q", ErrConfigMalformed, category, feature)
			}
			categories[category] = true
		}
	}
	return nil
}

// Vocab returns the stored vocabulary for a categorical feature, in
// training order.
func (c *Config) Vocab(feature string) []string {
	return c.LabelEncoders[feature]
}

// SortedVocab returns an alphabetized copy for display. Encoding must
// never use this copy: sorting changes indices.
func (c *Config) SortedVocab(feature string) []string {
	vocab := c.LabelEncoders[feature]
	if vocab == nil {
		return nil
	}
	sorted := make([]string, len(vocab))
	copy(sorted, vocab)
	sort.Strings(sorted)
	return sorted
}

// RangeHint returns the observed training range for a feature, for UI
// slider bounds. ok is false when the feature is not in features_order.
func (c *Config) RangeHint(feature string) (min, max float64, ok bool) {
	for i, name := range c.FeaturesOrder {
		if name == feature {
			return c.Scaler.DataMin[i], c.Scaler.DataMax[i], true
		}
	}
	return 0, 0, false
}
