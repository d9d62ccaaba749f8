package preprocess

import "fmt"

// Canonical feature names shared between the preprocessing config and
// the encoder's value map.
const (
	FeatureTimeOnSite    = "Daily Time Spent on Site"
	FeatureAge           = "Age"
	FeatureAreaIncome    = "Area Income"
	FeatureInternetUsage = "Daily Internet Usage"
	FeatureMale          = "Male"
	FeatureCountry       = "Country"
	FeatureAdTopic       = "Ad Topic"
	FeatureYear          = "Year"
	FeatureMonth         = "Month"
	FeatureWeekday       = "Weekday"

	searchQueryPrefix = "search_query_"
)

// GenderMale is the literal the binary gender indicator matches against.
const GenderMale = "Male"

// RawInput is one user-facing form state. It is transient: rebuilt on
// every interaction and never stored.
type RawInput struct {
	DailyTimeOnSite    float64 `json:"daily_time_on_site"`
	Age                float64 `json:"age"`
	AreaIncome         float64 `json:"area_income"`
	DailyInternetUsage float64 `json:"daily_internet_usage"`
	Gender             string  `json:"gender"`
	Country            string  `json:"country"`
	AdTopic            string  `json:"ad_topic"`
}

// CalendarContext is the synthetic date block fed to the model. The
// demo collects no date input, so fixed constants stand in for it; a
// real date source can replace DefaultCalendar without touching the
// encoder.
type CalendarContext struct {
	Year    float64
	Month   float64
	Weekday float64
}

// DefaultCalendar matches the typical timestamp distribution of the
// training data.
var DefaultCalendar = CalendarContext{Year: 2016, Month: 6, Weekday: 3}

// LabelCode is a tagged encoding result so diagnostics can tell a
// trained category apart from one silently coerced to the fallback.
type LabelCode struct {
	Index int
	Known bool
}

func (lc LabelCode) Value() float64 { return float64(lc.Index) }

// EncodeLabel returns the position of value in vocab. Unknown values
// encode as index 0: the demo stays responsive on unseen input at the
// cost of mapping it onto an arbitrary trained category. Intentional;
// do not turn this into an error.
func EncodeLabel(vocab []string, value string) LabelCode {
	for i, category := range vocab {
		if category == value {
			return LabelCode{Index: i, Known: true}
		}
	}
	return LabelCode{Index: 0, Known: false}
}

// SearchQueryFeature returns the name of the i-th auxiliary search
// history feature. The block is always zero-filled here; there is no
// input surface for it.
func SearchQueryFeature(i int) string {
	return fmt.Sprintf("%s%d", searchQueryPrefix, i)
}

// BuildValues maps a raw input plus the calendar context to a
// value-by-feature-name map covering every feature the config knows
// about.
func (c *Config) BuildValues(in RawInput, cal CalendarContext) map[string]float64 {
	values := make(map[string]float64, len(c.FeaturesOrder))

	values[FeatureTimeOnSite] = in.DailyTimeOnSite
	values[FeatureAge] = in.Age
	values[FeatureAreaIncome] = in.AreaIncome
	values[FeatureInternetUsage] = in.DailyInternetUsage

	if in.Gender == GenderMale {
		values[FeatureMale] = 1
	} else {
		values[FeatureMale] = 0
	}

	values[FeatureCountry] = EncodeLabel(c.Vocab(FeatureCountry), in.Country).Value()
	values[FeatureAdTopic] = EncodeLabel(c.Vocab(FeatureAdTopic), in.AdTopic).Value()

	values[FeatureYear] = cal.Year
	values[FeatureMonth] = cal.Month
	values[FeatureWeekday] = cal.Weekday

	for i := 0; i < c.NumSearchQueryFeatures; i++ {
		values[SearchQueryFeature(i)] = 0
	}

	return values
}

// AssembleVector projects the value map onto features_order. A name in
// features_order with no value indicates a config/encoder mismatch and
// is fatal.
func (c *Config) AssembleVector(values map[string]float64) ([]float64, error) {
	vector := make([]float64, len(c.FeaturesOrder))
	for i, name := range c.FeaturesOrder {
		value, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFeatureMissing, name)
		}
		vector[i] = value
	}
	return vector, nil
}

// Encode runs the full raw-input-to-ordered-vector path.
func (c *Config) Encode(in RawInput, cal CalendarContext) ([]float64, error) {
	return c.AssembleVector(c.BuildValues(in, cal))
}
