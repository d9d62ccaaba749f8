package session

import (
	"adpredict/model"
	"adpredict/preprocess"
)

// Session is the immutable per-process context: the preprocessing
// config and the model, loaded once at startup. It is built by the
// orchestrator on a successful load and shared read-only afterwards.
type Session struct {
	Config   *preprocess.Config
	Model    model.Model
	Calendar preprocess.CalendarContext
}

// DefaultInput derives a representative form state from the config:
// numeric fields at the midpoint of their training range, categorical
// fields at the first entry of the display-sorted vocabulary. Used for
// the initial prediction and as the form's starting values.
func (s *Session) DefaultInput() preprocess.RawInput {
	in := preprocess.RawInput{Gender: preprocess.GenderMale}

	mid := func(feature string) float64 {
		lo, hi, ok := s.Config.RangeHint(feature)
		if !ok {
			return 0
		}
		return (lo + hi) / 2
	}
	in.DailyTimeOnSite = mid(preprocess.FeatureTimeOnSite)
	in.Age = mid(preprocess.FeatureAge)
	in.AreaIncome = mid(preprocess.FeatureAreaIncome)
	in.DailyInternetUsage = mid(preprocess.FeatureInternetUsage)

	if countries := s.Config.SortedVocab(preprocess.FeatureCountry); len(countries) > 0 {
		in.Country = countries[0]
	}
	if topics := s.Config.SortedVocab(preprocess.FeatureAdTopic); len(topics) > 0 {
		in.AdTopic = topics[0]
	}
	return in
}
