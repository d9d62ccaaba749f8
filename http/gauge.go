package http

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Threshold is the decision boundary for the gauge's styling class.
// Exactly 0.5 classifies as negative; only strictly above is positive.
const Threshold = 0.5

// GaugeView is everything the browser needs to render one prediction:
// the ring fill fraction, the percent label, and the styling class.
// It is a pure presentation value; building one cannot fail.
type GaugeView struct {
	Probability float64 `json:"probability"`
	Fill        float64 `json:"fill"`
	Percent     string  `json:"percent"`
	Class       string  `json:"class"`
}

var percentPrinter = message.NewPrinter(language.English)

func NewGaugeView(probability float64) GaugeView {
	class := "negative"
	if probability > Threshold {
		class = "positive"
	}
	return GaugeView{
		Probability: probability,
		Fill:        probability,
		Percent:     percentPrinter.Sprintf("%.1f%%", probability*100),
		Class:       class,
	}
}
