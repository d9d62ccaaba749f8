package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"adpredict/preprocess"
	"adpredict/session"
)

// Predictor is what the handlers need from the orchestrator. Narrowed
// to an interface so tests can install a fake.
type Predictor interface {
	Predict(in preprocess.RawInput) (float64, error)
	State() (session.State, error)
	Session() *session.Session
}

var orchestrator Predictor

func SetOrchestrator(p Predictor) {
	orchestrator = p
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/status", handleStatus)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", handlePredict)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	if orchestrator == nil {
		http.Error(w, "orchestrator not initialized", http.StatusServiceUnavailable)
		return
	}

	state, cause := orchestrator.State()
	response := map[string]interface{}{"state": state}
	if cause != nil {
		response["error"] = cause.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type fieldSchema struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	if orchestrator == nil {
		http.Error(w, "orchestrator not initialized", http.StatusServiceUnavailable)
		return
	}
	s := orchestrator.Session()
	if s == nil {
		writeNotReady(w)
		return
	}

	numeric := func(name, label, kind string) fieldSchema {
		lo, hi, _ := s.Config.RangeHint(name)
		return fieldSchema{Name: name, Label: label, Kind: kind, Min: lo, Max: hi}
	}

	// Vocabularies are alphabetized for display only; encoding always
	// uses the stored training order.
	fields := []fieldSchema{
		numeric(preprocess.FeatureTimeOnSite, "Daily time spent on site", "number"),
		numeric(preprocess.FeatureAge, "Age", "integer"),
		numeric(preprocess.FeatureAreaIncome, "Area income", "number"),
		numeric(preprocess.FeatureInternetUsage, "Daily internet usage", "number"),
		{Name: preprocess.FeatureMale, Label: "Gender", Kind: "select", Options: []string{"Male", "Female"}},
		{Name: preprocess.FeatureCountry, Label: "Country", Kind: "select", Options: s.Config.SortedVocab(preprocess.FeatureCountry)},
		{Name: preprocess.FeatureAdTopic, Label: "Ad topic", Kind: "select", Options: s.Config.SortedVocab(preprocess.FeatureAdTopic)},
	}

	response := map[string]interface{}{
		"fields":   fields,
		"defaults": s.DefaultInput(),
	}
	if s.Config.Metrics != nil {
		response["metrics"] = s.Config.Metrics
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	if orchestrator == nil {
		http.Error(w, "orchestrator not initialized", http.StatusServiceUnavailable)
		return
	}

	var in preprocess.RawInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid input payload", http.StatusBadRequest)
		return
	}

	probability, err := orchestrator.Predict(in)
	if err != nil {
		if errors.Is(err, session.ErrNotReady) {
			writeNotReady(w)
			return
		}
		// Isolated to this attempt; the surface stays up.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewGaugeView(probability))
}

// writeNotReady emits the blocking notice for explicit requests made
// before the session is Ready, including the terminal cause once the
// session has Failed.
func writeNotReady(w http.ResponseWriter) {
	state, cause := orchestrator.State()
	notice := "session not ready"
	if state == session.StateFailed && cause != nil {
		notice = "session failed: " + cause.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"state": state,
		"error": notice,
	})
}
