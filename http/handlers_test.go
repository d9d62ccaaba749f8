package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adpredict/preprocess"
	"adpredict/session"
)

type fakeOrchestrator struct {
	probability float64
	err         error
	state       session.State
	cause       error
	sess        *session.Session
}

func (f *fakeOrchestrator) Predict(in preprocess.RawInput) (float64, error) {
	return f.probability, f.err
}

func (f *fakeOrchestrator) State() (session.State, error) {
	return f.state, f.cause
}

func (f *fakeOrchestrator) Session() *session.Session {
	return f.sess
}

func testSession() *session.Session {
	return &session.Session{
		Config: &preprocess.Config{
			LabelEncoders: map[string][]string{
				preprocess.FeatureCountry: {"Tunisia", "Nauru", "Italy"},
				preprocess.FeatureAdTopic: {"B topic", "A topic"},
			},
			FeaturesOrder: []string{preprocess.FeatureAge, preprocess.FeatureMale},
			Scaler: preprocess.ScalerParams{
				DataMin: []float64{19, 0},
				DataMax: []float64{61, 1},
				Scale:   []float64{1, 1},
				Min:     []float64{0, 0},
			},
			Metrics: &preprocess.Metrics{Accuracy: 0.958, ROCAUC: 0.987},
		},
		Calendar: preprocess.DefaultCalendar,
	}
}

func TestHandlePredict(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetOrchestrator(&fakeOrchestrator{probability: 0.873, state: session.StateReady})
	defer SetOrchestrator(nil)

	body := strings.NewReader(`{"age":30,"gender":"Male"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/predict", body)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view GaugeView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.Percent != "87.3%" || view.Class != "positive" {
		t.Fatalf("unexpected gauge: %+v", view)
	}
}

func TestHandlePredictNotReadyIsBlocking(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetOrchestrator(&fakeOrchestrator{
		err:   session.ErrNotReady,
		state: session.StateFailed,
		cause: errors.New("model unavailable: fetch status 404"),
	})
	defer SetOrchestrator(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(strings.ToLower(w.Body.String()), "model") {
		t.Fatalf("blocking notice must name the failed artifact: %s", w.Body.String())
	}
}

func TestHandlePredictBadPayload(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetOrchestrator(&fakeOrchestrator{state: session.StateReady})
	defer SetOrchestrator(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSchemaSortsVocabularies(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetOrchestrator(&fakeOrchestrator{state: session.StateReady, sess: testSession()})
	defer SetOrchestrator(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/schema", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload struct {
		Fields []fieldSchema `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	var countries []string
	for _, field := range payload.Fields {
		if field.Name == preprocess.FeatureCountry {
			countries = field.Options
		}
	}
	if len(countries) != 3 || countries[0] != "Italy" {
		t.Fatalf("expected alphabetized countries, got %v", countries)
	}
}

func TestHandleStatusReportsFailure(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetOrchestrator(&fakeOrchestrator{
		state: session.StateFailed,
		cause: errors.New("model unavailable: fetch status 404"),
	})
	defer SetOrchestrator(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["state"] != "failed" {
		t.Fatalf("unexpected state: %v", payload["state"])
	}
	if !strings.Contains(payload["error"].(string), "model") {
		t.Fatalf("unexpected error: %v", payload["error"])
	}
}
