package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"adpredict/preprocess"
	"adpredict/session"
)

func dialPredictWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws/predict"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func TestPredictWSRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	RegisterWSHandlers(mux, zap.NewNop())
	SetOrchestrator(&fakeOrchestrator{probability: 0.873, state: session.StateReady})
	defer SetOrchestrator(nil)

	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialPredictWS(t, server)
	defer conn.Close()

	if err := conn.WriteJSON(predictFrame{Input: preprocess.RawInput{Age: 30}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var frame gaugeFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if frame.Type != "gauge" || frame.Gauge == nil || frame.Gauge.Percent != "87.3%" {
		t.Fatalf("unexpected frame: %+v", frame)
	}
}

func TestPredictWSRapidFrames(t *testing.T) {
	mux := http.NewServeMux()
	RegisterWSHandlers(mux, zap.NewNop())
	SetOrchestrator(&fakeOrchestrator{probability: 0.2, state: session.StateReady})
	defer SetOrchestrator(nil)

	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialPredictWS(t, server)
	defer conn.Close()

	// Every edit is an independent pipeline run; each gets a reply.
	for i := 0; i < 20; i++ {
		if err := conn.WriteJSON(predictFrame{Input: preprocess.RawInput{Age: float64(20 + i)}}); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}
	for i := 0; i < 20; i++ {
		var frame gaugeFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if frame.Type != "gauge" {
			t.Fatalf("frame %d: unexpected type %q", i, frame.Type)
		}
	}
}

func TestPredictWSNotReady(t *testing.T) {
	mux := http.NewServeMux()
	RegisterWSHandlers(mux, zap.NewNop())
	SetOrchestrator(&fakeOrchestrator{err: session.ErrNotReady, state: session.StateLoading})
	defer SetOrchestrator(nil)

	server := httptest.NewServer(mux)
	defer server.Close()

	conn := dialPredictWS(t, server)
	defer conn.Close()

	if err := conn.WriteJSON(predictFrame{}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var frame gaugeFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if frame.Type != "not_ready" {
		t.Fatalf("expected not_ready frame, got %+v", frame)
	}
}
