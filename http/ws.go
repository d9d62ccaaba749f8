package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"adpredict/preprocess"
	"adpredict/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type predictFrame struct {
	Input preprocess.RawInput `json:"input"`
}

type gaugeFrame struct {
	Type  string     `json:"type"`
	Gauge *GaugeView `json:"gauge,omitempty"`
	Error string     `json:"error,omitempty"`
}

// RegisterWSHandlers wires the live predict channel. Each incoming
// frame is one form edit and triggers an independent pipeline run; no
// debouncing, the client just renders whatever frame arrives last.
func RegisterWSHandlers(mux *http.ServeMux, logger *zap.Logger) {
	mux.HandleFunc("GET /api/ws/predict", func(w http.ResponseWriter, r *http.Request) {
		handlePredictWS(w, r, logger)
	})
}

func handlePredictWS(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	if orchestrator == nil {
		http.Error(w, "orchestrator not initialized", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var frame predictFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		probability, err := orchestrator.Predict(frame.Input)
		var out gaugeFrame
		switch {
		case errors.Is(err, session.ErrNotReady):
			// Passive trigger: warn-and-continue, no blocking notice.
			out = gaugeFrame{Type: "not_ready", Error: "session not ready"}
		case err != nil:
			out = gaugeFrame{Type: "error", Error: err.Error()}
		default:
			gauge := NewGaugeView(probability)
			out = gaugeFrame{Type: "gauge", Gauge: &gauge}
		}

		if err := conn.WriteJSON(out); err != nil {
			logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}
