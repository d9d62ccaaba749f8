package model

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLogisticFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	payload := `{"model_type":"logistic","bias":0.5,"weights":[1,-2,3]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader := NewLoader(time.Second)
	m, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "logistic" || m.InputWidth() != 3 {
		t.Fatalf("unexpected model: %s width %d", m.Name(), m.InputWidth())
	}
}

func TestLoadSequentialFromHTTP(t *testing.T) {
	payload := `{
		"model_type": "sequential",
		"layers": [
			{"weights": [[1, 0], [0, 1]], "bias": [0, 0], "activation": "relu"},
			{"weights": [[1, 1]], "bias": [0], "activation": "sigmoid"}
		]
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	loader := NewLoader(time.Second)
	m, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "sequential" || m.InputWidth() != 2 {
		t.Fatalf("unexpected model: %s width %d", m.Name(), m.InputWidth())
	}
}

func TestLoadNotFoundIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	loader := NewLoader(time.Second)
	_, err := loader.Load(context.Background(), server.URL)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestLoadUnsupportedType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(`{"model_type":"gbdt"}`), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loader := NewLoader(time.Second)
	_, err := loader.Load(context.Background(), path)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
