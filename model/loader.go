package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type artifact struct {
	ModelType string    `json:"model_type"`
	Bias      float64   `json:"bias"`
	Weights   []float64 `json:"weights"`
	Layers    []Layer   `json:"layers"`
}

// Loader fetches a serialized model artifact from a local path or an
// http(s) URL. Like the preprocessing config, a load failure is
// terminal for the session.
type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

func (l *Loader) Load(ctx context.Context, uri string) (Model, error) {
	data, err := l.fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var raw artifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrModelUnavailable, uri, err)
	}

	switch raw.ModelType {
	case "logistic":
		if len(raw.Weights) == 0 {
			return nil, fmt.Errorf("%w: logistic artifact has no weights", ErrModelUnavailable)
		}
		return &Logistic{Bias: raw.Bias, Weights: raw.Weights}, nil
	case "sequential":
		return NewSequential(raw.Layers)
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrModelUnavailable, raw.ModelType)
	}
}

func (l *Loader) fetch(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", uri, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(uri)
}
