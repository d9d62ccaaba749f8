package preprocess

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

// Loader fetches the preprocessing config from a local path or an
// http(s) URL. A failed fetch or parse is terminal for the session;
// there is no retry.
type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

func (l *Loader) Load(ctx context.Context, uri string) (*Config, error) {
	data, err := l.fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfigUnavailable, uri, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
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
