package timesync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
)

// maxResponseSize caps the time service response body.
const maxResponseSize = 1 << 10

// Source returns the current time as a timestamp string.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPSource fetches a strftime-formatted timestamp over HTTP.
type HTTPSource struct {
	client *http.Client
	url    string
}

// NewHTTPSource builds a source from config. The {user} and {key}
// placeholders in the URL are replaced with the configured credentials.
func NewHTTPSource(cfg config.TimeConfig) *HTTPSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	replacer := strings.NewReplacer(
		"{user}", url.PathEscape(cfg.Username),
		"{key}", url.QueryEscape(cfg.Key),
	)
	return &HTTPSource{
		client: &http.Client{Timeout: timeout},
		url:    replacer.Replace(cfg.URL),
	}
}

// Fetch performs one request and returns the trimmed body.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %w", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrFetchFailed, err)
	}

	return strings.TrimSpace(string(body)), nil
}

// Sync fetches, parses and applies one timestamp.
func Sync(ctx context.Context, src Source, clock *Clock) (Fields, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return Fields{}, err
	}
	fields, err := ParseTimestamp(raw)
	if err != nil {
		return Fields{}, err
	}
	clock.SetFields(fields)
	return fields, nil
}
