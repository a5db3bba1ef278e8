package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"tourbook/internal/obs"
)

// DefaultDistanceMatrixURL is the Distance Matrix endpoint used when no base
// URL is configured.
const DefaultDistanceMatrixURL = "https://maps.gomaps.pro/maps/api/distancematrix/json"

// DistanceMatrixConfig configures a DistanceMatrixProvider.
type DistanceMatrixConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

// DistanceMatrixProvider implements DistanceProvider against a Google-style
// Distance Matrix API. It is safe for concurrent use.
type DistanceMatrixProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	maxAttempts int
	backoff     time.Duration
}

// NewDistanceMatrixProvider creates a provider. Outbound calls are traced
// through New Relic when the request context carries a transaction.
func NewDistanceMatrixProvider(cfg DistanceMatrixConfig) (*DistanceMatrixProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("distance matrix api key is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDistanceMatrixURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}

	return &DistanceMatrixProvider{
		session: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
		},
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
	}, nil
}

type matrixValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type matrixElement struct {
	Status   string       `json:"status"`
	Distance *matrixValue `json:"distance"`
	Duration *matrixValue `json:"duration"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

// GetDistance returns the driving distance between origin and destination.
func (p *DistanceMatrixProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (_ DistanceResult, err error) {
	defer obs.Time(ctx, "maps.GetDistance")(&err)

	origin = normalize(origin)
	destination = normalize(destination)
	if origin == "" || destination == "" {
		return DistanceResult{}, fmt.Errorf("%w: origin and destination must be non-empty", ErrRejected)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, origin, destination)
	})
	if err != nil {
		return DistanceResult{}, fmt.Errorf("distance %q -> %q: %w", origin, destination, err)
	}
	defer resp.Body.Close()

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return DistanceResult{}, fmt.Errorf("%w: decode distance matrix: %w", ErrTransient, err)
	}

	return parseMatrix(body, origin, destination)
}

func (p *DistanceMatrixProvider) newRequest(ctx context.Context, origin, destination string) (*http.Request, error) {
	q := url.Values{}
	q.Set("origins", origin)
	q.Set("destinations", destination)
	q.Set("mode", "driving")
	q.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// parseMatrix maps top-level and element statuses onto the package errors.
func parseMatrix(body matrixResponse, origin, destination string) (DistanceResult, error) {
	switch body.Status {
	case "OK":
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return DistanceResult{}, fmt.Errorf("%w: status %s: %s", ErrTransient, body.Status, body.ErrorMessage)
	default:
		return DistanceResult{}, fmt.Errorf("%w: status %s: %s", ErrRejected, body.Status, body.ErrorMessage)
	}

	if len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return DistanceResult{}, fmt.Errorf("%w: empty matrix for %q -> %q", ErrNoRoute, origin, destination)
	}

	el := body.Rows[0].Elements[0]
	if el.Status != "OK" || el.Distance == nil || el.Duration == nil {
		return DistanceResult{}, fmt.Errorf("%w: %q -> %q (%s)", ErrNoRoute, origin, destination, el.Status)
	}

	return DistanceResult{
		DistanceMeters:  el.Distance.Value,
		DurationSeconds: el.Duration.Value,
	}, nil
}
