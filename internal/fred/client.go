package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fcigcli/internal/config"
)

// GDPGrowthSeriesID is the FRED identifier for real GDP growth, the
// seasonally adjusted annualized quarter-over-quarter percent change.
const GDPGrowthSeriesID = "A191RL1Q225SBEA"

// Observation is one dated value of a FRED series.
type Observation struct {
	Date  time.Time
	Value float64
}

// Client fetches series observations from the FRED API. Requests are rate
// limited to stay under the API's per-key quota.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a FRED API client from configuration.
func NewClient(cfg config.FredConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("fred: api key is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger.With(slog.String("component", "fred_client")),
	}, nil
}

// observationsResponse mirrors the /fred/series/observations JSON payload.
type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// SeriesObservations fetches all observations for a series. Observations
// the API reports as missing (value ".") are skipped.
func (c *Client) SeriesObservations(ctx context.Context, seriesID string) ([]Observation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fred: rate limit wait: %w", err)
	}

	endpoint := c.baseURL + "/fred/series/observations"
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("fred: build request: %w", err)
	}

	c.logger.InfoContext(ctx, "fetching series observations",
		slog.String("series_id", seriesID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred: unexpected status %d for series %s", resp.StatusCode, seriesID)
	}

	var payload observationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fred: decode response: %w", err)
	}

	observations := make([]Observation, 0, len(payload.Observations))
	skipped := 0
	for _, obs := range payload.Observations {
		if obs.Value == "." {
			skipped++
			continue
		}
		date, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			return nil, fmt.Errorf("fred: parse date %q: %w", obs.Date, err)
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("fred: parse value %q: %w", obs.Value, err)
		}
		observations = append(observations, Observation{Date: date, Value: value})
	}

	c.logger.InfoContext(ctx, "fetched series observations",
		slog.String("series_id", seriesID),
		slog.Int("count", len(observations)),
		slog.Int("skipped_missing", skipped))

	return observations, nil
}
