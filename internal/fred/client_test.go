package fred

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fcigcli/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.FredConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		RateLimitRPS: 100,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestSeriesObservations(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		assert.Equal(t, GDPGrowthSeriesID, r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"observations":[
			{"date":"2020-01-01","value":"-1.3"},
			{"date":"2020-04-01","value":"."},
			{"date":"2020-07-01","value":"33.8"}
		]}`))
	})

	obs, err := client.SeriesObservations(context.Background(), GDPGrowthSeriesID)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), obs[0].Date)
	assert.Equal(t, -1.3, obs[0].Value)
	assert.Equal(t, 33.8, obs[1].Value)
}

func TestSeriesObservations_ServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusBadRequest)
	})

	_, err := client.SeriesObservations(context.Background(), GDPGrowthSeriesID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 400")
}

func TestSeriesObservations_BadValue(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"observations":[{"date":"2020-01-01","value":"n/a"}]}`))
	})

	_, err := client.SeriesObservations(context.Background(), GDPGrowthSeriesID)
	require.Error(t, err)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.FredConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
