package tmdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"premiere/internal/apperr"
	"premiere/internal/config"
	"premiere/internal/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	cfg := config.TMDBConfig{
		BaseURL:       baseURL,
		PosterBaseURL: "https://image.tmdb.org/t/p/w500",
		APIKey:        "key",
	}
	return NewClient(cfg, httpclient.New(time.Second, httpclient.NilLogger), NilLogger)
}

func TestShowDetailsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/95396", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
  "id": 95396,
  "name": "Severance",
  "poster_path": "/poster.jpg",
  "networks": [
    {"id": 2552, "name": "Apple TV+", "logo_path": "/apple.png"},
    {"id": 1, "name": "Second", "logo_path": "/second.png"}
  ]
}`)
	}))
	t.Cleanup(server.Close)

	details, err := newTestClient(server.URL).ShowDetails(context.Background(), 95396)
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", details.PosterURL)
	assert.Equal(t, "Apple TV+", details.NetworkName)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/apple.png", details.NetworkLogoURL)
}

func TestShowDetailsWithoutNetworks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": 1, "poster_path": null, "networks": []}`)
	}))
	t.Cleanup(server.Close)

	details, err := newTestClient(server.URL).ShowDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, details.PosterURL)
	assert.Empty(t, details.NetworkName)
	assert.Empty(t, details.NetworkLogoURL)
}

func TestShowDetailsFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{"status_code":34}`, apperr.ErrFetch},
		{"empty", http.StatusOK, ``, apperr.ErrFetch},
		{"malformed", http.StatusOK, `{"networks": [`, apperr.ErrDecode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			t.Cleanup(server.Close)

			_, err := newTestClient(server.URL).ShowDetails(context.Background(), 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestShowDetailsRequiresID(t *testing.T) {
	_, err := newTestClient("http://unused").ShowDetails(context.Background(), 0)
	assert.ErrorIs(t, err, apperr.ErrFetch)
}
