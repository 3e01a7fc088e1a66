package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"premiere/internal/apperr"
	"premiere/internal/config"
	"premiere/internal/httpclient"
	"premiere/internal/models"
	"premiere/internal/util"
)

var NilLogger = log.New(io.Discard, "", 0)

type Network struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path"`
}

// Show is the subset of the TV details payload used for notifications.
type Show struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	PosterPath string    `json:"poster_path"`
	Networks   []Network `json:"networks"`
}

type Client struct {
	http   *httpclient.Client
	cfg    config.TMDBConfig
	logger *log.Logger
}

func NewClient(cfg config.TMDBConfig, httpClient *httpclient.Client, appLogger *log.Logger) *Client {
	if appLogger == nil {
		appLogger = log.Default()
	}
	return &Client{http: httpClient, cfg: cfg, logger: appLogger}
}

// ShowDetails fetches the show and resolves poster and network artwork into
// full URLs. Failures wrap apperr.ErrFetch or apperr.ErrDecode; callers skip
// the episode rather than abort.
func (c *Client) ShowDetails(ctx context.Context, showID int) (models.EpisodeDetails, error) {
	var details models.EpisodeDetails
	if showID <= 0 {
		return details, fmt.Errorf("%w: episode has no TMDB id", apperr.ErrFetch)
	}

	c.logger.Printf("  %s Pulling poster and network for show %s...", util.Purple("[TMDB]"), util.Yellow(strconv.Itoa(showID)))
	endpoint := fmt.Sprintf("%s/%s?api_key=%s", c.cfg.BaseURL, strconv.Itoa(showID), url.QueryEscape(c.cfg.APIKey))
	resp, err := c.http.Get(ctx, endpoint, nil)
	if err != nil {
		return details, fmt.Errorf("%w: show %d: %w", apperr.ErrFetch, showID, err)
	}
	if resp.Status != http.StatusOK || resp.IsEmpty() {
		return details, fmt.Errorf("%w: show %d. Status: %d, Body: %s",
			apperr.ErrFetch, showID, resp.Status, util.Truncate(string(resp.Body), 200))
	}

	var show Show
	if err := json.Unmarshal(resp.Body, &show); err != nil {
		return details, fmt.Errorf("%w: not able to read show %d details: %w", apperr.ErrDecode, showID, err)
	}

	if show.PosterPath != "" {
		details.PosterURL = c.assetURL(show.PosterPath)
	}
	if len(show.Networks) > 0 {
		details.NetworkName = show.Networks[0].Name
		if show.Networks[0].LogoPath != "" {
			details.NetworkLogoURL = c.assetURL(show.Networks[0].LogoPath)
		}
	}
	return details, nil
}

func (c *Client) assetURL(path string) string {
	return c.cfg.PosterBaseURL + path
}
