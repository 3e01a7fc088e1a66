package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"premiere/internal/apperr"
	"premiere/internal/config"
	"premiere/internal/httpclient"
	"premiere/internal/models"
	"premiere/internal/util"
)

var NilLogger = log.New(io.Discard, "", 0)

// IDs holds the external identifiers Trakt attaches to a show.
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

type Show struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	IDs   IDs    `json:"ids"`
}

type Episode struct {
	Season int    `json:"season"`
	Number int    `json:"number"`
	Title  string `json:"title"`
	IDs    IDs    `json:"ids"`
}

// CalendarEntry is one element of /calendars/my/shows.
type CalendarEntry struct {
	FirstAired string  `json:"first_aired"`
	Episode    Episode `json:"episode"`
	Show       Show    `json:"show"`
}

func (e CalendarEntry) toModel() models.Episode {
	return models.Episode{
		ShowID:       e.Show.IDs.TMDB,
		ShowTitle:    e.Show.Title,
		EpisodeTitle: e.Episode.Title,
		Season:       e.Episode.Season,
		Number:       e.Episode.Number,
		FirstAired:   e.FirstAired,
	}
}

type Client struct {
	http   *httpclient.Client
	cfg    config.TraktConfig
	logger *log.Logger
}

func NewClient(cfg config.TraktConfig, httpClient *httpclient.Client, appLogger *log.Logger) *Client {
	if appLogger == nil {
		appLogger = log.Default()
	}
	return &Client{http: httpClient, cfg: cfg, logger: appLogger}
}

func (c *Client) GetLogger() *log.Logger {
	if c.logger == nil {
		return NilLogger
	}
	return c.logger
}

func (c *Client) SetLogger(logger *log.Logger) {
	if logger == nil {
		c.logger = NilLogger
	} else {
		c.logger = logger
	}
}

// Headers builds the header bundle every authenticated Trakt call carries.
func (c *Client) Headers(accessToken string) map[string]string {
	return map[string]string{
		"Authorization":     "Bearer " + accessToken,
		"trakt-api-version": c.cfg.APIVersion,
		"trakt-api-key":     c.cfg.ClientID,
	}
}

// RefreshToken exchanges refreshToken for a new token payload. The payload is
// returned as a raw document so every provider field can be persisted.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (map[string]any, error) {
	form := map[string]string{
		"refresh_token": refreshToken,
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"grant_type":    "refresh_token",
	}
	resp, err := c.http.Post(ctx, c.cfg.BaseURL+"/oauth/token", form, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh request: %w", apperr.ErrToken, err)
	}
	if resp.Status != http.StatusOK || resp.IsEmpty() {
		return nil, fmt.Errorf("%w: refresh failed. Status: %d, Body: %s",
			apperr.ErrToken, resp.Status, util.Truncate(string(resp.Body), 200))
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		if err == nil {
			err = fmt.Errorf("payload is not a JSON object")
		}
		return nil, fmt.Errorf("%w: not able to read access token: %w", apperr.ErrToken, err)
	}
	if access, _ := payload["access_token"].(string); access == "" {
		return nil, fmt.Errorf("%w: refresh response has no access_token", apperr.ErrToken)
	}
	return payload, nil
}

// Calendar lists the user's episodes airing from start for days days.
// Any failure here is fatal to the run.
func (c *Client) Calendar(ctx context.Context, headers map[string]string, start string, days int) ([]models.Episode, error) {
	url := fmt.Sprintf("%s/calendars/my/shows/%s/%s", c.cfg.BaseURL, start, strconv.Itoa(days))
	c.GetLogger().Printf("  %s Pulling TV shows airing %s (+%d days)...", util.Cyan("[TRAKT]"), start, days)

	resp, err := c.http.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: calendar request: %w", apperr.ErrFetch, err)
	}
	if resp.Status != http.StatusOK || resp.IsEmpty() {
		return nil, fmt.Errorf("%w: error while pulling episodes from Trakt. Status: %d, Body: %s",
			apperr.ErrFetch, resp.Status, util.Truncate(string(resp.Body), 200))
	}

	var entries []CalendarEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("%w: not able to read episodes payload from Trakt: %w", apperr.ErrDecode, err)
	}

	episodes := make([]models.Episode, 0, len(entries))
	for _, entry := range entries {
		episodes = append(episodes, entry.toModel())
	}
	c.GetLogger().Printf("  %s Calendar returned %s episode(s).", util.Cyan("[TRAKT]"), util.GreenBold(strconv.Itoa(len(episodes))))
	return episodes, nil
}
