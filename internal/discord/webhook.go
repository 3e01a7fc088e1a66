package discord

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"premiere/internal/airtime"
	"premiere/internal/apperr"
	"premiere/internal/config"
	"premiere/internal/httpclient"
	"premiere/internal/models"
	"premiere/internal/util"
)

var NilLogger = log.New(io.Discard, "", 0)

type EmbedImage struct {
	URL string `json:"url"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Image       *EmbedImage  `json:"image,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type Message struct {
	Embeds []Embed `json:"embeds"`
}

// BuildMessage renders the new-episode embed for ep airing at local.
func BuildMessage(ep models.Episode, details models.EpisodeDetails, local time.Time, color int) Message {
	embed := Embed{
		Title: fmt.Sprintf("🚨 %s 🚨", ep.ShowTitle),
		Description: fmt.Sprintf("**New Episode**\nSeason %02d: Episode %02d: %s\nNext Air Date: %s",
			ep.Season, ep.Number, ep.EpisodeTitle, airtime.Format(local)),
		Color: color,
	}
	if details.PosterURL != "" {
		embed.Image = &EmbedImage{URL: details.PosterURL}
	}
	if details.NetworkName != "" {
		embed.Footer = &EmbedFooter{
			Text:    "Streaming on " + details.NetworkName,
			IconURL: details.NetworkLogoURL,
		}
	}
	return Message{Embeds: []Embed{embed}}
}

// Result reports what the webhook answered. Only 204 counts as delivered.
type Result struct {
	Status    int
	Delivered bool
	Body      string
}

type Notifier struct {
	http   *httpclient.Client
	cfg    config.DiscordConfig
	dryRun bool
	logger *log.Logger
}

func NewNotifier(cfg config.DiscordConfig, httpClient *httpclient.Client, dryRun bool, appLogger *log.Logger) *Notifier {
	if appLogger == nil {
		appLogger = log.Default()
	}
	return &Notifier{http: httpClient, cfg: cfg, dryRun: dryRun, logger: appLogger}
}

func (n *Notifier) Color() int {
	return n.cfg.Color
}

// Send posts msg to the webhook. Encoding and transport failures wrap
// apperr.ErrNotify. A non-204 answer is not an error; it is reported through
// Result and logged when log_failures is on.
func (n *Notifier) Send(ctx context.Context, msg Message) (Result, error) {
	title := ""
	if len(msg.Embeds) > 0 {
		title = msg.Embeds[0].Title
	}
	if n.dryRun {
		n.logger.Printf("  %s Would send %q %s", util.Cyan("[DISCORD]"), title, util.YellowBold("(DRY RUN)"))
		return Result{}, nil
	}

	headers := map[string]string{httpclient.HeaderContentType: httpclient.ContentTypeJSON}
	resp, err := n.http.Post(ctx, n.cfg.Webhook, msg, headers)
	if err != nil {
		return Result{}, fmt.Errorf("%w: not able to send notification to Discord: %w", apperr.ErrNotify, err)
	}

	result := Result{Status: resp.Status, Delivered: resp.Status == http.StatusNoContent, Body: strings.TrimSpace(string(resp.Body))}
	if result.Delivered {
		n.logger.Printf("    └─ %s Status: %s", util.Cyan("[DISCORD]"), util.Green("Sent"))
	} else if n.cfg.LogFailures {
		n.logger.Printf("    └─ %s Webhook answered %s, notification not confirmed. Body: %s",
			util.Yellow("[DISCORD]"), util.YellowBold(fmt.Sprintf("%d", resp.Status)), util.Truncate(result.Body, 200))
	}
	return result, nil
}
