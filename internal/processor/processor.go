package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"premiere/internal/airtime"
	"premiere/internal/discord"
	"premiere/internal/models"
	"premiere/internal/util"
)

var procNilLogger = log.New(io.Discard, "", 0)

type Outcome int

const (
	OutcomeNotToday Outcome = iota
	OutcomeNoMetadata
	OutcomeNotified
	OutcomeUndelivered
	OutcomeNotifyFailed
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotToday:
		return "not airing today"
	case OutcomeNoMetadata:
		return "no metadata"
	case OutcomeNotified:
		return "notified"
	case OutcomeUndelivered:
		return "undelivered"
	case OutcomeNotifyFailed:
		return "notify failed"
	case OutcomeDryRun:
		return "dry run"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Skipped reports whether the episode was dropped because of a recoverable
// failure, as opposed to simply not airing today.
func (o Outcome) Skipped() bool {
	return o == OutcomeNoMetadata || o == OutcomeUndelivered || o == OutcomeNotifyFailed
}

type Enricher interface {
	ShowDetails(ctx context.Context, showID int) (models.EpisodeDetails, error)
}

type Notifier interface {
	Send(ctx context.Context, msg discord.Message) (discord.Result, error)
	Color() int
}

type Processor struct {
	enricher Enricher
	notifier Notifier
	location *time.Location
	dryRun   bool
	logger   *log.Logger
}

func New(enricher Enricher, notifier Notifier, location *time.Location, dryRun bool, logger *log.Logger) *Processor {
	if logger == nil {
		logger = procNilLogger
	}
	return &Processor{enricher: enricher, notifier: notifier, location: location, dryRun: dryRun, logger: logger}
}

// ProcessEpisode runs one calendar entry through filter, enrich and notify.
// The only error it returns is a timestamp/timezone failure, which is fatal
// to the run; every other problem is reported as an Outcome.
func (p *Processor) ProcessEpisode(ctx context.Context, ep models.Episode, today string) (Outcome, error) {
	local, err := airtime.ToLocal(ep.FirstAired, p.location)
	if err != nil {
		p.logger.Printf("  %s Not able to convert air time for %s: %v", util.RedBold("!!! ERROR"), ep.ShowTitle, err)
		return OutcomeNotToday, fmt.Errorf("episode %q S%02dE%02d: %w", ep.ShowTitle, ep.Season, ep.Number, err)
	}

	if !airtime.SameDay(local, today) {
		p.logger.Printf("  %s %s S%02dE%02d airs %s, not today. Skipping...",
			util.Gray("[SKIP]"), ep.ShowTitle, ep.Season, ep.Number, local.Format(airtime.DateLayout))
		return OutcomeNotToday, nil
	}

	p.logger.Println()
	p.logger.Printf("  %s%s", util.BlueBold("Processing: "), ep.ShowTitle)

	details, err := p.enricher.ShowDetails(ctx, ep.ShowID)
	if err != nil {
		p.logger.Printf("  %s Not able to pull poster and network info, skipping: %v", util.Yellow("[TMDB]"), err)
		return OutcomeNoMetadata, nil
	}

	msg := discord.BuildMessage(ep, details, local, p.notifier.Color())
	result, err := p.notifier.Send(ctx, msg)
	if err != nil {
		p.logger.Printf("  %s %v. Skipping...", util.RedBold("[DISCORD]"), err)
		return OutcomeNotifyFailed, nil
	}
	if p.dryRun {
		return OutcomeDryRun, nil
	}
	if !result.Delivered {
		return OutcomeUndelivered, nil
	}
	return OutcomeNotified, nil
}
