package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"premiere/internal/airtime"
	"premiere/internal/apperr"
	"premiere/internal/models"
	"premiere/internal/processor"
	"premiere/internal/trakt"
	"premiere/internal/util"

	"github.com/robfig/cron/v3"
)

const scheduleTagText = "[SCHEDULE]"

type Authorizer interface {
	Authorize(ctx context.Context) (map[string]string, trakt.TokenState, error)
}

type CalendarFetcher interface {
	Calendar(ctx context.Context, headers map[string]string, start string, days int) ([]models.Episode, error)
}

type EpisodeProcessor interface {
	ProcessEpisode(ctx context.Context, ep models.Episode, today string) (processor.Outcome, error)
}

type Options struct {
	Location *time.Location
	Days     int
	CronSpec string
	DryRun   bool
	Now      func() time.Time
}

type Job struct {
	auth     Authorizer
	calendar CalendarFetcher
	proc     EpisodeProcessor
	opts     Options
	logger   *log.Logger
}

func NewJob(auth Authorizer, calendar CalendarFetcher, proc EpisodeProcessor, opts Options, logger *log.Logger) *Job {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Job{auth: auth, calendar: calendar, proc: proc, opts: opts, logger: logger}
}

type Stats struct {
	Fetched  int
	NotToday int
	Notified int
	Skipped  int
	DryRun   int
}

// RunOnce performs one full pass. A returned error is fatal: bad token,
// calendar failure or an unparseable air time. Per-episode problems are only
// counted in Stats.
func (j *Job) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	headers, state, err := j.auth.Authorize(ctx)
	if err != nil {
		return stats, err
	}
	j.logger.Printf("%s Token state: %s", util.Green("[INFO]"), state)

	today := airtime.Today(j.opts.Now(), j.opts.Location)
	episodes, err := j.calendar.Calendar(ctx, headers, today, j.opts.Days)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(episodes)

	for _, ep := range episodes {
		outcome, err := j.proc.ProcessEpisode(ctx, ep, today)
		if err != nil {
			return stats, err
		}
		switch {
		case outcome == processor.OutcomeNotToday:
			stats.NotToday++
		case outcome == processor.OutcomeNotified:
			stats.Notified++
		case outcome == processor.OutcomeDryRun:
			stats.DryRun++
		case outcome.Skipped():
			stats.Skipped++
		}
	}

	j.logStats(stats)
	return stats, nil
}

func (j *Job) logStats(stats Stats) {
	statsParts := []string{
		"Fetched: " + util.BlueBold(strconv.Itoa(stats.Fetched)),
		"Notified: " + util.GreenBold(strconv.Itoa(stats.Notified)),
		"Not Today: " + util.Gray(strconv.Itoa(stats.NotToday)),
	}
	if stats.Skipped > 0 {
		statsParts = append(statsParts, "Skipped: "+util.YellowBold(strconv.Itoa(stats.Skipped)))
	}
	if stats.DryRun > 0 {
		statsParts = append(statsParts, "Dry Run: "+util.YellowBold(strconv.Itoa(stats.DryRun)))
	}
	j.logger.Println()
	j.logger.Printf("%s %s", util.Cyan("[Run Stats]"), strings.Join(statsParts, " | "))
	if j.opts.DryRun {
		j.logger.Printf("  %s", util.YellowBold("(Dry Run - No notifications sent)"))
	}
	if stats.Skipped > 0 {
		j.logger.Println(util.Yellow("  Run completed with some skipped episodes."))
	} else {
		j.logger.Println(util.Green("  Run completed successfully."))
	}
}

// Run performs a single pass when no cron spec is configured. Otherwise it
// runs once immediately, then on every cron tick until ctx is cancelled.
// In cron mode a fatal run is logged and the next tick tries again.
func (j *Job) Run(ctx context.Context) error {
	if j.opts.CronSpec == "" {
		j.logger.Println()
		j.logger.Println(util.BlueBold("--- Single Run Mode ---"))
		_, err := j.RunOnce(ctx)
		return err
	}

	schedulerTagColored := util.YellowBold(scheduleTagText)
	c := cron.New(
		cron.WithLocation(j.opts.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(j.opts.CronSpec, func() {
		runStartTime := time.Now()
		j.logger.Printf("\n%s ----- Scheduled Run Starting (%s) -----",
			schedulerTagColored, runStartTime.Format("2006-01-02 15:04:05"))
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Printf("%s %s %v", schedulerTagColored, util.RedBold("!!! Run aborted:"), err)
		}
		j.logger.Printf("%s ----- Scheduled Run Finished (Duration: %s) -----",
			schedulerTagColored, time.Since(runStartTime).Round(time.Millisecond))
	})
	if err != nil {
		return fmt.Errorf("%w: invalid cron spec %q: %w", apperr.ErrConfig, j.opts.CronSpec, err)
	}

	j.logger.Println(util.BlueBold("\n--- Scheduler Mode ---"))
	j.logger.Printf("%s Cron Spec: %s.", schedulerTagColored, util.Yellow(j.opts.CronSpec))
	j.logger.Printf("%s Performing initial run...", schedulerTagColored)
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Printf("%s %s %v", schedulerTagColored, util.RedBold("!!! Initial run aborted:"), err)
	}

	j.logger.Printf("%s Scheduler active. Waiting for next run...", schedulerTagColored)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	j.logger.Printf("%s Scheduler stopped.", schedulerTagColored)
	return nil
}
