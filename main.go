package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"premiere/internal/airtime"
	"premiere/internal/apperr"
	"premiere/internal/config"
	"premiere/internal/discord"
	"premiere/internal/httpclient"
	"premiere/internal/logging"
	"premiere/internal/processor"
	"premiere/internal/scheduler"
	"premiere/internal/tmdb"
	"premiere/internal/trakt"
	"premiere/internal/util"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)

	if err := newRootCommand().Execute(); err != nil {
		log.Printf("%s [%s] %v", util.RedBold("!!! FATAL"), apperr.KindOf(err), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath, tokenPath string
	var dryRun bool

	cmd := &cobra.Command{
		Use:           "premiere",
		Short:         "Post a Discord alert for every Trakt calendar episode airing today",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, afero.NewOsFs(), configPath, tokenPath, dryRun)
		},
	}

	baseDir := executableDir()
	cmd.Flags().StringVarP(&configPath, "config", "c", filepath.Join(baseDir, "config.json"), "Configuration file path")
	cmd.Flags().StringVarP(&tokenPath, "token", "t", filepath.Join(baseDir, "token.json"), "Trakt OAuth token file path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build notifications without posting them")
	return cmd
}

func run(ctx context.Context, fs afero.Fs, configPath, tokenPath string, dryRun bool) error {
	appConfig, err := config.Load(fs, configPath)
	if err != nil {
		return err
	}
	if dryRun {
		appConfig.DryRun = true
	}

	closer, err := logging.Setup(logging.Options{
		File:       appConfig.Log.File,
		MaxSizeMB:  appConfig.Log.MaxSizeMB,
		MaxBackups: appConfig.Log.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("%w: log file: %w", apperr.ErrConfig, err)
	}
	defer closer.Close()

	location, err := airtime.LoadLocation(appConfig.Timezone)
	if err != nil {
		return err
	}

	log.Println(util.BlueBold("--- Premiere: Trakt Episode Notifier ---"))
	if appConfig.DryRun {
		log.Println(util.YellowBold(" *** DRY RUN MODE ENABLED ***"))
	}

	appBaseLogger := log.Default()
	httpClient := httpclient.New(appConfig.Timeout(), appBaseLogger)
	traktClient := trakt.NewClient(appConfig.Trakt, httpClient, appBaseLogger)
	tmdbClient := tmdb.NewClient(appConfig.TMDB, httpClient, appBaseLogger)
	notifier := discord.NewNotifier(appConfig.Discord, httpClient, appConfig.DryRun, appBaseLogger)

	job := scheduler.NewJob(
		trakt.NewRefresher(traktClient, fs, tokenPath),
		traktClient,
		processor.New(tmdbClient, notifier, location, appConfig.DryRun, appBaseLogger),
		scheduler.Options{
			Location: location,
			Days:     appConfig.Trakt.Days,
			CronSpec: appConfig.Schedule.CronSpec,
			DryRun:   appConfig.DryRun,
		},
		appBaseLogger,
	)
	if err := job.Run(ctx); err != nil {
		return err
	}
	log.Println("Finished")
	return nil
}

// executableDir is where config.json and token.json live by default.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
