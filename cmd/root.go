package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/medaldraft/internal/adapters/report"
	"github.com/okian/medaldraft/internal/adapters/roster"
	"github.com/okian/medaldraft/internal/adapters/snapshot"
	app "github.com/okian/medaldraft/internal/app"
	"github.com/okian/medaldraft/internal/config"
	"github.com/okian/medaldraft/pkg/logger"
	"github.com/okian/medaldraft/pkg/metrics"
	"github.com/spf13/cobra"
)

var version = "dev"

// rootOptions holds flag values; set flags override file and env config.
type rootOptions struct {
	configPath string
	friends    string
	cache      string
	output     string
	logLevel   string
	offline    bool
	quiet      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "medaldraft",
		Short: "Score a fantasy Olympic medal draft and publish the standings",
		Long: `medaldraft fetches current Olympic medal counts, scores each friend's
drafted countries and writes a static HTML standings page.

Medal sources are tried in order: the configured API endpoints, the
Wikipedia medal table, then the local cache. The run succeeds whichever
source answers, and with zero medals when none does.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML config file (default $MEDALS_CONFIG)")
	f.StringVar(&opts.friends, "friends", "", "roster CSV path")
	f.StringVar(&opts.cache, "cache", "", "medal cache CSV path")
	f.StringVar(&opts.output, "output", "", "HTML report path")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	f.BoolVar(&opts.offline, "offline", false, "use only the local medal cache")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the standings summary")
	return cmd
}

// apply overrides cfg with the flags the user set.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("friends") {
		cfg.FriendsFile = o.friends
	}
	if set("cache") {
		cfg.CacheFile = o.cache
	}
	if set("output") {
		cfg.OutputFile = o.output
	}
	if set("log-level") {
		cfg.LogLevel = o.logLevel
	}
}

func run(ctx context.Context, cmd *cobra.Command, opts *rootOptions) error {
	if err := logger.Init(); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, config.WithFile(opts.configPath))
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Get().With(logger.String("run_id", uuid.NewString()))
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	weights, err := cfg.Weights()
	if err != nil {
		return err
	}

	store := snapshot.New(cfg.CacheFile, snapshot.WithLogger(log))
	chain := buildChain(cfg, store, opts.offline, log)
	log.Info(ctx, "starting medal draft update",
		logger.Any("sources", chain.Sources()),
		logger.String("friends_file", cfg.FriendsFile),
		logger.String("output_file", cfg.OutputFile),
	)

	svcOpts := []app.Option{
		app.WithLogger(log),
		app.WithChain(chain),
		app.WithRoster(roster.NewLoader(roster.WithLogger(log))),
		app.WithRosterPath(cfg.FriendsFile),
		app.WithOutputPath(cfg.OutputFile),
		app.WithWeights(weights),
		app.WithMultipliers(cfg.CountryMultipliers),
		app.WithTitle(cfg.ReportTitle),
		app.WithNotes(cfg.ReportNotes),
	}
	if events := buildEvents(cfg, opts.offline, log); events != nil {
		svcOpts = append(svcOpts, app.WithEvents(events))
	}
	if !opts.quiet {
		svcOpts = append(svcOpts, app.WithConsole(report.NewConsole(cmd.OutOrStdout())))
	}

	_, runErr := app.New(svcOpts...).Run(ctx)

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "metrics export failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
	return runErr
}
