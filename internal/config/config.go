// Package config defines the job configuration and its layered loading.
//
// Conventions:
// - Defaults live in New(); Load layers file and environment on top.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error sentinels.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/medaldraft/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// FriendsFile is the roster CSV.
	FriendsFile string `koanf:"friends_file"`

	// CacheFile is the medal snapshot CSV read when live sources fail.
	CacheFile string `koanf:"cache_file"`

	// OutputFile is where the HTML report is written.
	OutputFile string `koanf:"output_file"`

	// APIURLs are tried in order before the scrape fallback.
	// MEDALS_API_URLS overrides them with a comma-separated list.
	APIURLs []string `koanf:"api_urls"`

	// ScrapeURL is the HTML medal table used when every API fails.
	ScrapeURL string `koanf:"scrape_url"`

	// FetchTimeoutMS bounds each source attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// UserAgent is sent with every outbound request.
	UserAgent string `koanf:"user_agent"`

	// ScoringWeights maps gold, silver and bronze to points.
	ScoringWeights map[string]float64 `koanf:"scoring_weights"`

	// CountryMultipliers scales the points of individual NOC codes.
	CountryMultipliers map[string]float64 `koanf:"country_multipliers"`

	// ReportTitle is the report heading.
	ReportTitle string `koanf:"report_title"`

	// ReportNotes is markdown shown under the standings.
	ReportNotes string `koanf:"report_notes"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	// DailyDoubleEvents earn bonus points for the medals they award.
	// Empty by default.
	DailyDoubleEvents []EventConfig `koanf:"daily_double_events"`
}

// EventConfig names one daily double event and its results page.
type EventConfig struct {
	Name string `koanf:"name"`
	URL  string `koanf:"url"`
}

// Default locations and endpoints.
const (
	defaultFriendsFile    = "data/friends.csv"
	defaultCacheFile      = "data/medals_cache.csv"
	defaultOutputFile     = "docs/index.html"
	defaultScrapeURL      = "https://en.wikipedia.org/wiki/2026_Winter_Olympics_medal_table"
	defaultFetchTimeoutMS = 10_000
	defaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) medaldraft/1.0"
	defaultReportTitle    = "Fantasy Olympics Medal Draft"
)

// DefaultAPIURLs are the medal endpoints tried when none are configured.
func DefaultAPIURLs() []string {
	return []string{
		"https://api.olympics.com/medals/v1/games/OWG2026/medals",
		"https://api.olympics.com/medals/v1/games/MCO2026/medals",
		"https://olympics.com/en/olympic-games/milano-cortina-2026/medals",
	}
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		FriendsFile:    defaultFriendsFile,
		CacheFile:      defaultCacheFile,
		OutputFile:     defaultOutputFile,
		APIURLs:        DefaultAPIURLs(),
		ScrapeURL:      defaultScrapeURL,
		FetchTimeoutMS: defaultFetchTimeoutMS,
		UserAgent:      defaultUserAgent,
		ScoringWeights: map[string]float64{
			"gold":   scoring.DefaultGoldWeight,
			"silver": scoring.DefaultSilverWeight,
			"bronze": scoring.DefaultBronzeWeight,
		},
		CountryMultipliers: map[string]float64{},
		ReportTitle:        defaultReportTitle,
	}
}

// FetchTimeout returns the per-attempt timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// Weights converts ScoringWeights into scoring weights.
func (c *Config) Weights() (scoring.Weights, error) {
	w, err := scoring.WeightsFromMap(c.ScoringWeights)
	if err != nil {
		return scoring.Weights{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return w, nil
}

// Validate checks the fields the run cannot proceed without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.FriendsFile) == "":
		return fmt.Errorf("%w: friends_file must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputFile) == "":
		return fmt.Errorf("%w: output_file must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.CacheFile) == "":
		return fmt.Errorf("%w: cache_file must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if _, err := c.Weights(); err != nil {
		return err
	}
	for code, f := range c.CountryMultipliers {
		if f <= 0 {
			return fmt.Errorf("%w: country_multipliers[%s] must be positive", ErrInvalidConfig, code)
		}
	}
	for i, ev := range c.DailyDoubleEvents {
		if strings.TrimSpace(ev.Name) == "" || strings.TrimSpace(ev.URL) == "" {
			return fmt.Errorf("%w: daily_double_events[%d] needs a name and a url", ErrInvalidConfig, i)
		}
	}
	return nil
}
