package main

import (
	"net/http"

	"github.com/okian/medaldraft/internal/adapters/source"
	"github.com/okian/medaldraft/internal/config"
	"github.com/okian/medaldraft/pkg/logger"
)

func httpOptions(cfg *config.Config, log logger.Logger) []source.HTTPOption {
	return []source.HTTPOption{
		source.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout()}),
		source.WithUserAgent(cfg.UserAgent),
		source.WithLogger(log),
	}
}

// buildChain assembles the source order: every API endpoint, the scrape
// page, then the cache. Offline runs use the cache alone.
func buildChain(cfg *config.Config, store source.Snapshot, offline bool, log logger.Logger) *source.Chain {
	httpOpts := httpOptions(cfg, log)

	var sources []source.Source
	if !offline {
		for _, u := range cfg.APIURLs {
			sources = append(sources, source.NewAPISource(u, httpOpts...))
		}
		if cfg.ScrapeURL != "" {
			sources = append(sources, source.NewScrapeSource(cfg.ScrapeURL, httpOpts...))
		}
	}
	sources = append(sources, source.NewCacheSource(store))

	return source.NewChain(sources,
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithSnapshot(store),
		source.WithChainLogger(log),
	)
}

// buildEvents returns nil when no daily double events are configured or the
// run is offline.
func buildEvents(cfg *config.Config, offline bool, log logger.Logger) *source.EventSource {
	if offline || len(cfg.DailyDoubleEvents) == 0 {
		return nil
	}
	events := make([]source.Event, 0, len(cfg.DailyDoubleEvents))
	for _, ev := range cfg.DailyDoubleEvents {
		events = append(events, source.Event{Name: ev.Name, URL: ev.URL})
	}
	return source.NewEventSource(events, cfg.FetchTimeout(), httpOptions(cfg, log)...)
}
