// Package service runs one medal draft update: fetch medal counts, score the
// roster and publish the report.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/medaldraft/internal/adapters/report"
	"github.com/okian/medaldraft/internal/adapters/roster"
	"github.com/okian/medaldraft/internal/adapters/source"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
	"github.com/okian/medaldraft/internal/domain/scoring"
	"github.com/okian/medaldraft/pkg/logger"
	"github.com/okian/medaldraft/pkg/metrics"
)

// MedalFetcher yields the medal records of the first source that answers.
type MedalFetcher interface {
	Fetch(ctx context.Context) source.Result
}

// EventFetcher yields the results of the daily double events.
type EventFetcher interface {
	Fetch(ctx context.Context) []model.EventResult
}

// RosterLoader reads the friends and their drafted countries.
type RosterLoader interface {
	Load(ctx context.Context, path string) ([]model.Friend, error)
}

// PageWriter publishes the standings page.
type PageWriter interface {
	WriteFile(ctx context.Context, path string, standings []model.Standing, meta report.Meta) error
}

// StandingsPrinter prints a standings summary.
type StandingsPrinter interface {
	Render(standings []model.Standing, meta report.Meta) error
}

// Summary describes a completed run.
type Summary struct {
	Source     string // empty when no source answered
	Live       bool
	Records    int
	Friends    int
	Unresolved []string
	Output     string
	Standings  []model.Standing
	Events     []model.EventResult
}

// Service wires the pipeline stages.
type Service struct {
	chain    MedalFetcher
	events   EventFetcher
	roster   RosterLoader
	renderer PageWriter
	console  StandingsPrinter

	rosterPath  string
	outputPath  string
	weights     scoring.Weights
	multipliers map[string]float64
	title       string
	notes       string
	clock       func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChain sets the medal source chain.
func WithChain(c MedalFetcher) Option {
	return func(s *Service) {
		s.chain = c
	}
}

// WithEvents enables daily double bonus points.
func WithEvents(e EventFetcher) Option {
	return func(s *Service) {
		s.events = e
	}
}

// WithRoster replaces the CSV roster loader.
func WithRoster(r RosterLoader) Option {
	return func(s *Service) {
		if r != nil {
			s.roster = r
		}
	}
}

// WithRosterPath sets the roster file.
func WithRosterPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.rosterPath = path
		}
	}
}

// WithOutputPath sets the report file.
func WithOutputPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.outputPath = path
		}
	}
}

// WithWeights sets the medal weights. Invalid weights make Run fail rather
// than fall back to the defaults.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithMultipliers sets per-country point multipliers.
func WithMultipliers(m map[string]float64) Option {
	return func(s *Service) {
		s.multipliers = m
	}
}

// WithRenderer replaces the HTML page writer.
func WithRenderer(r PageWriter) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithConsole enables a standings summary after the page is written.
func WithConsole(p StandingsPrinter) Option {
	return func(s *Service) {
		s.console = p
	}
}

// WithTitle sets the report heading.
func WithTitle(title string) Option {
	return func(s *Service) {
		s.title = title
	}
}

// WithNotes sets the markdown notes shown under the standings.
func WithNotes(md string) Option {
	return func(s *Service) {
		s.notes = md
	}
}

// WithClock sets the time source for the "Updated" stamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rosterPath: "data/friends.csv",
		outputPath: "docs/index.html",
		weights:    scoring.DefaultWeights(),
		clock:      time.Now,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.roster == nil {
		s.roster = roster.NewLoader(roster.WithLogger(s.logger))
	}
	return s
}

// Run executes one update. A missing chain, invalid weights, an unreadable
// roster or a failed report write are errors; source failures degrade to zero
// medals.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s.chain == nil {
		return Summary{}, ErrNoChain
	}
	if err := s.weights.Validate(); err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrWeights, err)
	}
	renderer, err := s.pageWriter()
	if err != nil {
		return Summary{}, err
	}

	res := s.chain.Fetch(ctx)
	reg := registry.FromRecords(res.Records)
	metrics.UpdateMedalRecords(reg.Len())

	friends, err := s.roster.Load(ctx, s.rosterPath)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrRoster, err)
	}
	metrics.UpdateFriends(len(friends))

	var events []model.EventResult
	scoreOpts := []scoring.Option{scoring.WithCountryMultipliers(s.multipliers)}
	if s.events != nil {
		events = s.events.Fetch(ctx)
		bonus := registry.FromRecords(model.TallyPlacings(events))
		scoreOpts = append(scoreOpts, scoring.WithEventBonus(bonus))
		s.logger.Info(ctx, "daily double events read",
			logger.Int("events", len(events)),
			logger.Int("countries", bonus.Len()),
		)
	}

	results := scoring.Score(friends, reg, s.weights, scoreOpts...)
	standings := report.Rank(results)

	sum := Summary{
		Source:     res.Source,
		Live:       res.Live,
		Records:    reg.Len(),
		Friends:    len(friends),
		Unresolved: unresolved(results),
		Output:     s.outputPath,
		Standings:  standings,
		Events:     events,
	}
	if !res.Exhausted() && len(sum.Unresolved) > 0 {
		s.logger.Warn(ctx, "drafted countries missing from medal data",
			logger.Any("codes", sum.Unresolved),
			logger.String("source", res.Source),
		)
	}

	now := s.clock()
	meta := report.Meta{
		Title:       s.title,
		Source:      res.Source,
		Live:        res.Live,
		Updated:     now,
		Weights:     s.weights,
		Multipliers: s.multipliers,
		Notes:       s.notes,
		Events:      events,
	}
	if err := renderer.WriteFile(ctx, s.outputPath, standings, meta); err != nil {
		return sum, fmt.Errorf("%w: %w", ErrRender, err)
	}

	var top float64
	if len(standings) > 0 {
		top = standings[0].Result.Points
	}
	metrics.UpdateTopScore(top)
	metrics.UpdateLastRun(now)

	s.logger.Info(ctx, "report written",
		logger.String("output", s.outputPath),
		logger.String("source", res.Source),
		logger.Int("records", sum.Records),
		logger.Int("friends", sum.Friends),
		logger.Float64("top_score", top),
	)

	if s.console != nil {
		if err := s.console.Render(standings, meta); err != nil {
			s.logger.Warn(ctx, "console summary failed", logger.Error(err))
		}
	}
	return sum, nil
}

func (s *Service) pageWriter() (PageWriter, error) {
	if s.renderer != nil {
		return s.renderer, nil
	}
	h, err := report.NewHTML()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	s.renderer = h
	return h, nil
}

// unresolved lists drafted codes with no medal record, first mention first.
func unresolved(results []model.ScoreResult) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, r := range results {
		for _, c := range r.Countries {
			if c.Resolved {
				continue
			}
			if _, ok := seen[c.Code]; ok {
				continue
			}
			seen[c.Code] = struct{}{}
			codes = append(codes, c.Code)
		}
	}
	return codes
}
