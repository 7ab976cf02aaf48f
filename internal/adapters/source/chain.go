package source

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
	"github.com/okian/medaldraft/pkg/logger"
	"github.com/okian/medaldraft/pkg/metrics"
)

// DefaultTimeout bounds a single source attempt.
const DefaultTimeout = 10 * time.Second

// Chain tries its sources in order until one yields usable records.
type Chain struct {
	sources  []Source
	snapshot Snapshot
	timeout  time.Duration
	logger   logger.Logger
}

// ChainOption applies a configuration option to the Chain.
type ChainOption func(*Chain)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSnapshot sets the store refreshed after a live success.
func WithSnapshot(s Snapshot) ChainOption {
	return func(c *Chain) {
		c.snapshot = s
	}
}

// WithChainLogger sets the chain logger.
func WithChainLogger(l logger.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain builds a chain over sources, tried in slice order.
func NewChain(sources []Source, opts ...ChainOption) *Chain {
	c := &Chain{
		sources: append([]Source(nil), sources...),
		timeout: DefaultTimeout,
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sources returns the names of the configured sources in order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// Fetch runs the chain. It never fails: when every source fails the result
// is empty and the run continues with zero medals.
func (c *Chain) Fetch(ctx context.Context) Result {
	var res Result
	for _, src := range c.sources {
		records, err := c.attempt(ctx, src)
		if err != nil {
			c.logger.Warn(ctx, "medal source failed",
				logger.String("source", src.Name()),
				logger.Error(err),
			)
			res.Failures = append(res.Failures, Attempt{Source: src.Name(), Err: err})
			continue
		}

		c.logger.Info(ctx, "medal source succeeded",
			logger.String("source", src.Name()),
			logger.Int("records", len(records)),
			logger.Bool("live", src.Live()),
		)
		if src.Live() {
			c.refresh(ctx, records)
		}

		res.Records = records
		res.Source = src.Name()
		res.Live = src.Live()
		return res
	}

	c.logger.Warn(ctx, "all medal sources exhausted; continuing with zero medals",
		logger.Int("attempts", len(res.Failures)),
	)
	return res
}

// attempt runs one source under its own timeout and keeps only valid,
// first-seen records.
func (c *Chain) attempt(ctx context.Context, src Source) ([]model.MedalRecord, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	records, err := src.Fetch(attemptCtx)
	metrics.RecordSourceFetchDuration(src.Name(), time.Since(start))
	if err == nil {
		records, err = usable(records)
	}
	if err != nil {
		metrics.RecordSourceAttempt(src.Name(), metrics.OutcomeFailure)
		return nil, err
	}
	metrics.RecordSourceAttempt(src.Name(), metrics.OutcomeSuccess)
	return records, nil
}

func (c *Chain) refresh(ctx context.Context, records []model.MedalRecord) {
	if c.snapshot == nil {
		return
	}
	if err := c.snapshot.Save(ctx, records); err != nil {
		metrics.RecordCacheWrite(metrics.OutcomeFailure)
		c.logger.Warn(ctx, "medal snapshot refresh failed", logger.Error(err))
		return
	}
	metrics.RecordCacheWrite(metrics.OutcomeSuccess)
	c.logger.Debug(ctx, "medal snapshot refreshed", logger.Int("records", len(records)))
}

// usable normalizes codes, drops invalid and repeated records, and fails
// when nothing remains.
func usable(records []model.MedalRecord) ([]model.MedalRecord, error) {
	seen := make(map[string]struct{}, len(records))
	out := make([]model.MedalRecord, 0, len(records))
	for _, r := range records {
		r.Code = registry.NormalizeCode(r.Code)
		if r.Validate() != nil {
			continue
		}
		if _, dup := seen[r.Code]; dup {
			continue
		}
		seen[r.Code] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w (%d raw records)", ErrNoData, len(records))
	}
	return out, nil
}
