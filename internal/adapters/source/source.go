// Package source implements the medal data source chain: remote API
// endpoints, an HTML scrape and the local snapshot, tried in order.
package source

import (
	"context"

	"github.com/okian/medaldraft/internal/domain/model"
)

// Source is one strategy for acquiring medal records.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Live reports whether a success should refresh the snapshot.
	Live() bool
	// Fetch returns the records the source currently reports.
	Fetch(ctx context.Context) ([]model.MedalRecord, error)
}

// Snapshot is the persisted copy of the last live fetch.
type Snapshot interface {
	Load(ctx context.Context) ([]model.MedalRecord, error)
	Save(ctx context.Context, records []model.MedalRecord) error
}

// Attempt records one failed source.
type Attempt struct {
	Source string
	Err    error
}

// Result is the outcome of a chain run.
type Result struct {
	Records  []model.MedalRecord
	Source   string // empty when every source failed
	Live     bool
	Failures []Attempt
}

// Exhausted reports whether no source produced data.
func (r Result) Exhausted() bool {
	return r.Source == ""
}
