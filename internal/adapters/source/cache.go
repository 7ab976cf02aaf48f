package source

import (
	"context"

	"github.com/okian/medaldraft/internal/domain/model"
)

// CacheSource serves the snapshot written by the last live success.
type CacheSource struct {
	store Snapshot
}

// NewCacheSource wraps a snapshot store.
func NewCacheSource(store Snapshot) *CacheSource {
	return &CacheSource{store: store}
}

func (s *CacheSource) Name() string { return "cache" }
func (s *CacheSource) Live() bool   { return false }

// Fetch loads the snapshot.
func (s *CacheSource) Fetch(ctx context.Context) ([]model.MedalRecord, error) {
	return s.store.Load(ctx)
}
