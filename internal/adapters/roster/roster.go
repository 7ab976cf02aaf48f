// Package roster loads the friends roster: one row per friend with one or
// two drafted countries.
package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
	"github.com/okian/medaldraft/pkg/logger"
	"github.com/okian/medaldraft/pkg/metrics"
)

// Roster columns. The legacy single-country layout uses noc/country.
const (
	colFriend     = "friend"
	colCode1      = "noc_1"
	colName1      = "country_1"
	colCode2      = "noc_2"
	colName2      = "country_2"
	colLegacyCode = "noc"
	colLegacyName = "country"
)

// Loader parses roster files.
type Loader struct {
	logger logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the logger used for skipped rows.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a roster loader.
func NewLoader(opts ...Option) *Loader {
	ld := &Loader{logger: logger.Nop()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load reads the roster at path.
func (ld *Loader) Load(ctx context.Context, path string) ([]model.Friend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	defer f.Close() //nolint:errcheck

	friends, err := ld.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return friends, nil
}

// Parse reads a roster from r. Rows without a friend name or without any
// country code are skipped with a warning; output keeps row order.
func (ld *Loader) Parse(ctx context.Context, r io.Reader) ([]model.Friend, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file (no header row)", ErrInvalidRoster)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}

	idx := columns(head)
	if _, ok := idx[colFriend]; !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRoster, colFriend)
	}
	if _, ok := idx[colCode1]; !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRoster, colCode1)
	}

	friends := []model.Friend{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			ld.logger.Warn(ctx, "skipping unreadable roster row",
				logger.Int("line", parseErr.Line),
				logger.Error(err),
			)
			metrics.RecordRosterRowSkipped()
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidRoster, line, err)
		}

		f, reason := parseRow(row, idx)
		if reason != "" {
			ld.logger.Warn(ctx, "skipping roster row",
				logger.Int("line", line),
				logger.String("reason", reason),
			)
			metrics.RecordRosterRowSkipped()
			continue
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// columns maps lower-cased header names to indexes, renaming the legacy
// single-country layout onto noc_1/country_1.
func columns(head []string) map[string]int {
	idx := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	if _, ok := idx[colCode1]; !ok {
		if i, legacy := idx[colLegacyCode]; legacy {
			idx[colCode1] = i
			if j, named := idx[colLegacyName]; named {
				idx[colName1] = j
			}
		}
	}
	return idx
}

func parseRow(row []string, idx map[string]int) (model.Friend, string) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	f := model.Friend{Name: field(colFriend)}
	if f.Name == "" {
		return f, "missing friend name"
	}
	for _, pair := range [][2]string{{colCode1, colName1}, {colCode2, colName2}} {
		code := registry.NormalizeCode(field(pair[0]))
		if code == "" {
			continue
		}
		f.Countries = append(f.Countries, model.CountryRef{Code: code, Name: field(pair[1])})
	}
	if len(f.Countries) == 0 {
		return f, "no country code for " + f.Name
	}
	return f, ""
}
