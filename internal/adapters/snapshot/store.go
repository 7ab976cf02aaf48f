// Package snapshot persists the last successful medal fetch as a flat,
// human-editable CSV file.
package snapshot

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/pkg/logger"
)

// File layout.
const (
	colCode   = "noc"
	colName   = "country"
	colGold   = "gold"
	colSilver = "silver"
	colBronze = "bronze"
	colTotal  = "total"

	dirPermission  = 0o755
	filePermission = 0o644
)

var header = []string{colCode, colName, colGold, colSilver, colBronze, colTotal}

// Store reads and replaces the snapshot file.
type Store struct {
	path   string
	logger logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used for skipped rows.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store backed by path.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Load reads every valid row. Invalid rows are skipped with a warning.
// A missing file yields ErrNotFound.
func (s *Store) Load(ctx context.Context) ([]model.MedalRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("snapshot: open %s: %w", s.path, err)
	}
	defer f.Close() //nolint:errcheck

	return s.decode(ctx, f)
}

func (s *Store) decode(ctx context.Context, r io.Reader) ([]model.MedalRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, s.path, err)
	}

	idx := columnIndex(head)
	for _, col := range []string{colCode, colGold, colSilver, colBronze} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrInvalidFormat, s.path, col)
		}
	}

	var records []model.MedalRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn(ctx, "skipping unreadable snapshot row",
				logger.String("path", s.path),
				logger.Int("line", parseErr.Line),
				logger.Error(err),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, s.path, err)
		}

		rec, err := parseRow(row, idx)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			s.logger.Warn(ctx, "skipping snapshot row",
				logger.String("path", s.path),
				logger.Int("line", line),
				logger.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save replaces the snapshot with records. The file is written next to the
// target and renamed over it, so readers never observe a partial file.
func (s *Store) Save(_ context.Context, records []model.MedalRecord) error {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return err
	}
	return WriteFileAtomic(s.path, buf.Bytes())
}

// Encode writes records in snapshot layout.
func Encode(w io.Writer, records []model.MedalRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Code,
			r.Name,
			strconv.Itoa(r.Gold),
			strconv.Itoa(r.Silver),
			strconv.Itoa(r.Bronze),
			strconv.Itoa(r.Total()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("snapshot: write %s: %w", r.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFileAtomic writes data to a temp file in path's directory and renames
// it over path, creating the directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(filePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func columnIndex(head []string) map[string]int {
	idx := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

func parseRow(row []string, idx map[string]int) (model.MedalRecord, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := model.MedalRecord{
		Code: strings.ToUpper(field(colCode)),
		Name: field(colName),
	}
	var err error
	if rec.Gold, err = atoiOrZero(field(colGold)); err != nil {
		return rec, err
	}
	if rec.Silver, err = atoiOrZero(field(colSilver)); err != nil {
		return rec, err
	}
	if rec.Bronze, err = atoiOrZero(field(colBronze)); err != nil {
		return rec, err
	}
	return rec, nil
}

// atoiOrZero treats an empty cell as zero, matching hand-edited files.
func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidFormat, s)
	}
	return n, nil
}
