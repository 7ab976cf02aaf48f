// Package registry holds the per-run country registry: NOC code to display
// name and medal totals, populated from whichever source answered.
package registry

import (
	"strings"
	"unicode"

	"github.com/okian/medaldraft/internal/domain/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// regionalIndicatorOffset maps 'A' onto U+1F1E6.
const regionalIndicatorOffset = 0x1F1E6 - 'A'

// Registry maps country codes to their medal records for one run.
type Registry struct {
	records map[string]model.MedalRecord
	order   []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]model.MedalRecord)}
}

// FromRecords builds a registry. Invalid records are dropped and the first
// record wins for a repeated code. Missing names are filled from the directory.
func FromRecords(records []model.MedalRecord) *Registry {
	r := New()
	for _, rec := range records {
		r.Add(rec)
	}
	return r
}

// Add inserts rec unless its code is already present or it is invalid.
// It reports whether the record was stored.
func (r *Registry) Add(rec model.MedalRecord) bool {
	rec.Code = NormalizeCode(rec.Code)
	if rec.Validate() != nil {
		return false
	}
	if _, ok := r.records[rec.Code]; ok {
		return false
	}
	if strings.TrimSpace(rec.Name) == "" {
		rec.Name = DisplayName(rec.Code)
	}
	r.records[rec.Code] = rec
	r.order = append(r.order, rec.Code)
	return true
}

// Lookup returns the record for code.
func (r *Registry) Lookup(code string) (model.MedalRecord, bool) {
	rec, ok := r.records[NormalizeCode(code)]
	return rec, ok
}

// Len returns the number of countries in the registry.
func (r *Registry) Len() int {
	return len(r.order)
}

// Records returns the stored records in insertion order.
func (r *Registry) Records() []model.MedalRecord {
	out := make([]model.MedalRecord, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.records[code])
	}
	return out
}

// NormalizeCode trims and upper-cases a NOC code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DisplayName returns the directory name for code, or "" when unknown.
func DisplayName(code string) string {
	return byCode[NormalizeCode(code)].name
}

// CodeForName resolves a nation name to its NOC code. Matching ignores
// case, accents and repeated whitespace.
func CodeForName(name string) (string, bool) {
	code, ok := byName[Fold(name)]
	return code, ok
}

// Flag returns the emoji flag for code, or "" when the ISO code is unknown.
func Flag(code string) string {
	n, ok := byCode[NormalizeCode(code)]
	if !ok || len(n.iso2) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range n.iso2 {
		b.WriteRune(c + regionalIndicatorOffset)
	}
	return b.String()
}

// Fold lowers case, strips diacritics and collapses whitespace.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}
