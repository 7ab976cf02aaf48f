package source

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/medaldraft/internal/domain/model"
)

// maxCount bounds a single medal count.
const maxCount = math.MaxInt32

// Keys recognised in medal payloads, in preference order.
var (
	codeKeys   = []string{"noc", "organisation", "countryCode", "code"}
	nameKeys   = []string{"country", "description", "name", "countryName"}
	medalKeys  = []string{"gold", "silver", "bronze", "total", "medals"}
	goldKeys   = []string{"gold", "goldMedals", "gold_medals"}
	silverKeys = []string{"silver", "silverMedals", "silver_medals"}
	bronzeKeys = []string{"bronze", "bronzeMedals", "bronze_medals"}
)

// findMedalRows returns the first array of objects that looks like a medal
// table: some element has a country identifier and some element has a
// medal key. Objects are searched in sorted key order.
func findMedalRows(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		if rows, ok := asMedalRows(t); ok {
			return rows
		}
		for _, item := range t {
			if rows := findMedalRows(item); len(rows) > 0 {
				return rows
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if rows := findMedalRows(t[k]); len(rows) > 0 {
				return rows
			}
		}
	}
	return nil
}

func asMedalRows(items []any) ([]map[string]any, bool) {
	if len(items) == 0 {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(items))
	var hasCode, hasMedal bool
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		hasCode = hasCode || hasAny(m, codeKeys)
		hasMedal = hasMedal || hasAny(m, medalKeys)
		rows = append(rows, m)
	}
	return rows, hasCode && hasMedal
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// normalizeRow maps one payload row onto a MedalRecord. Counts come from a
// nested "medals" object when present, else from the row itself. Every tier
// must be present; a row reporting only a total is malformed.
func normalizeRow(row map[string]any) (model.MedalRecord, error) {
	counts := row
	if nested, ok := row["medals"].(map[string]any); ok {
		counts = nested
	}

	rec := model.MedalRecord{
		Code: strings.ToUpper(firstString(row, codeKeys)),
		Name: firstString(row, nameKeys),
	}
	if rec.Code == "" {
		return rec, fmt.Errorf("%w: row without country code", ErrMalformed)
	}

	for _, tier := range []struct {
		name string
		keys []string
	}{{model.Gold, goldKeys}, {model.Silver, silverKeys}, {model.Bronze, bronzeKeys}} {
		if !hasAny(counts, tier.keys) {
			return rec, fmt.Errorf("%w: %s row without %s count", ErrMalformed, rec.Code, tier.name)
		}
	}

	var err error
	if rec.Gold, err = firstCount(counts, goldKeys); err != nil {
		return rec, fmt.Errorf("%s gold: %w", rec.Code, err)
	}
	if rec.Silver, err = firstCount(counts, silverKeys); err != nil {
		return rec, fmt.Errorf("%s silver: %w", rec.Code, err)
	}
	if rec.Bronze, err = firstCount(counts, bronzeKeys); err != nil {
		return rec, fmt.Errorf("%s bronze: %w", rec.Code, err)
	}
	return rec, rec.Validate()
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstCount returns the first non-zero count among keys; absent keys count
// as zero.
func firstCount(m map[string]any, keys []string) (int, error) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		n, err := toCount(v)
		if err != nil {
			return 0, err
		}
		if n != 0 {
			return n, nil
		}
	}
	return 0, nil
}

func toCount(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%w: %v is not a whole number", ErrMalformed, t)
		}
		if t > maxCount || t < -maxCount {
			return 0, fmt.Errorf("%w: %v is out of range", ErrMalformed, t)
		}
		return int(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a whole number in range", ErrMalformed, s)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: unexpected %T count", ErrMalformed, v)
	}
}
