package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
	"github.com/okian/medaldraft/pkg/logger"
)

var errTotalsRow = errors.New("totals row")

var (
	footnotePattern = regexp.MustCompile(`\[[^\]]*\]`)
	nocPattern      = regexp.MustCompile(`\(([A-Z]{3})\)`)
	bareCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ScrapeSource reads the medal table of a public HTML page, typically the
// Wikipedia article for the Games.
type ScrapeSource struct {
	url  string
	http fetcher
}

// NewScrapeSource creates a source for the page at pageURL.
func NewScrapeSource(pageURL string, opts ...HTTPOption) *ScrapeSource {
	return &ScrapeSource{url: pageURL, http: newFetcher(opts)}
}

func (s *ScrapeSource) Name() string { return "scrape" }
func (s *ScrapeSource) Live() bool   { return true }

// Fetch downloads the page and parses its first medal table.
func (s *ScrapeSource) Fetch(ctx context.Context) ([]model.MedalRecord, error) {
	body, _, err := s.http.get(ctx, s.url, "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s.parse(ctx, doc)
}

// columns holds header positions of a medal table.
type columns struct {
	width                        int
	nation, gold, silver, bronze int
}

func (s *ScrapeSource) parse(ctx context.Context, doc *goquery.Document) ([]model.MedalRecord, error) {
	var (
		table *goquery.Selection
		cols  columns
	)
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		if c, ok := headerColumns(t); ok {
			table, cols = t, c
			return false
		}
		return true
	})
	if table == nil {
		return nil, fmt.Errorf("%w: no medal table on page", ErrMalformed)
	}

	var records []model.MedalRecord
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() < 4 || isHeaderRow(tr, cells) {
			return
		}
		rec, err := cols.record(cells)
		if err != nil {
			s.http.logger.Debug(ctx, "skipping medal table row", logger.Error(err))
			return
		}
		records = append(records, rec)
	})
	return records, nil
}

func isHeaderRow(tr, cells *goquery.Selection) bool {
	return tr.ChildrenFiltered("td").Length() == 0 && cells.Length() > 0
}

// headerColumns locates the nation and medal columns in the first row of t.
func headerColumns(t *goquery.Selection) (columns, bool) {
	c := columns{nation: -1, gold: -1, silver: -1, bronze: -1}
	header := t.Find("tr").First().ChildrenFiltered("th, td")
	c.width = header.Length()
	header.Each(func(i int, cell *goquery.Selection) {
		switch label := strings.ToLower(strings.TrimSpace(cell.Text())); {
		case strings.Contains(label, "gold"):
			c.gold = i
		case strings.Contains(label, "silver"):
			c.silver = i
		case strings.Contains(label, "bronze"):
			c.bronze = i
		case strings.Contains(label, "nation"), strings.Contains(label, "noc"),
			strings.Contains(label, "country"), strings.Contains(label, "team"):
			if c.nation < 0 {
				c.nation = i
			}
		}
	})
	ok := c.gold >= 0 && c.silver >= 0 && c.bronze >= 0 && c.nation >= 0
	return c, ok
}

// record reads one body row. Cells are indexed from the row end because a
// shared rank cell spans several rows and is absent from all but the first.
func (c columns) record(cells *goquery.Selection) (model.MedalRecord, error) {
	shift := c.width - cells.Length()
	at := func(i int) string {
		return strings.TrimSpace(cells.Eq(i - shift).Text())
	}

	nation := at(c.nation)
	if strings.Contains(strings.ToLower(nation), "total") {
		return model.MedalRecord{}, errTotalsRow
	}
	code, name, err := resolveNation(nation)
	if err != nil {
		return model.MedalRecord{}, err
	}

	rec := model.MedalRecord{Code: code, Name: name}
	for _, f := range []struct {
		dst *int
		col int
	}{{&rec.Gold, c.gold}, {&rec.Silver, c.silver}, {&rec.Bronze, c.bronze}} {
		n, err := strconv.Atoi(strings.ReplaceAll(at(f.col), ",", ""))
		if err != nil {
			return rec, fmt.Errorf("%s: %w: medal cell %q", code, ErrMalformed, at(f.col))
		}
		*f.dst = n
	}
	return rec, rec.Validate()
}

// resolveNation maps a table nation cell to a NOC code and display name.
func resolveNation(raw string) (code, name string, err error) {
	cleaned := footnotePattern.ReplaceAllString(raw, "")
	if m := nocPattern.FindStringSubmatch(cleaned); m != nil {
		code = m[1]
		cleaned = nocPattern.ReplaceAllString(cleaned, "")
	}
	name = strings.TrimSpace(strings.NewReplacer("*", "", "‡", "", "†", "").Replace(cleaned))
	name = strings.Join(strings.Fields(name), " ")

	if code == "" && bareCodePattern.MatchString(name) {
		code = name
	}
	if code == "" {
		var ok bool
		if code, ok = registry.CodeForName(name); !ok {
			return "", "", fmt.Errorf("unmapped nation %q", name)
		}
	}
	return code, name, nil
}
