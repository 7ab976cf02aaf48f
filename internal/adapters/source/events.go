package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/pkg/logger"
	"github.com/okian/medaldraft/pkg/metrics"
)

const eventSourceName = "event"

// Event names a daily double event and the page carrying its results.
type Event struct {
	Name string
	URL  string
}

// EventSource reads the medal placings of daily double events.
type EventSource struct {
	events  []Event
	timeout time.Duration
	http    fetcher
}

// NewEventSource creates a source for events. A timeout of zero or less uses
// DefaultTimeout for each page.
func NewEventSource(events []Event, timeout time.Duration, opts ...HTTPOption) *EventSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &EventSource{
		events:  append([]Event(nil), events...),
		timeout: timeout,
		http:    newFetcher(opts),
	}
}

// Fetch returns one result per event, in configured order. It never fails: an
// event whose page is unreachable or has no medals yet is Scheduled.
func (s *EventSource) Fetch(ctx context.Context) []model.EventResult {
	results := make([]model.EventResult, 0, len(s.events))
	for _, ev := range s.events {
		placings, err := s.fetchEvent(ctx, ev)
		if err != nil {
			metrics.RecordSourceAttempt(eventSourceName, metrics.OutcomeFailure)
			s.http.logger.Warn(ctx, "daily double event unavailable",
				logger.String("event", ev.Name),
				logger.String("url", ev.URL),
				logger.Error(err),
			)
		} else {
			metrics.RecordSourceAttempt(eventSourceName, metrics.OutcomeSuccess)
		}
		results = append(results, model.EventResult{
			Event:     ev.Name,
			Placings:  placings,
			Scheduled: len(placings) == 0,
		})
	}
	return results
}

func (s *EventSource) fetchEvent(ctx context.Context, ev Event) ([]model.Placing, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	body, _, err := s.http.get(attemptCtx, ev.URL, "text/html")
	metrics.RecordSourceFetchDuration(eventSourceName, time.Since(start))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s.placings(ctx, doc)
}

// placings reads the first table with a medal column and a nation column.
func (s *EventSource) placings(ctx context.Context, doc *goquery.Document) ([]model.Placing, error) {
	var (
		table         *goquery.Selection
		width         int
		medal, nation = -1, -1
	)
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		medal, nation = -1, -1
		header := t.Find("tr").First().ChildrenFiltered("th, td")
		width = header.Length()
		header.Each(func(i int, cell *goquery.Selection) {
			switch label := strings.ToLower(strings.TrimSpace(cell.Text())); {
			case strings.Contains(label, "medal"):
				medal = i
			case label == "noc", strings.Contains(label, "nation"), strings.Contains(label, "country"):
				if nation < 0 {
					nation = i
				}
			}
		})
		if medal >= 0 && nation >= 0 {
			table = t
			return false
		}
		return true
	})
	if table == nil {
		return nil, fmt.Errorf("%w: no results table on page", ErrMalformed)
	}

	var placings []model.Placing
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if isHeaderRow(tr, cells) {
			return
		}
		shift := width - cells.Length()
		if medal-shift < 0 || nation-shift < 0 {
			return
		}
		tier := medalTier(cells.Eq(medal - shift))
		if tier == "" {
			return
		}
		code, _, err := resolveNation(strings.TrimSpace(cells.Eq(nation - shift).Text()))
		if err != nil {
			s.http.logger.Debug(ctx, "skipping results row", logger.Error(err))
			return
		}
		placings = append(placings, model.Placing{Medal: tier, Code: code})
	})
	return placings, nil
}

// medalTier reads a medal cell from its text or, failing that, an icon's alt text.
func medalTier(cell *goquery.Selection) string {
	label := strings.ToLower(cell.Text() + " " + cell.Find("img").AttrOr("alt", ""))
	for _, tier := range []string{model.Gold, model.Silver, model.Bronze} {
		if strings.Contains(label, tier) {
			return tier
		}
	}
	return ""
}
