package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/medaldraft/internal/adapters/snapshot"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/scoring"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

const (
	// DefaultTitle heads the page when none is configured.
	DefaultTitle = "Fantasy Olympics Medal Draft"

	timestampLayout = "2006-01-02 15:04 UTC"
	leaderCount     = 3

	chartWidth     = 720
	chartLabelW    = 180
	chartBarMaxW   = 460
	chartBarHeight = 22
	chartRowHeight = 30
	chartPadding   = 10
)

var leaderMedals = [leaderCount]string{"🥇", "🥈", "🥉"}

// Meta carries run details shown around the standings.
type Meta struct {
	Title       string
	Source      string // winning source, empty when none answered
	Live        bool
	Updated     time.Time
	Weights     scoring.Weights
	Multipliers map[string]float64
	Notes       string // markdown
	Events      []model.EventResult
}

// HTML renders standings as a self-contained page.
type HTML struct {
	tmpl  *template.Template
	notes *notesRenderer
}

// NewHTML parses the embedded page template.
func NewHTML() (*HTML, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return &HTML{tmpl: tmpl, notes: newNotesRenderer()}, nil
}

// Render writes the page for standings to w.
func (h *HTML) Render(w io.Writer, standings []model.Standing, meta Meta) error {
	v, err := h.view(standings, meta)
	if err != nil {
		return err
	}
	if err := h.tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return nil
}

// WriteFile renders the page and replaces path with it. The previous page
// survives a failed render.
func (h *HTML) WriteFile(_ context.Context, path string, standings []model.Standing, meta Meta) error {
	var buf bytes.Buffer
	if err := h.Render(&buf, standings, meta); err != nil {
		return err
	}
	if err := snapshot.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

type pageView struct {
	Title       string
	Updated     string
	Source      string
	Live        bool
	NoData      bool
	Leaders     []leaderView
	Rows        []rowView
	Chart       chartView
	Weights     []ruleView
	Multipliers []ruleView
	Events      []eventView
	Notes       template.HTML
}

type leaderView struct {
	Medal  string
	Friend string
	Points string
}

type rowView struct {
	Rank      int
	Friend    string
	Countries []countryView
	Medals    int
	Points    string
}

type countryView struct {
	Flag     string
	Code     string
	Name     string
	Gold     int
	Silver   int
	Bronze   int
	Points   string
	Scaled   string // multiplier, empty when 1
	Bonus    string // daily double points, empty when none
	Resolved bool
}

type eventView struct {
	Name      string
	Scheduled bool
	Result    string
}

type chartView struct {
	Width  int
	Height int
	LabelX int
	BarX   int
	Bars   []barView
}

type barView struct {
	Y      int
	TextY  int
	Width  string
	ValueX string
	Label  string
	Points string
}

type ruleView struct {
	Label string
	Value string
}

func (h *HTML) view(standings []model.Standing, meta Meta) (pageView, error) {
	notes, err := h.notes.render(meta.Notes)
	if err != nil {
		return pageView{}, err
	}

	v := pageView{
		Title:   meta.Title,
		Updated: meta.Updated.UTC().Format(timestampLayout),
		Source:  meta.Source,
		Live:    meta.Live,
		NoData:  meta.Source == "",
		Rows:    make([]rowView, 0, len(standings)),
		Chart:   chart(standings),
		Weights: []ruleView{
			{Label: "Gold", Value: FormatPoints(meta.Weights.Gold)},
			{Label: "Silver", Value: FormatPoints(meta.Weights.Silver)},
			{Label: "Bronze", Value: FormatPoints(meta.Weights.Bronze)},
		},
		Multipliers: multipliers(meta.Multipliers),
		Events:      events(meta.Events),
		Notes:       notes,
	}
	if v.Title == "" {
		v.Title = DefaultTitle
	}

	for _, s := range standings {
		if s.Rank >= 1 && s.Rank <= leaderCount {
			v.Leaders = append(v.Leaders, leaderView{
				Medal:  leaderMedals[s.Rank-1],
				Friend: s.Result.Friend,
				Points: FormatPoints(s.Result.Points),
			})
		}
		row := rowView{
			Rank:   s.Rank,
			Friend: s.Result.Friend,
			Medals: s.Result.Medals,
			Points: FormatPoints(s.Result.Points),
		}
		for _, c := range s.Result.Countries {
			cv := countryView{
				Flag:     c.Flag,
				Code:     c.Code,
				Name:     c.Name,
				Gold:     c.Gold,
				Silver:   c.Silver,
				Bronze:   c.Bronze,
				Points:   FormatPoints(c.Points),
				Resolved: c.Resolved,
			}
			if c.Multiplier != 1 {
				cv.Scaled = FormatPoints(c.Multiplier)
			}
			if c.Bonus != 0 {
				cv.Bonus = FormatPoints(c.Bonus)
			}
			row.Countries = append(row.Countries, cv)
		}
		v.Rows = append(v.Rows, row)
	}
	return v, nil
}

// chart lays out one horizontal bar per standing, scaled to the leader.
func chart(standings []model.Standing) chartView {
	c := chartView{
		Width:  chartWidth,
		Height: len(standings)*chartRowHeight + 2*chartPadding,
		LabelX: chartLabelW - chartPadding,
		BarX:   chartLabelW,
	}
	var top float64
	for _, s := range standings {
		if s.Result.Points > top {
			top = s.Result.Points
		}
	}
	for i, s := range standings {
		var w float64
		if top > 0 {
			w = s.Result.Points / top * chartBarMaxW
		}
		y := chartPadding + i*chartRowHeight
		c.Bars = append(c.Bars, barView{
			Y:      y,
			TextY:  y + chartBarHeight*3/4,
			Width:  strconv.FormatFloat(w, 'f', 2, 64),
			ValueX: strconv.FormatFloat(chartLabelW+w+6, 'f', 2, 64),
			Label:  s.Result.Friend,
			Points: FormatPoints(s.Result.Points),
		})
	}
	return c
}

func multipliers(m map[string]float64) []ruleView {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]ruleView, 0, len(codes))
	for _, code := range codes {
		out = append(out, ruleView{Label: code, Value: "×" + FormatPoints(m[code])})
	}
	return out
}

// events lists each daily double with its medallists, e.g. "Gold NOR, Silver USA".
func events(results []model.EventResult) []eventView {
	out := make([]eventView, 0, len(results))
	for _, ev := range results {
		v := eventView{Name: ev.Event, Scheduled: ev.Scheduled || len(ev.Placings) == 0}
		parts := make([]string, 0, len(ev.Placings))
		for _, p := range ev.Placings {
			if p.Medal == "" {
				continue
			}
			label := strings.ToUpper(p.Medal[:1]) + p.Medal[1:]
			parts = append(parts, label+" "+p.Code)
		}
		v.Result = strings.Join(parts, ", ")
		out = append(out, v)
	}
	return out
}
