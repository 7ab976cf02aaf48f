package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/medaldraft/internal/adapters/report"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleStandings() []model.Standing {
	return report.Rank([]model.ScoreResult{
		{
			Friend: "Alex",
			Points: 8,
			Medals: 3,
			Order:  0,
			Countries: []model.CountryScore{
				{Code: "USA", Name: "United States", Flag: "🇺🇸", Gold: 2, Silver: 1, Multiplier: 1, Points: 8, Resolved: true},
			},
		},
		{
			Friend: "<b>Sam</b>",
			Points: 9,
			Medals: 8,
			Order:  1,
			Countries: []model.CountryScore{
				{Code: "NOR", Name: "Norway", Flag: "🇳🇴", Gold: 4, Silver: 2, Bronze: 2, Multiplier: 0.5, Points: 9, Resolved: true},
				{Code: "XYZ", Name: "XYZ", Multiplier: 1},
			},
		},
		{Friend: "Kim", Order: 2, Countries: []model.CountryScore{{Code: "MON", Name: "Monaco", Multiplier: 1, Resolved: true}}},
	})
}

func sampleMeta() report.Meta {
	return report.Meta{
		Title:       "Office Draft",
		Source:      "api:olympics.example/medals",
		Live:        true,
		Updated:     time.Date(2026, 2, 20, 18, 30, 0, 0, time.UTC),
		Weights:     scoring.DefaultWeights(),
		Multipliers: map[string]float64{"NOR": 0.5},
	}
}

func TestHTML(t *testing.T) {
	Convey("Given the HTML renderer", t, func() {
		h, err := report.NewHTML()
		So(err, ShouldBeNil)

		render := func(standings []model.Standing, meta report.Meta) string {
			var buf bytes.Buffer
			So(h.Render(&buf, standings, meta), ShouldBeNil)
			return buf.String()
		}

		Convey("When rendering standings", func() {
			page := render(sampleStandings(), sampleMeta())

			Convey("Then the page carries the run details", func() {
				So(page, ShouldContainSubstring, "<title>Office Draft</title>")
				So(page, ShouldContainSubstring, "Updated 2026-02-20 18:30 UTC")
				So(page, ShouldContainSubstring, "Source: api:olympics.example/medals")
				So(page, ShouldNotContainSubstring, "(cached)")
				So(page, ShouldNotContainSubstring, "No medal data")
			})

			Convey("Then the leader banner lists the top three in rank order", func() {
				So(page, ShouldContainSubstring, `🥇</span> <span class="name">&lt;b&gt;Sam&lt;/b&gt;</span> <span class="tally">9 pts`)
				So(page, ShouldContainSubstring, `🥈</span> <span class="name">Alex</span>`)
				So(page, ShouldContainSubstring, `🥉</span> <span class="name">Kim</span>`)
			})

			Convey("Then friend names are escaped", func() {
				So(page, ShouldNotContainSubstring, "<b>Sam</b>")
			})

			Convey("Then countries show flags, tallies, multipliers and unresolved codes", func() {
				So(page, ShouldContainSubstring, "🇳🇴 Norway")
				So(page, ShouldContainSubstring, "4G 2S 2B · 9 pts (×0.5)")
				So(page, ShouldContainSubstring, `class="country unresolved">XYZ`)
			})

			Convey("Then the chart scales bars to the leader", func() {
				So(page, ShouldContainSubstring, "<svg")
				So(page, ShouldContainSubstring, `width="460.00"`)
				So(page, ShouldContainSubstring, `width="0.00"`)
			})

			Convey("Then the scoring rules are listed", func() {
				So(page, ShouldContainSubstring, "Gold 3 pts · Silver 2 pts · Bronze 1 pts")
				So(page, ShouldContainSubstring, "Country multipliers: NOR ×0.5")
			})

			Convey("Then the page is self-contained", func() {
				So(page, ShouldNotContainSubstring, "<script")
				So(page, ShouldNotContainSubstring, "<link")
			})
		})

		Convey("When friends tie for the lead", func() {
			standings := report.Rank([]model.ScoreResult{
				{Friend: "Alex", Points: 8, Order: 0},
				{Friend: "Blair", Points: 8, Order: 1},
				{Friend: "Casey", Points: 5, Order: 2},
				{Friend: "Drew", Points: 1, Order: 3},
			})
			page := render(standings, sampleMeta())

			Convey("Then the banner follows ranks, not positions", func() {
				So(page, ShouldContainSubstring, `🥇</span> <span class="name">Alex</span>`)
				So(page, ShouldContainSubstring, `🥇</span> <span class="name">Blair</span>`)
				So(page, ShouldContainSubstring, `🥉</span> <span class="name">Casey</span>`)
				So(page, ShouldNotContainSubstring, "🥈")
				So(page, ShouldNotContainSubstring, `<span class="name">Drew</span>`)
			})
		})

		Convey("When daily double events are configured", func() {
			meta := sampleMeta()
			meta.Events = []model.EventResult{
				{Event: "Ski Cross", Placings: []model.Placing{
					{Medal: model.Gold, Code: "SUI"},
					{Medal: model.Silver, Code: "CAN"},
				}},
				{Event: "Big Air", Scheduled: true},
			}
			standings := sampleStandings()
			standings[0].Result.Countries[0].Bonus = 3
			page := render(standings, meta)

			Convey("Then each event shows its medallists or that it is scheduled", func() {
				So(page, ShouldContainSubstring, "<h2>Daily Double Events</h2>")
				So(page, ShouldContainSubstring, "<tr><td>Ski Cross</td><td>Gold SUI, Silver CAN</td></tr>")
				So(page, ShouldContainSubstring, "<tr><td>Big Air</td><td>Scheduled for later</td></tr>")
				So(page, ShouldContainSubstring, "Daily double medals add bonus points")
			})

			Convey("Then country bonuses are shown", func() {
				So(page, ShouldContainSubstring, "+3 bonus")
			})
		})

		Convey("When no daily double events are configured", func() {
			page := render(sampleStandings(), sampleMeta())

			So(page, ShouldNotContainSubstring, "Daily Double Events")
			So(page, ShouldNotContainSubstring, "bonus")
		})

		Convey("When rendering the same standings twice", func() {
			first := render(sampleStandings(), sampleMeta())
			second := render(sampleStandings(), sampleMeta())

			So(first, ShouldEqual, second)
		})

		Convey("When no source answered", func() {
			meta := sampleMeta()
			meta.Source = ""
			page := render(sampleStandings(), meta)

			So(page, ShouldContainSubstring, "No medal data could be fetched")
			So(page, ShouldNotContainSubstring, "Source:")
		})

		Convey("When the data came from the cache", func() {
			meta := sampleMeta()
			meta.Source, meta.Live = "cache", false

			So(render(sampleStandings(), meta), ShouldContainSubstring, "Source: cache (cached)")
		})

		Convey("When notes are configured", func() {
			meta := sampleMeta()
			meta.Notes = "Draft held on **Feb 1**.\n\n<script>alert(1)</script>\n\n[rules](https://example.com/rules)"
			page := render(sampleStandings(), meta)

			Convey("Then markdown is rendered and unsafe markup is dropped", func() {
				So(page, ShouldContainSubstring, "<strong>Feb 1</strong>")
				So(page, ShouldContainSubstring, `href="https://example.com/rules"`)
				So(page, ShouldNotContainSubstring, "alert(1)")
			})
		})

		Convey("When no title is set", func() {
			meta := sampleMeta()
			meta.Title = ""

			So(render(nil, meta), ShouldContainSubstring, "<h1>"+report.DefaultTitle+"</h1>")
		})

		Convey("When writing to a file in a missing directory", func() {
			path := filepath.Join(t.TempDir(), "docs", "index.html")
			So(h.WriteFile(context.Background(), path, sampleStandings(), sampleMeta()), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, render(sampleStandings(), sampleMeta()))
		})
	})
}
