package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okian/medaldraft/internal/adapters/report"
	"github.com/okian/medaldraft/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConsole(t *testing.T) {
	Convey("Given a console renderer", t, func() {
		var buf bytes.Buffer
		console := report.NewConsole(&buf)

		Convey("When printing standings with wide characters", func() {
			standings := report.Rank([]model.ScoreResult{
				{Friend: "Sam", Points: 18, Order: 0, Countries: []model.CountryScore{{Code: "NOR", Points: 18}}},
				{Friend: "李雷", Points: 3.25, Order: 1, Countries: []model.CountryScore{
					{Code: "USA", Points: 3.25},
					{Code: "ITA", Points: 0},
				}},
			})
			So(console.Render(standings, report.Meta{Source: "scrape"}), ShouldBeNil)

			Convey("Then columns line up by display width", func() {
				So(buf.String(), ShouldEqual, strings.Join([]string{
					report.DefaultTitle + " (source: scrape)",
					"#  Friend  Points  Countries",
					"1  Sam         18  NOR 18",
					"2  李雷      3.25  USA 3.25, ITA 0",
					"",
				}, "\n"))
			})
		})

		Convey("When no source answered", func() {
			So(console.Render(nil, report.Meta{Title: "Draft"}), ShouldBeNil)

			So(buf.String(), ShouldStartWith, "Draft (source: none (no medal data))\n")
		})
	})
}
