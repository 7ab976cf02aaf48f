package registry_test

import (
	"testing"

	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given records from a source", t, func() {
		reg := registry.FromRecords([]model.MedalRecord{
			{Code: "nor", Gold: 10, Silver: 5, Bronze: 3},
			{Code: "USA", Name: "Team USA", Gold: 2, Silver: 1},
			{Code: "NOR", Gold: 99},
			{Code: "", Gold: 1},
			{Code: "ITA", Gold: -1},
		})

		Convey("Then invalid and duplicate records are dropped", func() {
			So(reg.Len(), ShouldEqual, 2)
		})

		Convey("Then the first record for a code wins", func() {
			rec, ok := reg.Lookup("NOR")
			So(ok, ShouldBeTrue)
			So(rec.Gold, ShouldEqual, 10)
		})

		Convey("Then codes are normalized on lookup", func() {
			_, ok := reg.Lookup(" usa ")
			So(ok, ShouldBeTrue)
		})

		Convey("Then a source name is kept and a missing one is filled", func() {
			usa, _ := reg.Lookup("USA")
			nor, _ := reg.Lookup("NOR")
			So(usa.Name, ShouldEqual, "Team USA")
			So(nor.Name, ShouldEqual, "Norway")
		})

		Convey("Then Records preserves insertion order", func() {
			recs := reg.Records()
			So(recs[0].Code, ShouldEqual, "NOR")
			So(recs[1].Code, ShouldEqual, "USA")
		})

		Convey("Then unknown codes miss", func() {
			_, ok := reg.Lookup("XYZ")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDirectory(t *testing.T) {
	Convey("Given the nation directory", t, func() {
		Convey("When resolving names", func() {
			Convey("Then matching ignores case and whitespace", func() {
				code, ok := registry.CodeForName("  united   STATES ")
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, "USA")
			})

			Convey("Then aliases resolve", func() {
				code, ok := registry.CodeForName("Czechia")
				So(ok, ShouldBeTrue)
				So(code, ShouldEqual, "CZE")
			})

			Convey("Then unknown names do not resolve", func() {
				_, ok := registry.CodeForName("Atlantis")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When folding accented text", func() {
			So(registry.Fold("Équipe  Suisse"), ShouldEqual, "equipe suisse")
		})

		Convey("When building flags", func() {
			So(registry.Flag("GER"), ShouldEqual, "🇩🇪")
			So(registry.Flag("sui"), ShouldEqual, "🇨🇭")
			So(registry.Flag("XYZ"), ShouldEqual, "")
		})
	})
}
