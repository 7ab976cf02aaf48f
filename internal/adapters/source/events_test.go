package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/medaldraft/internal/adapters/source"
	"github.com/okian/medaldraft/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const skiCrossPage = `<html><body>
<table class="infobox"><tr><th>Venue</th><td>Livigno</td></tr></table>
<table class="wikitable">
<tr><th>Medal</th><th>Athlete</th><th>NOC</th><th>Time</th></tr>
<tr><td><img alt="Gold medal" src="g.png"></td><td>Fanny Smith</td><td>SUI</td><td>1:10.2</td></tr>
<tr><td>Silver</td><td>Marielle Thompson</td><td>Canada</td><td>1:10.4</td></tr>
<tr><td>Bronze</td><td>Sandra Näslund</td><td>Sweden (SWE)</td><td>1:10.9</td></tr>
<tr><td></td><td>Daniela Maier</td><td>GER</td><td>1:11.5</td></tr>
<tr><td>Bronze</td><td>Nobody</td><td>Atlantis</td><td>1:12.0</td></tr>
</table>
</body></html>`

const startListPage = `<html><body>
<table class="wikitable">
<tr><th>Medal</th><th>Athlete</th><th>NOC</th></tr>
<tr><td></td><td>Kjeld Nuis</td><td>NED</td></tr>
</table>
</body></html>`

func TestEventSource(t *testing.T) {
	Convey("Given daily double events served over HTTP", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		mux.HandleFunc("/ski-cross", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(skiCrossPage))
		})
		mux.HandleFunc("/speed-skating", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(startListPage))
		})
		mux.HandleFunc("/big-air", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		})
		mux.HandleFunc("/notes", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html><p>Results pending</p></html>`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		events := []source.Event{
			{Name: "Women's Ski Cross", URL: srv.URL + "/ski-cross"},
			{Name: "Men's 1500 m", URL: srv.URL + "/speed-skating"},
			{Name: "Big Air", URL: srv.URL + "/big-air"},
			{Name: "Curling", URL: srv.URL + "/notes"},
		}

		Convey("When the events are fetched", func() {
			got := source.NewEventSource(events, time.Second).Fetch(ctx)

			Convey("Then every event yields a result in configured order", func() {
				So(got, ShouldHaveLength, 4)
				So(got[0].Event, ShouldEqual, "Women's Ski Cross")
				So(got[3].Event, ShouldEqual, "Curling")
			})

			Convey("Then medal rows are read from text, icons, codes and names", func() {
				So(got[0].Scheduled, ShouldBeFalse)
				So(got[0].Placings, ShouldResemble, []model.Placing{
					{Medal: model.Gold, Code: "SUI"},
					{Medal: model.Silver, Code: "CAN"},
					{Medal: model.Bronze, Code: "SWE"},
				})
			})

			Convey("Then events without medals or without a page are scheduled", func() {
				for _, ev := range got[1:] {
					So(ev.Scheduled, ShouldBeTrue)
					So(ev.Placings, ShouldBeEmpty)
				}
			})
		})

		Convey("When no events are configured", func() {
			So(source.NewEventSource(nil, 0).Fetch(ctx), ShouldBeEmpty)
		})
	})
}
