package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/medaldraft/internal/adapters/source"
	"github.com/okian/medaldraft/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(status int, contentType, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAPISource(t *testing.T) {
	Convey("Given an API source", t, func() {
		ctx := context.Background()

		Convey("When the endpoint answers a flat JSON medal table", func() {
			srv := serve(http.StatusOK, "application/json", `{"medals":[
				{"noc":"NOR","country":"Norway","gold":4,"silver":"2","bronze":2},
				{"noc":"usa","country":"United States","gold":1,"silver":2,"bronze":1}
			]}`)
			defer srv.Close()

			got, err := source.NewAPISource(srv.URL).Fetch(ctx)

			Convey("Then every row is normalized", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.MedalRecord{
					{Code: "NOR", Name: "Norway", Gold: 4, Silver: 2, Bronze: 2},
					{Code: "USA", Name: "United States", Gold: 1, Silver: 2, Bronze: 1},
				})
			})
		})

		Convey("When counts are nested under a medals object with long keys", func() {
			srv := serve(http.StatusOK, "application/json", `{"data":{"table":[
				{"organisation":"ITA","description":"Italy","medals":{"goldMedals":2,"silverMedals":0,"bronzeMedals":1,"total":3}}
			]}}`)
			defer srv.Close()

			got, err := source.NewAPISource(srv.URL).Fetch(ctx)

			So(err, ShouldBeNil)
			So(got, ShouldResemble, []model.MedalRecord{{Code: "ITA", Name: "Italy", Gold: 2, Bronze: 1}})
		})

		Convey("When the endpoint answers a page with embedded Next.js data", func() {
			srv := serve(http.StatusOK, "text/html; charset=utf-8", `<html><body>
				<script id="__NEXT_DATA__" type="application/json">
				{"props":{"pageProps":{"standings":[{"countryCode":"SUI","countryName":"Switzerland","gold":3,"silver":1,"bronze":0}]}}}
				</script></body></html>`)
			defer srv.Close()

			got, err := source.NewAPISource(srv.URL).Fetch(ctx)

			So(err, ShouldBeNil)
			So(got, ShouldResemble, []model.MedalRecord{{Code: "SUI", Name: "Switzerland", Gold: 3, Silver: 1}})
		})

		Convey("When a page has no embedded data", func() {
			srv := serve(http.StatusOK, "text/html", `<html><body>nothing</body></html>`)
			defer srv.Close()

			_, err := source.NewAPISource(srv.URL).Fetch(ctx)

			So(errors.Is(err, source.ErrMalformed), ShouldBeTrue)
		})

		Convey("When the payload has no medal rows", func() {
			srv := serve(http.StatusOK, "application/json", `{"items":[{"id":1}]}`)
			defer srv.Close()

			_, err := source.NewAPISource(srv.URL).Fetch(ctx)

			So(errors.Is(err, source.ErrMalformed), ShouldBeTrue)
		})

		Convey("When rows carry only totals or unknown tier keys", func() {
			srv := serve(http.StatusOK, "application/json", `[
				{"noc":"USA","total":5},
				{"noc":"NOR","medals":{"goldCount":3}}
			]`)
			defer srv.Close()

			got, err := source.NewAPISource(srv.URL).Fetch(ctx)

			Convey("Then the endpoint fails instead of reporting zero medals", func() {
				So(errors.Is(err, source.ErrMalformed), ShouldBeTrue)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the endpoint answers a non-2xx status", func() {
			srv := serve(http.StatusServiceUnavailable, "", "")
			defer srv.Close()

			_, err := source.NewAPISource(srv.URL).Fetch(ctx)

			So(errors.Is(err, source.ErrStatus), ShouldBeTrue)
		})

		Convey("When a row carries an unusable count", func() {
			srv := serve(http.StatusOK, "application/json", `[
				{"noc":"NOR","gold":"many","silver":0,"bronze":0},
				{"noc":"FIN","gold":1.5,"silver":0,"bronze":0},
				{"noc":"SWE","gold":1e300,"silver":0,"bronze":0},
				{"noc":"GER","gold":"99999999999","silver":0,"bronze":0},
				{"noc":"CAN","gold":1,"silver":0},
				{"noc":"AUT","gold":1,"silver":0,"bronze":0}
			]`)
			defer srv.Close()

			got, err := source.NewAPISource(srv.URL).Fetch(ctx)

			Convey("Then that row alone is dropped", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, []model.MedalRecord{{Code: "AUT", Gold: 1}})
			})
		})

		Convey("When the request is sent", func() {
			var ua string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ua = r.Header.Get("User-Agent")
				_, _ = w.Write([]byte(`[{"noc":"NOR","gold":1,"silver":0,"bronze":0}]`))
			}))
			defer srv.Close()

			_, err := source.NewAPISource(srv.URL, source.WithUserAgent("draft-test/2")).Fetch(ctx)

			So(err, ShouldBeNil)
			So(ua, ShouldEqual, "draft-test/2")
		})

		Convey("When naming the source", func() {
			s := source.NewAPISource("https://olympics.example/api/medals")
			So(s.Name(), ShouldEqual, "api:olympics.example/api/medals")
			So(s.Live(), ShouldBeTrue)
		})
	})
}
