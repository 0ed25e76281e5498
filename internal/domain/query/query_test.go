package query_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/query"
	"github.com/smartystreets/goconvey/convey"
)

func mustFilter(start, end, mag string) model.FilterState {
	f, err := filter.Parse(filter.Input{StartDate: start, EndDate: end, MinMagnitude: mag}, time.UTC)
	if err != nil {
		panic(err)
	}
	return f
}

func TestBuild(t *testing.T) {
	convey.Convey("Given January 2024 with magnitude 4.0 and no region", t, func() {
		q := query.Build(mustFilter("2024-01-01", "2024-01-31", "4.0"))
		v := q.Values()

		convey.Convey("Then the default envelope and whole-day window are used", func() {
			convey.So(v.Get("format"), convey.ShouldEqual, "geojson")
			convey.So(v.Get("starttime"), convey.ShouldEqual, "2024-01-01T00:00:00")
			convey.So(v.Get("endtime"), convey.ShouldEqual, "2024-01-31T23:59:59")
			convey.So(v.Get("minlatitude"), convey.ShouldEqual, "35.5")
			convey.So(v.Get("maxlatitude"), convey.ShouldEqual, "42.5")
			convey.So(v.Get("minlongitude"), convey.ShouldEqual, "25.5")
			convey.So(v.Get("maxlongitude"), convey.ShouldEqual, "45")
			convey.So(v.Get("minmagnitude"), convey.ShouldEqual, "4")
			convey.So(v.Get("orderby"), convey.ShouldEqual, "time-asc")
		})

		convey.Convey("And the span is 31 days", func() {
			convey.So(q.SpanDays(), convey.ShouldEqual, 31)
		})
	})

	convey.Convey("Given a drawn region", t, func() {
		f := mustFilter("2024-01-01", "2024-01-01", "2.5")
		f.Region = &model.BoundingBox{South: 36.1, West: 27.2, North: 38.3, East: 30.4}
		v := query.Build(f).Values()

		convey.Convey("Then the region overrides the envelope", func() {
			convey.So(v.Get("minlatitude"), convey.ShouldEqual, "36.1")
			convey.So(v.Get("maxlatitude"), convey.ShouldEqual, "38.3")
			convey.So(v.Get("minlongitude"), convey.ShouldEqual, "27.2")
			convey.So(v.Get("maxlongitude"), convey.ShouldEqual, "30.4")
			convey.So(v.Get("minmagnitude"), convey.ShouldEqual, "2.5")
		})
	})
}

func TestURL(t *testing.T) {
	convey.Convey("Given a base catalog URL", t, func() {
		q := query.Build(mustFilter("2024-01-01", "2024-01-02", "4"))
		raw, err := q.URL("https://earthquake.usgs.gov/fdsnws/event/1/query")

		convey.Convey("Then the parameters are attached", func() {
			convey.So(err, convey.ShouldBeNil)
			u, err := url.Parse(raw)
			convey.So(err, convey.ShouldBeNil)
			convey.So(u.Host, convey.ShouldEqual, "earthquake.usgs.gov")
			convey.So(u.Query().Get("endtime"), convey.ShouldEqual, "2024-01-02T23:59:59")
		})

		convey.Convey("And a broken base is an error", func() {
			_, err := q.URL("://nope")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRoundTrip(t *testing.T) {
	convey.Convey("Re-deriving dates from the query recovers the filter dates", t, func() {
		loc := time.FixedZone("TRT", 3*3600)
		for _, pair := range [][2]string{{"2024-01-01", "2024-01-31"}, {"2023-12-31", "2024-03-01"}, {"2024-02-29", "2024-02-29"}} {
			f, err := filter.Parse(filter.Input{StartDate: pair[0], EndDate: pair[1], MinMagnitude: "3"}, loc)
			convey.So(err, convey.ShouldBeNil)
			q := query.Build(f)

			start, end := q.Dates()
			convey.So(start.Format(model.DateLayout), convey.ShouldEqual, pair[0])
			convey.So(end.Format(model.DateLayout), convey.ShouldEqual, pair[1])

			ps, pe, err := query.Parse(q.Values(), loc)
			convey.So(err, convey.ShouldBeNil)
			convey.So(model.Civil(ps, loc).Equal(f.StartDate), convey.ShouldBeTrue)
			convey.So(model.Civil(pe, loc).Equal(f.EndDate), convey.ShouldBeTrue)
		}
	})

	convey.Convey("Parse rejects malformed timestamps", t, func() {
		_, _, err := query.Parse(url.Values{"starttime": {"bad"}}, nil)
		convey.So(err, convey.ShouldNotBeNil)
		_, _, err = query.Parse(url.Values{"starttime": {"2024-01-01T00:00:00"}, "endtime": {"x"}}, nil)
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestSpanDays(t *testing.T) {
	convey.Convey("Span is inclusive of both ends", t, func() {
		d := func(s string) time.Time { v, _ := time.Parse(model.DateLayout, s); return v }
		convey.So(query.SpanDays(d("2024-01-01"), d("2024-01-01")), convey.ShouldEqual, 1)
		convey.So(query.SpanDays(d("2024-01-01"), d("2024-02-01")), convey.ShouldEqual, 32)
		convey.So(query.SpanDays(d("2024-01-01"), d("2024-12-31")), convey.ShouldEqual, 366)
		convey.So(query.SpanDays(d("2024-01-05"), d("2024-01-01")), convey.ShouldEqual, -3)
	})
}
