package model_test

import (
	"testing"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEventTime(t *testing.T) {
	convey.Convey("Given events with and without timestamps", t, func() {
		withTS := model.Event{TimestampMs: model.Millis(1704067200000)} // 2024-01-01T00:00:00Z
		without := model.Event{}

		convey.Convey("Then Time converts epoch millis into the location", func() {
			ts, ok := withTS.Time(time.UTC)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(ts.Format(time.RFC3339), convey.ShouldEqual, "2024-01-01T00:00:00Z")

			ts, ok = withTS.Time(nil)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(ts.Location(), convey.ShouldEqual, time.UTC)
		})

		convey.Convey("And a missing timestamp reports false", func() {
			_, ok := without.Time(time.UTC)
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(without.HasMagnitude(), convey.ShouldBeFalse)
			convey.So(without.HasDepth(), convey.ShouldBeFalse)
		})
	})
}

func TestBoundingBox(t *testing.T) {
	convey.Convey("Given bounding boxes", t, func() {
		convey.Convey("The default envelope is valid", func() {
			convey.So(model.DefaultBoundingBox.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Inverted or out of range boxes are rejected", func() {
			convey.So(model.BoundingBox{South: 40, North: 30, West: 0, East: 1}.Validate(), convey.ShouldNotBeNil)
			convey.So(model.BoundingBox{South: 0, North: 1, West: 10, East: 5}.Validate(), convey.ShouldNotBeNil)
			convey.So(model.BoundingBox{South: -91, North: 1, West: 0, East: 1}.Validate(), convey.ShouldNotBeNil)
			convey.So(model.BoundingBox{South: 0, North: 1, West: 0, East: 181}.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("FilterState.Box falls back to the default", func() {
			convey.So(model.FilterState{}.Box(), convey.ShouldResemble, model.DefaultBoundingBox)
			region := model.BoundingBox{South: 1, West: 2, North: 3, East: 4}
			convey.So(model.FilterState{Region: &region}.Box(), convey.ShouldResemble, region)
		})
	})
}

func TestCivil(t *testing.T) {
	convey.Convey("Civil truncates to midnight in the location", t, func() {
		trt := time.FixedZone("TRT", 3*3600)
		ts := time.Date(2024, 3, 1, 22, 30, 0, 0, time.UTC) // already 2 March in TRT
		got := model.Civil(ts, trt)
		convey.So(got.Format(model.DateLayout), convey.ShouldEqual, "2024-03-02")
		convey.So(got.Hour(), convey.ShouldEqual, 0)
	})
}

func TestMessages(t *testing.T) {
	convey.Convey("Message constructors set the severity", t, func() {
		convey.So(model.Info("a").Severity, convey.ShouldEqual, model.SeverityInfo)
		convey.So(model.Success("b").Severity, convey.ShouldEqual, model.SeveritySuccess)
		convey.So(model.Failure("c").Severity, convey.ShouldEqual, model.SeverityError)
	})
}
