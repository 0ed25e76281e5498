package style_test

import (
	"math"
	"testing"

	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/style"
	"github.com/smartystreets/goconvey/convey"
)

func TestForMagnitude(t *testing.T) {
	convey.Convey("Given markers for several magnitudes", t, func() {
		convey.Convey("Undefined magnitudes degrade to the gray default", func() {
			m := style.ForMagnitude(nil)
			convey.So(m.Color, convey.ShouldEqual, "#808080")
			convey.So(m.Radius, convey.ShouldEqual, 4)
			convey.So(style.ForMagnitude(model.Float(math.NaN())), convey.ShouldResemble, m)
		})

		convey.Convey("The color ramp steps at whole magnitudes", func() {
			convey.So(style.Color(7.2), convey.ShouldEqual, "#800026")
			convey.So(style.Color(6.0), convey.ShouldEqual, "#BD0026")
			convey.So(style.Color(5.5), convey.ShouldEqual, "#FC4E2A")
			convey.So(style.Color(4.0), convey.ShouldEqual, "#FD8D3C")
			convey.So(style.Color(3.9), convey.ShouldEqual, "#FEB24C")
			convey.So(style.Color(1.0), convey.ShouldEqual, "#31A354")
		})

		convey.Convey("The radius scales and is clamped", func() {
			convey.So(style.Radius(0.5), convey.ShouldEqual, 4)
			convey.So(style.Radius(5), convey.ShouldEqual, 10)
			convey.So(style.Radius(12), convey.ShouldEqual, 20)
			convey.So(style.ForMagnitude(model.Float(6)).Radius, convey.ShouldEqual, 12)
		})
	})
}
