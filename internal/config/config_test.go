package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/quakeboard/internal/config"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.CatalogURL, convey.ShouldEqual, "https://earthquake.usgs.gov/fdsnws/event/1/query")
			convey.So(cfg.CatalogTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.DefaultMinMagnitude, convey.ShouldEqual, 4.0)
			convey.So(cfg.DefaultLookbackDays, convey.ShouldEqual, 30)
			convey.So(cfg.DropStaleResponses, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Derived(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Timezones resolve by IANA name", func() {
			cfg.Timezone = "UTC"
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc, convey.ShouldEqual, time.UTC)

			cfg.Timezone = "Mars/Olympus"
			_, err = cfg.Location()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("The default region parses four comma separated values", func() {
			region, err := cfg.Region()
			convey.So(err, convey.ShouldBeNil)
			convey.So(region, convey.ShouldBeNil)

			cfg.DefaultBBox = "38, 26, 39.5, 28"
			region, err = cfg.Region()
			convey.So(err, convey.ShouldBeNil)
			convey.So(*region, convey.ShouldResemble, model.BoundingBox{South: 38, West: 26, North: 39.5, East: 28})

			cfg.DefaultBBox = "1,2,3"
			_, err = cfg.Region()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg.DefaultBBox = "40,26,39,28"
			_, err = cfg.Region()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Validation rejects out of range values", func() {
			cfg.WorkerCount = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg = config.New(context.Background())
			cfg.DefaultMinMagnitude = 11
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)

			cfg = config.New(context.Background())
			cfg.LogFormat = "xml"
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
