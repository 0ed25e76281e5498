package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/quakeboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"QUAKEBOARD_CONFIG", "QUAKEBOARD_ENV_FILE", "QUAKEBOARD_ADDR", "QUAKEBOARD_QUEUE_SIZE",
	"QUAKEBOARD_WORKER_COUNT", "QUAKEBOARD_DEDUPE_SIZE", "QUAKEBOARD_TIMEZONE",
	"QUAKEBOARD_CATALOG_TIMEOUT_MS", "QUAKEBOARD_DROP_STALE_RESPONSES", "QUAKEBOARD_DEFAULT_MIN_MAGNITUDE",
	"QUAKEBOARD_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		// keep a stray .env in the working directory out of the test
		_ = os.Setenv("QUAKEBOARD_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.DropStaleResponses, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("QUAKEBOARD_ADDR", ":8080")
			_ = os.Setenv("QUAKEBOARD_QUEUE_SIZE", "10")
			_ = os.Setenv("QUAKEBOARD_WORKER_COUNT", "4")
			_ = os.Setenv("QUAKEBOARD_CATALOG_TIMEOUT_MS", "0")
			_ = os.Setenv("QUAKEBOARD_DROP_STALE_RESPONSES", "false")
			_ = os.Setenv("QUAKEBOARD_DEFAULT_MIN_MAGNITUDE", "2.5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.CatalogTimeoutMS, convey.ShouldEqual, 0)
				convey.So(cfg.DropStaleResponses, convey.ShouldBeFalse)
				convey.So(cfg.DefaultMinMagnitude, convey.ShouldEqual, 2.5)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeTemp(t, "quakeboard.yaml", `
addr: ":9090"
timezone: "UTC"
worker_count: 3
default_bbox: "38,26,39,28"
`)
			_ = os.Setenv("QUAKEBOARD_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.DefaultBBox, convey.ShouldEqual, "38,26,39,28")
			})

			convey.Convey("And env vars take precedence over the file", func() {
				_ = os.Setenv("QUAKEBOARD_WORKER_COUNT", "7")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When a .env file is present", func() {
			path := writeTemp(t, "test.env", "QUAKEBOARD_LOG_LEVEL=debug\nQUAKEBOARD_TIMEZONE=UTC\n")
			_ = os.Setenv("QUAKEBOARD_ENV_FILE", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are applied", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("QUAKEBOARD_CONFIG", "/nonexistent/quakeboard.yaml")
			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a value is out of range", func() {
			_ = os.Setenv("QUAKEBOARD_WORKER_COUNT", "0")
			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
