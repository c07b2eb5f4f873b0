package config_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/config"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"UAVDETECT_CONFIG",
		"UAVDETECT_LOG_FILE_PATH",
		"UAVDETECT_START_SECONDS",
		"UAVDETECT_END_SECONDS",
		"UAVDETECT_LOG_LEVEL",
		"UAVDETECT_OUTPUT_DIR",
		"UAVDETECT_DETECTORS",
	} {
		_ = os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.StartSeconds, convey.ShouldEqual, engine.DefaultStartSeconds)
				convey.So(cfg.EndSeconds, convey.ShouldEqual, engine.DefaultEndSeconds)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Detectors, convey.ShouldResemble, []string{"pressure", "killswitch"})
				convey.So(cfg.KillSwitchThreshold, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("UAVDETECT_LOG_FILE_PATH", "TEST5_30-01-19.json")
			_ = os.Setenv("UAVDETECT_START_SECONDS", "200")
			_ = os.Setenv("UAVDETECT_END_SECONDS", "800")
			_ = os.Setenv("UAVDETECT_LOG_LEVEL", "debug")
			defer clearConfigEnvVars(t)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFilePath, convey.ShouldEqual, "TEST5_30-01-19.json")
				convey.So(cfg.StartSeconds, convey.ShouldEqual, 200)
				convey.So(cfg.EndSeconds, convey.ShouldEqual, 800)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When the detector list comes from the environment", func() {
			_ = os.Setenv("UAVDETECT_DETECTORS", "noop, killswitch")
			defer clearConfigEnvVars(t)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the comma-separated value splits into a slice", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Detectors, convey.ShouldResemble, []string{"noop", "killswitch"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
log_file_path: flight.json
start_seconds: 150
end_seconds: 850
detectors: [noop]
output_dir: exports
`)

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFilePath, convey.ShouldEqual, "flight.json")
				convey.So(cfg.StartSeconds, convey.ShouldEqual, 150)
				convey.So(cfg.EndSeconds, convey.ShouldEqual, 850)
				convey.So(cfg.Detectors, convey.ShouldResemble, []string{"noop"})
				convey.So(cfg.OutputDir, convey.ShouldEqual, "exports")
			})
		})

		convey.Convey("When env vars override the file", func() {
			path := writeConfigFile(t, `
log_file_path: flight.json
start_seconds: 150
`)
			_ = os.Setenv("UAVDETECT_START_SECONDS", "300")
			defer clearConfigEnvVars(t)

			cfg, err := config.Load(ctx, path)

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.StartSeconds, convey.ShouldEqual, 300)
			convey.So(cfg.LogFilePath, convey.ShouldEqual, "flight.json")
		})

		convey.Convey("When the config file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		ctx := context.Background()
		base := config.New(ctx)
		base.LogFilePath = "flight.json"

		convey.Convey("A valid window passes", func() {
			convey.So(base.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("An empty log path fails", func() {
			base.LogFilePath = ""
			convey.So(base.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("start >= end fails", func() {
			base.StartSeconds = 900
			base.EndSeconds = 900
			convey.So(base.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("A negative start fails", func() {
			base.StartSeconds = -1
			convey.So(base.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})

		convey.Convey("Non-finite bounds fail", func() {
			base.StartSeconds = math.NaN()
			convey.So(base.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)

			base.StartSeconds = 100
			base.EndSeconds = math.Inf(1)
			convey.So(base.Validate(), convey.ShouldWrap, config.ErrInvalidConfig)
		})
	})
}
