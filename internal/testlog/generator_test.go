package testlog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/decoder"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/testlog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a default flight config", t, func() {
		cfg := testlog.DefaultConfig()
		cfg.DurationSeconds = 60

		Convey("When generating", func() {
			data, err := testlog.Generate(cfg)
			So(err, ShouldBeNil)

			Convey("Then the output is decodable with all three record kinds", func() {
				path := filepath.Join(t.TempDir(), "flight.json")
				So(os.WriteFile(path, data, 0o644), ShouldBeNil)

				src := decoder.NewJSONFileSource(path)
				kinds, err := src.Kinds(context.Background())
				So(err, ShouldBeNil)
				So(kinds, ShouldResemble, []string{
					"sensor_combined", "vehicle_air_data", "manual_control_setpoint",
				})

				baro, err := src.Batch(context.Background(), "vehicle_air_data")
				So(err, ShouldBeNil)
				So(baro.Len(), ShouldEqual, 600) // 60 s at 10 Hz
			})

			Convey("Then generation is deterministic for a fixed seed", func() {
				again, err := testlog.Generate(cfg)
				So(err, ShouldBeNil)
				So(string(again), ShouldEqual, string(data))
			})
		})

		Convey("When the seed changes", func() {
			data, err := testlog.Generate(cfg)
			So(err, ShouldBeNil)

			cfg.Seed = 7
			other, err := testlog.Generate(cfg)
			So(err, ShouldBeNil)

			So(string(other), ShouldNotEqual, string(data))
		})

		Convey("When the duration is invalid", func() {
			cfg.DurationSeconds = 0

			_, err := testlog.Generate(cfg)

			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a scripted kill switch", t, func() {
		cfg := testlog.DefaultConfig()
		cfg.DurationSeconds = 60
		cfg.KillAtSeconds = 30

		data, err := testlog.Generate(cfg)
		So(err, ShouldBeNil)

		path := filepath.Join(t.TempDir(), "flight.json")
		So(os.WriteFile(path, data, 0o644), ShouldBeNil)

		manual, err := decoder.NewJSONFileSource(path).Batch(context.Background(), "manual_control_setpoint")
		So(err, ShouldBeNil)

		Convey("Then the aux channel flips at the scripted time", func() {
			aux := manual.Columns["aux1"]
			So(aux[0], ShouldEqual, -1)
			So(aux[len(aux)-1], ShouldEqual, 1)
		})
	})
}
