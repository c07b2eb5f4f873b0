package decoder_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/decoder"
	. "github.com/smartystreets/goconvey/convey"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flight.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestJSONFileSource(t *testing.T) {
	Convey("Given a columnar JSON flight log", t, func() {
		ctx := context.Background()

		Convey("When the file is well formed", func() {
			path := writeLog(t, `{"subsets":[
				{"name":"vehicle_air_data","timestamps":[1000000,2000000],
				 "fields":{"baro_pressure_pa":[101300,101298]}},
				{"name":"manual_control_setpoint","timestamps":[1500000],
				 "fields":{"aux1":[-1]}}
			]}`)
			src := decoder.NewJSONFileSource(path)

			Convey("Then Kinds lists every subset in file order", func() {
				kinds, err := src.Kinds(ctx)
				So(err, ShouldBeNil)
				So(kinds, ShouldResemble, []string{"vehicle_air_data", "manual_control_setpoint"})
			})

			Convey("Then Batch returns the columnar data", func() {
				b, err := src.Batch(ctx, "vehicle_air_data")
				So(err, ShouldBeNil)
				So(b.Len(), ShouldEqual, 2)
				So(b.Timestamps, ShouldResemble, []uint64{1000000, 2000000})
				So(b.Columns["baro_pressure_pa"], ShouldResemble, []float64{101300, 101298})
				So(b.Fields, ShouldResemble, []string{"baro_pressure_pa"})
			})

			Convey("Then an absent kind fails with ErrUnknownKind", func() {
				_, err := src.Batch(ctx, "sensor_combined")
				So(err, ShouldWrap, decoder.ErrUnknownKind)
			})
		})

		Convey("When the file does not exist", func() {
			src := decoder.NewJSONFileSource(filepath.Join(t.TempDir(), "missing.json"))

			_, err := src.Kinds(ctx)

			So(err, ShouldWrap, decoder.ErrDecode)
		})

		Convey("When the file is not valid JSON", func() {
			src := decoder.NewJSONFileSource(writeLog(t, "not json"))

			_, err := src.Kinds(ctx)

			So(err, ShouldWrap, decoder.ErrDecode)
		})

		Convey("When a column length disagrees with the timestamps", func() {
			src := decoder.NewJSONFileSource(writeLog(t, `{"subsets":[
				{"name":"vehicle_air_data","timestamps":[1000000,2000000],
				 "fields":{"baro_pressure_pa":[101300]}}
			]}`))

			_, err := src.Kinds(ctx)

			Convey("Then loading fails with ErrColumnMismatch", func() {
				So(err, ShouldWrap, decoder.ErrColumnMismatch)
				So(err.Error(), ShouldContainSubstring, "baro_pressure_pa")
			})
		})

		Convey("When a subset has no name", func() {
			src := decoder.NewJSONFileSource(writeLog(t, `{"subsets":[
				{"timestamps":[1000000],"fields":{"aux1":[1]}}
			]}`))

			_, err := src.Kinds(ctx)

			So(err, ShouldWrap, decoder.ErrDecode)
		})

		Convey("When loading fails once", func() {
			src := decoder.NewJSONFileSource(writeLog(t, "broken"))
			_, first := src.Kinds(ctx)
			_, second := src.Batch(ctx, "vehicle_air_data")

			Convey("Then every later access reports the same failure", func() {
				So(first, ShouldNotBeNil)
				So(second, ShouldWrap, decoder.ErrDecode)
			})
		})
	})
}
