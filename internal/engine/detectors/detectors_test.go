package detectors_test

import (
	"context"
	"io"
	"testing"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine/detectors"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.InitWithWriter(io.Discard)
}

func TestBuild(t *testing.T) {
	Convey("Given configured detector names", t, func() {
		cfg := detectors.Config{}

		Convey("When all names are known", func() {
			set, err := detectors.Build([]string{"noop", "pressure", "killswitch"}, cfg)

			So(err, ShouldBeNil)
			So(set, ShouldHaveLength, 3)
			So(set[0].Name(), ShouldEqual, "noop")
			So(set[1].Name(), ShouldEqual, "pressure")
			So(set[2].Name(), ShouldEqual, "killswitch")
		})

		Convey("When a name is unknown", func() {
			_, err := detectors.Build([]string{"pressure", "vibration"}, cfg)

			So(err, ShouldWrap, detectors.ErrUnknownDetector)
			So(err.Error(), ShouldContainSubstring, "vibration")
		})

		Convey("When no detectors are configured", func() {
			set, err := detectors.Build(nil, cfg)

			So(err, ShouldBeNil)
			So(set, ShouldBeEmpty)
		})
	})
}

// runPressure feeds a pressure curve through an engine wired with the
// detector under test and returns what it emitted.
func runPressure(det engine.Detector, samples []model.Sample) []model.Detection {
	ctx := context.Background()
	e := engine.New(engine.WithWindow(0.5, 1e9), engine.WithDetectors(det))
	if err := e.Init(ctx); err != nil {
		panic(err)
	}
	for _, s := range samples {
		ev := model.Event{
			Timestamp: s.Time,
			Kind:      model.KindPressure,
			Pressure:  &model.PressurePayload{PressurePa: s.Value},
		}
		if err := e.Update(ctx, &ev); err != nil {
			panic(err)
		}
	}
	e.Done(ctx)
	return e.Detections()
}

func TestPressureDetector(t *testing.T) {
	Convey("Given a pressure detector at 30 Pa/s with 3 warm-up samples", t, func() {
		det := detectors.NewPressure(30, 3)

		Convey("When pressure holds steady", func() {
			out := runPressure(det, []model.Sample{
				{Time: 100, Value: 101300}, {Time: 110, Value: 101301},
				{Time: 120, Value: 101299}, {Time: 130, Value: 101300},
			})

			So(out, ShouldBeEmpty)
		})

		Convey("When pressure climbs past the threshold", func() {
			out := runPressure(det, []model.Sample{
				{Time: 100, Value: 101000}, {Time: 101, Value: 101005},
				{Time: 102, Value: 101010},
				// 200 Pa in one second: way past 30 Pa/s.
				{Time: 103, Value: 101210},
				{Time: 104, Value: 101410},
			})

			Convey("Then exactly one detection flags the excursion", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Severity, ShouldEqual, model.SeverityCritical)
				So(out[0].Timestamp, ShouldEqual, 103)
				So(out[0].Message, ShouldContainSubstring, "rapid descent")
			})
		})

		Convey("When the rate recovers and spikes again", func() {
			out := runPressure(det, []model.Sample{
				{Time: 100, Value: 101000}, {Time: 101, Value: 101001},
				{Time: 102, Value: 101002},
				{Time: 103, Value: 101200}, // first spike
				{Time: 104, Value: 101201}, // recovered
				{Time: 105, Value: 101400}, // second spike
			})

			Convey("Then each excursion is flagged once", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Timestamp, ShouldEqual, 103)
				So(out[1].Timestamp, ShouldEqual, 105)
			})
		})

		Convey("When too few samples have arrived", func() {
			out := runPressure(det, []model.Sample{
				{Time: 100, Value: 101000},
				{Time: 101, Value: 101500},
			})

			Convey("Then the warm-up suppresses judgement", func() {
				So(out, ShouldBeEmpty)
			})
		})
	})
}

func runKillSwitch(det engine.Detector, samples []model.Sample) []model.Detection {
	ctx := context.Background()
	e := engine.New(engine.WithWindow(0.5, 1e9), engine.WithDetectors(det))
	if err := e.Init(ctx); err != nil {
		panic(err)
	}
	for _, s := range samples {
		ev := model.Event{
			Timestamp:  s.Time,
			Kind:       model.KindKillSwitch,
			KillSwitch: &model.KillSwitchPayload{State: s.Value},
		}
		if err := e.Update(ctx, &ev); err != nil {
			panic(err)
		}
	}
	e.Done(ctx)
	return e.Detections()
}

func TestKillSwitchDetector(t *testing.T) {
	Convey("Given a kill-switch detector with a 0.5 threshold", t, func() {
		Convey("When the switch stays released", func() {
			out := runKillSwitch(detectors.NewKillSwitch(0.5), []model.Sample{
				{Time: 100, Value: -1}, {Time: 110, Value: -1}, {Time: 120, Value: -1},
			})

			So(out, ShouldBeEmpty)
		})

		Convey("When the switch is asserted mid-flight", func() {
			out := runKillSwitch(detectors.NewKillSwitch(0.5), []model.Sample{
				{Time: 100, Value: -1}, {Time: 110, Value: -1}, {Time: 120, Value: 1},
				{Time: 130, Value: 1},
			})

			Convey("Then the rising edge is critical", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Severity, ShouldEqual, model.SeverityCritical)
				So(out[0].Timestamp, ShouldEqual, 120)
				So(out[0].Message, ShouldContainSubstring, "asserted")
			})
		})

		Convey("When the switch is already asserted at window entry", func() {
			out := runKillSwitch(detectors.NewKillSwitch(0.5), []model.Sample{
				{Time: 100, Value: 1}, {Time: 110, Value: 1},
			})

			Convey("Then the entry state is a warning", func() {
				So(out, ShouldHaveLength, 1)
				So(out[0].Severity, ShouldEqual, model.SeverityWarning)
				So(out[0].Message, ShouldContainSubstring, "window entry")
			})
		})

		Convey("When the switch is released again", func() {
			out := runKillSwitch(detectors.NewKillSwitch(0.5), []model.Sample{
				{Time: 100, Value: -1}, {Time: 110, Value: 1}, {Time: 120, Value: -1},
			})

			Convey("Then both edges are reported", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Severity, ShouldEqual, model.SeverityCritical)
				So(out[1].Severity, ShouldEqual, model.SeverityInfo)
				So(out[1].Message, ShouldContainSubstring, "released")
			})
		})
	})
}
