package engine

import "github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"

// History holds the accumulated in-window sensor series. It is owned by the
// engine and mutated only on the processing goroutine; detectors and sinks
// get read access.
type History struct {
	pressure   []model.Sample
	killSwitch []model.Sample
}

// Pressure returns the accumulated (time, pascal) pressure samples.
// The returned slice is shared; callers must not mutate it.
func (h *History) Pressure() []model.Sample {
	return h.pressure
}

// KillSwitch returns the accumulated (time, channel level) samples.
// The returned slice is shared; callers must not mutate it.
func (h *History) KillSwitch() []model.Sample {
	return h.killSwitch
}

// PressureSeries packages the pressure history as a named series for sinks.
func (h *History) PressureSeries() model.Series {
	return model.Series{
		Name:    "pressure",
		Unit:    "Pa",
		Samples: h.pressure,
	}
}

// KillSwitchSeries packages the kill-switch history as a named series.
func (h *History) KillSwitchSeries() model.Series {
	return model.Series{
		Name:    "kill_switch",
		Unit:    "level",
		Samples: h.killSwitch,
	}
}
