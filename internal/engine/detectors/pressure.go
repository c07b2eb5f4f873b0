package detectors

import (
	"context"
	"fmt"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
)

// Default pressure detector tuning. 30 Pa/s corresponds to roughly 2.5 m/s
// of descent near sea level, well above a controlled landing.
const (
	defaultPressureDropPaPerS = 30.0
	defaultMinPressureSamples = 5

	// rateBaselineSeconds is the minimum span the rate is computed over.
	// Judging adjacent samples at barometer rates would amplify sensor
	// noise into phantom descents.
	rateBaselineSeconds = 1.0
)

// Pressure flags barometric pressure climbing faster than a configured
// rate, which on a descending airframe means the vehicle is losing altitude
// faster than any intended maneuver.
type Pressure struct {
	ratePaPerS float64
	minSamples int

	// tripped prevents re-flagging the same excursion on every sample
	// until the rate recovers below threshold.
	tripped bool
}

// NewPressure creates the detector; non-positive arguments fall back to the
// defaults.
func NewPressure(ratePaPerS float64, minSamples int) *Pressure {
	p := &Pressure{
		ratePaPerS: defaultPressureDropPaPerS,
		minSamples: defaultMinPressureSamples,
	}
	if ratePaPerS > 0 {
		p.ratePaPerS = ratePaPerS
	}
	if minSamples > 0 {
		p.minSamples = minSamples
	}
	return p
}

// Name identifies the detector.
func (*Pressure) Name() string { return NamePressure }

// Observe judges the latest pressure sample against its predecessor.
func (p *Pressure) Observe(_ context.Context, e *model.Event, hist *engine.History, emit engine.EmitFunc) {
	if e.Kind != model.KindPressure {
		return
	}
	samples := hist.Pressure()
	if len(samples) < p.minSamples {
		return
	}

	last := samples[len(samples)-1]
	base, ok := baseline(samples, last.Time)
	if !ok {
		return
	}
	dt := last.Time - base.Time
	if dt <= 0 {
		return
	}
	rate := (last.Value - base.Value) / dt

	if rate >= p.ratePaPerS {
		if !p.tripped {
			p.tripped = true
			emit(model.Detection{
				Timestamp: last.Time,
				Severity:  model.SeverityCritical,
				Message: fmt.Sprintf("pressure climbing %.1f Pa/s (threshold %.1f): rapid descent",
					rate, p.ratePaPerS),
			})
		}
		return
	}
	p.tripped = false
}

// baseline returns the newest sample at least rateBaselineSeconds older
// than now.
func baseline(samples []model.Sample, now float64) (model.Sample, bool) {
	for i := len(samples) - 2; i >= 0; i-- {
		if now-samples[i].Time >= rateBaselineSeconds {
			return samples[i], true
		}
	}
	return model.Sample{}, false
}

// Flush does nothing; the detector judges samples as they arrive.
func (*Pressure) Flush(context.Context, *engine.History, engine.EmitFunc) {}
