// Package engine implements the stateful detection core of the replay
// pipeline. It consumes one chronological event stream, filters it to the
// configured window of interest, accumulates sensor histories, and drives
// pluggable detection algorithms.
package engine

import (
	"context"
	"fmt"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/logger"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/metrics"
)

// State is the engine lifecycle state.
type State int

const (
	// StateInit is the state before Init is called.
	StateInit State = iota
	// StateRunning accepts events via Update.
	StateRunning
	// StateDone is terminal; Done is idempotent once reached.
	StateDone
)

// Default window bounds, matching the flight-test logs this exercise ships
// with (detection is meaningless during bench time before takeoff). The
// config and app layers reference these so the window cannot drift between
// layers.
const (
	DefaultStartSeconds = 100.0
	DefaultEndSeconds   = 900.0
)

// Engine filters events to the window of interest, owns the accumulated
// histories, and dispatches events to the configured detectors.
//
// The engine is single-goroutine by contract: the pipeline is a synchronous
// batch replay, so no locking is needed around its state.
type Engine struct {
	state State

	// Window of interest. Bounds are strict on both ends: an event at
	// exactly start or end is outside the window.
	start float64
	end   float64

	hist       History
	detectors  []Detector
	emit       EmitFunc
	detections []model.Detection

	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWindow sets the window of interest in seconds.
func WithWindow(start, end float64) Option {
	return func(e *Engine) {
		e.start = start
		e.end = end
	}
}

// WithDetectors sets the detection algorithms to run. No detectors means the
// base behavior: histories accumulate, nothing is flagged.
func WithDetectors(detectors ...Detector) Option {
	return func(e *Engine) {
		e.detectors = detectors
	}
}

// WithEmit sets a callback invoked for every detection as it is emitted, in
// addition to the engine's own record of detections.
func WithEmit(emit EmitFunc) Option {
	return func(e *Engine) {
		e.emit = emit
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine in the INIT state.
func New(opts ...Option) *Engine {
	e := &Engine{
		state: StateInit,
		start: DefaultStartSeconds,
		end:   DefaultEndSeconds,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Init transitions INIT -> RUNNING and resets the accumulators. It must be
// called exactly once before any event is fed.
func (e *Engine) Init(ctx context.Context) error {
	if e.state != StateInit {
		return fmt.Errorf("%w: state %d", ErrAlreadyInitialized, e.state)
	}
	if e.logger == nil {
		e.logger = logger.Get().Named("engine")
	}

	e.hist = History{}
	e.detections = nil
	e.state = StateRunning

	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	e.logger.Info(ctx, "engine initialized",
		logger.Float64("start_seconds", e.start),
		logger.Float64("end_seconds", e.end),
		logger.Any("detectors", names),
	)
	return nil
}

// Update feeds one event to the engine. Valid only in RUNNING. Events
// outside the window of interest are dropped without buffering. A payload
// missing for the event's kind fails with ErrMalformedEvent and the run
// must abort; no detection is emitted for the offending event.
func (e *Engine) Update(ctx context.Context, ev *model.Event) error {
	if e.state != StateRunning {
		return fmt.Errorf("%w: state %d", ErrNotRunning, e.state)
	}

	if ev.Timestamp <= e.start || ev.Timestamp >= e.end {
		metrics.RecordEventFiltered()
		return nil
	}

	switch ev.Kind {
	case model.KindIMU:
		if ev.IMU == nil {
			return e.malformed(ev, "imu payload")
		}
		// Observed but not accumulated: no IMU detector ships yet, and the
		// history would dominate memory at IMU sample rates.
	case model.KindPressure:
		if ev.Pressure == nil {
			return e.malformed(ev, "baro_pressure_pa")
		}
		e.hist.pressure = append(e.hist.pressure, model.Sample{
			Time:  ev.Timestamp,
			Value: ev.Pressure.PressurePa,
		})
	case model.KindKillSwitch:
		if ev.KillSwitch == nil {
			return e.malformed(ev, "aux1")
		}
		e.hist.killSwitch = append(e.hist.killSwitch, model.Sample{
			Time:  ev.Timestamp,
			Value: ev.KillSwitch.State,
		})
	default:
		return e.malformed(ev, "kind")
	}

	metrics.RecordEventObserved(ev.Kind.String())

	for _, d := range e.detectors {
		d.Observe(ctx, ev, &e.hist, e.record)
	}
	return nil
}

// Done transitions RUNNING -> DONE, flushing final detections and freezing
// the histories for sinks. Calling Done again after DONE is a no-op.
func (e *Engine) Done(ctx context.Context) {
	if e.state != StateRunning {
		return
	}

	for _, d := range e.detectors {
		d.Flush(ctx, &e.hist, e.record)
	}
	e.state = StateDone

	e.logger.Info(ctx, "engine done",
		logger.Int("pressure_samples", len(e.hist.pressure)),
		logger.Int("kill_switch_samples", len(e.hist.killSwitch)),
		logger.Int("detections", len(e.detections)),
	)
}

// History exposes the accumulated in-window histories. Read-only for
// callers; intended for sinks after Done.
func (e *Engine) History() *History {
	return &e.hist
}

// Detections returns all detections emitted so far, in emission order.
// The returned slice is shared; callers must not mutate it.
func (e *Engine) Detections() []model.Detection {
	return e.detections
}

// record is the EmitFunc handed to detectors.
func (e *Engine) record(d model.Detection) {
	e.detections = append(e.detections, d)
	metrics.RecordDetection(string(d.Severity))
	if e.emit != nil {
		e.emit(d)
	}
}

func (e *Engine) malformed(ev *model.Event, field string) error {
	metrics.RecordMalformedEvent()
	return fmt.Errorf("%w: kind %s at t=%.6fs missing %s",
		ErrMalformedEvent, ev.Kind, ev.Timestamp, field)
}
