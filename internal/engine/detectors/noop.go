package detectors

import (
	"context"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
)

// Noop is the base algorithm: it observes every in-window event and flags
// nothing. The engine still accumulates histories for the sinks, so a run
// with only this detector reproduces the plain replay-and-plot behavior.
type Noop struct{}

// Name identifies the detector.
func (*Noop) Name() string { return NameNoop }

// Observe does nothing.
func (*Noop) Observe(context.Context, *model.Event, *engine.History, engine.EmitFunc) {}

// Flush does nothing.
func (*Noop) Flush(context.Context, *engine.History, engine.EmitFunc) {}
