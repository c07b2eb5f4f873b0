package engine

import (
	"context"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
)

// EmitFunc delivers one detection to whoever runs the engine. Ownership of
// the detection transfers on the call.
type EmitFunc func(model.Detection)

// Detector is a pluggable failure-detection algorithm. The engine calls
// Observe for every event inside the window of interest, after the event has
// been appended to the history, and Flush exactly once when the stream is
// finalized. Implementations keep whatever private state they need for one
// run; the engine never reuses a detector across runs.
type Detector interface {
	// Name identifies the detector in logs and configuration.
	Name() string

	// Observe inspects one in-window event. The history reflects all
	// in-window events up to and including e.
	Observe(ctx context.Context, e *model.Event, hist *History, emit EmitFunc)

	// Flush emits any final detections once the stream is exhausted.
	Flush(ctx context.Context, hist *History, emit EmitFunc)
}
