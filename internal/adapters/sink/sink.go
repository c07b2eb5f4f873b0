// Package sink defines the contract for rendering replay results.
//
// Sinks receive the engine output after a run: the detections and the
// named time series restricted to the window of interest. Plotting proper
// is left to external tooling; the shipped sinks print and export.
package sink

import (
	"context"

	"github.com/google/uuid"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
)

// Result is one run's sink-visible output.
type Result struct {
	// RunID tags all artifacts of one replay.
	RunID uuid.UUID

	// StartSeconds and EndSeconds echo the window of interest.
	StartSeconds float64
	EndSeconds   float64

	Detections []model.Detection
	Series     []model.Series
}

// Sink renders one replay result.
type Sink interface {
	// Write renders the result. Implementations must not retain res after
	// returning.
	Write(ctx context.Context, res *Result) error

	// Name identifies the sink in logs.
	Name() string
}
