// Package app wires the replay pipeline: decode -> normalize -> merge ->
// detect -> sink.
package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/adapters/sink"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/decoder"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/merge"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/normalize"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/logger"
	"github.com/Therkelsen/introduction-to-drone-technology/pkg/metrics"
)

// Service runs one offline replay of a flight log through the detection
// engine. The whole pipeline is synchronous: decode, normalize and merge
// complete before the engine sees the first event.
type Service struct {
	source    decoder.Source
	sinks     []sink.Sink
	detectors []engine.Detector

	start float64
	end   float64

	logger logger.Logger
}

// Report summarizes one completed replay.
type Report struct {
	RunID uuid.UUID

	EventsMerged      int
	PressureSamples   int
	KillSwitchSamples int
	Detections        []model.Detection
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the decoded-log source. Required.
func WithSource(src decoder.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithSinks sets the result sinks. No sinks means the report is the only
// output.
func WithSinks(sinks ...sink.Sink) Option {
	return func(s *Service) {
		s.sinks = sinks
	}
}

// WithDetectors sets the detection algorithms handed to the engine.
func WithDetectors(detectors ...engine.Detector) Option {
	return func(s *Service) {
		s.detectors = detectors
	}
}

// WithWindow sets the window of interest in seconds.
func WithWindow(start, end float64) Option {
	return func(s *Service) {
		s.start = start
		s.end = end
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		start: engine.DefaultStartSeconds,
		end:   engine.DefaultEndSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one replay and renders the result through the configured
// sinks. Any decode, normalize, engine or sink error aborts the run; there
// are no retries in this one-shot batch tool.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no log source configured", ErrRunFailed)
	}

	runID := uuid.New()
	s.logger.Info(ctx, "replay starting",
		logger.String("run_id", runID.String()),
		logger.Float64("start_seconds", s.start),
		logger.Float64("end_seconds", s.end),
	)

	merged, err := s.loadEvents(ctx)
	if err != nil {
		return nil, err
	}

	eng := engine.New(
		engine.WithWindow(s.start, s.end),
		engine.WithDetectors(s.detectors...),
		engine.WithLogger(s.logger.Named("engine")),
	)
	if err := eng.Init(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	detectStart := time.Now()
	for i := range merged {
		// A cancelled replay stops delivery and still finalizes, so partial
		// results stay deterministic.
		if ctx.Err() != nil {
			break
		}
		if err := eng.Update(ctx, &merged[i]); err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrRunFailed, i, err)
		}
	}
	eng.Done(ctx)
	metrics.RecordStageDuration("detect", time.Since(detectStart).Seconds())

	hist := eng.History()
	report := &Report{
		RunID:             runID,
		EventsMerged:      len(merged),
		PressureSamples:   len(hist.Pressure()),
		KillSwitchSamples: len(hist.KillSwitch()),
		Detections:        eng.Detections(),
	}

	res := &sink.Result{
		RunID:        runID,
		StartSeconds: s.start,
		EndSeconds:   s.end,
		Detections:   eng.Detections(),
		Series: []model.Series{
			hist.PressureSeries(),
			hist.KillSwitchSeries(),
		},
	}
	// Sinks render with a detached context: after a cancelled replay, Done
	// has already flushed partial results, and they must still reach the
	// sinks instead of being dropped on the floor.
	sinkCtx := context.WithoutCancel(ctx)
	for _, snk := range s.sinks {
		if err := snk.Write(sinkCtx, res); err != nil {
			return nil, fmt.Errorf("%w: sink %s: %w", ErrRunFailed, snk.Name(), err)
		}
	}

	s.logger.Info(ctx, "replay finished",
		logger.String("run_id", runID.String()),
		logger.Int("events", report.EventsMerged),
		logger.Int("detections", len(report.Detections)),
	)
	return report, nil
}

// loadEvents decodes and normalizes every known record kind present in the
// log and merges the per-kind streams chronologically.
func (s *Service) loadEvents(ctx context.Context) ([]model.Event, error) {
	decodeStart := time.Now()

	present, err := s.source.Kinds(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	var streams [][]model.Event
	for _, kind := range normalize.Kinds() {
		if !slices.Contains(present, kind) {
			s.logger.Warn(ctx, "record kind absent from log", logger.String("kind", kind))
			continue
		}
		batch, err := s.source.Batch(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
		}
		metrics.RecordRecordsDecoded(kind, batch.Len())

		events, err := normalize.Batch(&batch)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
		}
		metrics.RecordEventsNormalized(kind, len(events))
		streams = append(streams, events)
	}
	metrics.RecordStageDuration("decode", time.Since(decodeStart).Seconds())

	mergeStart := time.Now()
	merged := merge.Streams(streams...)
	metrics.RecordEventsMerged(len(merged))
	metrics.RecordStageDuration("merge", time.Since(mergeStart).Seconds())

	s.logger.Info(ctx, "log loaded",
		logger.Int("streams", len(streams)),
		logger.Int("events", len(merged)),
	)
	return merged, nil
}
