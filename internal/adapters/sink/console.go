package sink

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Console prints detections and series summaries to a writer, mirroring
// what the original exercise printed to stdout during replay.
type Console struct {
	w io.Writer
}

// ConsoleOption applies a configuration option to the Console sink.
type ConsoleOption func(*Console)

// WithWriter redirects output away from stdout, mainly for tests.
func WithWriter(w io.Writer) ConsoleOption {
	return func(c *Console) {
		if w != nil {
			c.w = w
		}
	}
}

// NewConsole creates a console sink writing to stdout by default.
func NewConsole(opts ...ConsoleOption) *Console {
	c := &Console{w: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the sink.
func (*Console) Name() string { return "console" }

// Write prints the detections and a one-line summary per series.
func (c *Console) Write(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if _, err := fmt.Fprintf(c.w, "run %s window [%g, %g] s\n",
		res.RunID, res.StartSeconds, res.EndSeconds); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	for _, s := range res.Series {
		if _, err := fmt.Fprintf(c.w, "series %s: %d samples [%s]\n",
			s.Name, len(s.Samples), s.Unit); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}

	if len(res.Detections) == 0 {
		_, err := fmt.Fprintln(c.w, "no detections")
		if err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		return nil
	}

	for _, d := range res.Detections {
		if _, err := fmt.Fprintf(c.w, "%10.3f  %-8s  %s\n",
			d.Timestamp, d.Severity, d.Message); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
	}
	return nil
}
