package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
)

// CSV exports every series of a result to one CSV file per series in the
// output directory, so the curves can be plotted with external tooling.
// File names are <series>.csv with a time,value header.
type CSV struct {
	dir string
}

// NewCSV creates a CSV export sink writing into dir.
func NewCSV(dir string) *CSV {
	return &CSV{dir: dir}
}

// Name identifies the sink.
func (*CSV) Name() string { return "csv" }

// Write exports all series and, when detections exist, a detections.csv.
func (c *CSV) Write(ctx context.Context, res *Result) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteOutput, c.dir, err)
	}

	for i := range res.Series {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		if err := c.writeSeries(&res.Series[i]); err != nil {
			return err
		}
	}

	if len(res.Detections) > 0 {
		if err := c.writeDetections(res.Detections); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSV) writeSeries(s *model.Series) error {
	path := filepath.Join(c.dir, s.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteOutput, path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time_s", s.Name + "_" + s.Unit}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	for _, sample := range s.Samples {
		rec := []string{
			strconv.FormatFloat(sample.Time, 'f', -1, 64),
			strconv.FormatFloat(sample.Value, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWriteOutput, path, err)
	}
	return nil
}

func (c *CSV) writeDetections(detections []model.Detection) error {
	path := filepath.Join(c.dir, "detections.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrWriteOutput, path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time_s", "severity", "message"}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	for _, d := range detections {
		rec := []string{
			strconv.FormatFloat(d.Timestamp, 'f', -1, 64),
			string(d.Severity),
			d.Message,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWriteOutput, path, err)
	}
	return nil
}
