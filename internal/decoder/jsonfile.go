package decoder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// jsonSubset mirrors one record kind in the columnar JSON dump format
// produced by exporting a ULog (one object per kind, timestamps plus one
// array per field).
type jsonSubset struct {
	Name       string               `json:"name"`
	Timestamps []uint64             `json:"timestamps"`
	Fields     map[string][]float64 `json:"fields"`
}

type jsonLog struct {
	Subsets []jsonSubset `json:"subsets"`
}

// JSONFileSource implements Source backed by a columnar JSON export of a
// flight log. The file is read and validated lazily on first access and
// cached for the rest of the run.
type JSONFileSource struct {
	path string

	once    sync.Once
	loadErr error
	batches map[string]Batch
	kinds   []string
}

// NewJSONFileSource creates a source reading the given columnar JSON file.
func NewJSONFileSource(path string) *JSONFileSource {
	return &JSONFileSource{path: path}
}

// Kinds returns the record-kind names present in the log, in file order.
func (s *JSONFileSource) Kinds(ctx context.Context) ([]string, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	out := make([]string, len(s.kinds))
	copy(out, s.kinds)
	return out, nil
}

// Batch returns the columnar data for one record kind.
func (s *JSONFileSource) Batch(ctx context.Context, kind string) (Batch, error) {
	if err := s.load(ctx); err != nil {
		return Batch{}, err
	}
	b, ok := s.batches[kind]
	if !ok {
		return Batch{}, fmt.Errorf("%w: %q in %s", ErrUnknownKind, kind, s.path)
	}
	return b, nil
}

func (s *JSONFileSource) load(ctx context.Context) error {
	s.once.Do(func() {
		s.loadErr = s.doLoad(ctx)
	})
	return s.loadErr
}

func (s *JSONFileSource) doLoad(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrDecode, s.path, err)
	}

	var log jsonLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrDecode, s.path, err)
	}

	s.batches = make(map[string]Batch, len(log.Subsets))
	s.kinds = make([]string, 0, len(log.Subsets))
	for _, sub := range log.Subsets {
		if sub.Name == "" {
			return fmt.Errorf("%w: %s: subset without a name", ErrDecode, s.path)
		}
		b := Batch{
			Kind:       sub.Name,
			Timestamps: sub.Timestamps,
			Columns:    sub.Fields,
			Fields:     make([]string, 0, len(sub.Fields)),
		}
		for field, col := range sub.Fields {
			if len(col) != len(sub.Timestamps) {
				return fmt.Errorf("%w: %s: field %q has %d values for %d timestamps",
					ErrColumnMismatch, sub.Name, field, len(col), len(sub.Timestamps))
			}
			b.Fields = append(b.Fields, field)
		}
		sort.Strings(b.Fields)
		s.batches[sub.Name] = b
		s.kinds = append(s.kinds, sub.Name)
	}
	return nil
}
