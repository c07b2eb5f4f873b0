// Package decoder defines the contract for reading decoded flight-log
// records.
//
// The binary ULog parser itself is an external collaborator; this package
// only fixes the shape it must produce: per-kind columnar batches of raw
// integer timestamps plus one float column per field.
package decoder

import "context"

// Batch is one record kind's worth of decoded data in columnar form.
// Every column, including Timestamps, has the same length.
type Batch struct {
	// Kind is the source record-kind name, e.g. "sensor_combined".
	Kind string

	// Fields lists the column names present, sorted.
	Fields []string

	// Timestamps holds the raw recorder timestamps in microseconds.
	Timestamps []uint64

	// Columns maps each field name to its values, coerced to float64.
	Columns map[string][]float64
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return len(b.Timestamps)
}

// Source provides access to a decoded flight log.
type Source interface {
	// Kinds returns the record-kind names present in the log.
	Kinds(ctx context.Context) ([]string, error)

	// Batch returns the columnar data for one record kind.
	// Returns ErrUnknownKind if the log does not contain the kind.
	Batch(ctx context.Context, kind string) (Batch, error)
}
