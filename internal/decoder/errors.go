package decoder

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrDecode         = errors.New("decode log failed")
	ErrUnknownKind    = errors.New("unknown record kind")
	ErrColumnMismatch = errors.New("column length mismatch")
)
