package sink

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrWriteOutput = errors.New("write output failed")
)
