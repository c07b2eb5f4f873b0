package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrRunFailed = errors.New("replay run failed")
)
