// Package detectors ships the concrete detection algorithms that plug into
// the engine.
package detectors

import (
	"errors"
	"fmt"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
)

// Detector names accepted in configuration.
const (
	NameNoop       = "noop"
	NamePressure   = "pressure"
	NameKillSwitch = "killswitch"
)

// ErrUnknownDetector is returned by New for an unrecognized name.
var ErrUnknownDetector = errors.New("unknown detector")

// Config carries the tuning knobs shared by the shipped detectors.
type Config struct {
	// PressureDropPaPerS is the pressure rate of change (Pa/s) above which
	// the pressure detector flags a rapid descent.
	PressureDropPaPerS float64

	// MinPressureSamples is how many samples the pressure detector needs
	// before it starts judging rates.
	MinPressureSamples int

	// KillSwitchThreshold is the aux channel level at or above which the
	// switch counts as asserted.
	KillSwitchThreshold float64
}

// New builds one detector by name.
func New(name string, cfg Config) (engine.Detector, error) {
	switch name {
	case NameNoop:
		return &Noop{}, nil
	case NamePressure:
		return NewPressure(cfg.PressureDropPaPerS, cfg.MinPressureSamples), nil
	case NameKillSwitch:
		return NewKillSwitch(cfg.KillSwitchThreshold), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetector, name)
	}
}

// Build resolves a list of configured detector names.
func Build(names []string, cfg Config) ([]engine.Detector, error) {
	out := make([]engine.Detector, 0, len(names))
	for _, name := range names {
		d, err := New(name, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
