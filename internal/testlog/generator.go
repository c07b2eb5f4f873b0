// Package testlog generates synthetic flight logs in the columnar JSON
// format the decoder reads. Tests and the gen subcommand use it to get
// reproducible flights with scripted failures instead of shipping real
// multi-megabyte recordings.
package testlog

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
)

// Default flight profile values.
const (
	defaultDurationSeconds = 1000.0
	defaultIMURateHz       = 50.0
	defaultBaroRateHz      = 10.0
	defaultManualRateHz    = 5.0
	defaultGroundPa        = 101325.0
	defaultCruiseAltM      = 50.0
	defaultSeed            = 42

	// Barometric scale height used to map altitude to pressure.
	scaleHeightM = 8434.0

	climbRateMS = 2.5
	dropRateMS  = 15.0
)

// Config describes the synthetic flight.
type Config struct {
	// DurationSeconds is the recording length from power-on.
	DurationSeconds float64

	// Sample rates per record kind.
	IMURateHz    float64
	BaroRateHz   float64
	ManualRateHz float64

	// GroundPressurePa anchors the pressure curve.
	GroundPressurePa float64

	// CruiseAltitudeM is the altitude held between climb and any failure.
	CruiseAltitudeM float64

	// DropAtSeconds, when positive, starts an uncontrolled descent at that
	// time. Zero means a nominal flight.
	DropAtSeconds float64

	// KillAtSeconds, when positive, asserts the kill switch at that time
	// for the rest of the recording. Zero means never asserted.
	KillAtSeconds float64

	// Seed makes the sensor noise reproducible.
	Seed int64
}

// DefaultConfig returns a nominal flight with no scripted failure.
func DefaultConfig() Config {
	return Config{
		DurationSeconds:  defaultDurationSeconds,
		IMURateHz:        defaultIMURateHz,
		BaroRateHz:       defaultBaroRateHz,
		ManualRateHz:     defaultManualRateHz,
		GroundPressurePa: defaultGroundPa,
		CruiseAltitudeM:  defaultCruiseAltM,
		Seed:             defaultSeed,
	}
}

// subset mirrors the decoder's columnar JSON input format.
type subset struct {
	Name       string               `json:"name"`
	Timestamps []uint64             `json:"timestamps"`
	Fields     map[string][]float64 `json:"fields"`
}

type logFile struct {
	Subsets []subset `json:"subsets"`
}

// WriteFile generates the flight described by cfg and writes it as columnar
// JSON to path.
func WriteFile(path string, cfg Config) error {
	data, err := Generate(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write test log %s: %w", path, err)
	}
	return nil
}

// Generate produces the columnar JSON bytes for the flight described by cfg.
func Generate(cfg Config) ([]byte, error) {
	if cfg.DurationSeconds <= 0 {
		return nil, fmt.Errorf("test log duration must be positive, got %g", cfg.DurationSeconds)
	}
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible fixtures

	log := logFile{Subsets: []subset{
		imuSubset(&cfg, rng),
		baroSubset(&cfg, rng),
		manualSubset(&cfg),
	}}

	data, err := json.Marshal(&log)
	if err != nil {
		return nil, fmt.Errorf("marshal test log: %w", err)
	}
	return data, nil
}

func imuSubset(cfg *Config, rng *rand.Rand) subset {
	n := int(cfg.DurationSeconds * cfg.IMURateHz)
	s := subset{
		Name:       "sensor_combined",
		Timestamps: make([]uint64, n),
		Fields: map[string][]float64{
			"gyro_rad[0]":           make([]float64, n),
			"gyro_rad[1]":           make([]float64, n),
			"gyro_rad[2]":           make([]float64, n),
			"accelerometer_m_s2[0]": make([]float64, n),
			"accelerometer_m_s2[1]": make([]float64, n),
			"accelerometer_m_s2[2]": make([]float64, n),
		},
	}
	for i := 0; i < n; i++ {
		t := float64(i) / cfg.IMURateHz
		s.Timestamps[i] = toMicros(t)
		s.Fields["gyro_rad[0]"][i] = 0.05 * rng.NormFloat64()
		s.Fields["gyro_rad[1]"][i] = 0.05 * rng.NormFloat64()
		s.Fields["gyro_rad[2]"][i] = 0.05 * rng.NormFloat64()
		s.Fields["accelerometer_m_s2[0]"][i] = 0.2 * rng.NormFloat64()
		s.Fields["accelerometer_m_s2[1]"][i] = 0.2 * rng.NormFloat64()
		s.Fields["accelerometer_m_s2[2]"][i] = -9.81 + 0.3*rng.NormFloat64()
	}
	return s
}

func baroSubset(cfg *Config, rng *rand.Rand) subset {
	n := int(cfg.DurationSeconds * cfg.BaroRateHz)
	s := subset{
		Name:       "vehicle_air_data",
		Timestamps: make([]uint64, n),
		Fields: map[string][]float64{
			"baro_pressure_pa": make([]float64, n),
		},
	}
	for i := 0; i < n; i++ {
		t := float64(i) / cfg.BaroRateHz
		s.Timestamps[i] = toMicros(t)
		alt := cfg.altitudeAt(t)
		pressure := cfg.GroundPressurePa * math.Exp(-alt/scaleHeightM)
		s.Fields["baro_pressure_pa"][i] = pressure + 2.0*rng.NormFloat64()
	}
	return s
}

func manualSubset(cfg *Config) subset {
	n := int(cfg.DurationSeconds * cfg.ManualRateHz)
	s := subset{
		Name:       "manual_control_setpoint",
		Timestamps: make([]uint64, n),
		Fields: map[string][]float64{
			"aux1": make([]float64, n),
		},
	}
	for i := 0; i < n; i++ {
		t := float64(i) / cfg.ManualRateHz
		s.Timestamps[i] = toMicros(t)
		level := -1.0
		if cfg.KillAtSeconds > 0 && t >= cfg.KillAtSeconds {
			level = 1.0
		}
		s.Fields["aux1"][i] = level
	}
	return s
}

// altitudeAt models the flight profile: climb from ground to cruise, hold,
// and from DropAtSeconds an uncontrolled descent clamped at ground level.
func (c *Config) altitudeAt(t float64) float64 {
	climbTime := c.CruiseAltitudeM / climbRateMS
	alt := c.CruiseAltitudeM
	if t < climbTime {
		alt = t * climbRateMS
	}
	if c.DropAtSeconds > 0 && t >= c.DropAtSeconds {
		alt -= (t - c.DropAtSeconds) * dropRateMS
	}
	return math.Max(alt, 0)
}

func toMicros(seconds float64) uint64 {
	return uint64(seconds * 1e6)
}
