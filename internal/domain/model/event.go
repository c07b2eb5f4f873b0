// Package model contains domain models passed between pipeline stages.
package model

// Kind identifies the source record type of a normalized event.
// The set is closed: adding a record kind means adding a constant here and
// teaching the normalizer about its columns, so an unhandled kind is a
// compile-visible hole rather than a silent no-op.
type Kind int

const (
	// KindIMU carries gyro and accelerometer samples (sensor_combined).
	KindIMU Kind = iota
	// KindPressure carries barometric pressure samples (vehicle_air_data).
	KindPressure
	// KindKillSwitch carries the manual kill-switch channel
	// (manual_control_setpoint aux1).
	KindKillSwitch
)

// String returns the human-readable kind name used in logs and errors.
func (k Kind) String() string {
	switch k {
	case KindIMU:
		return "imu"
	case KindPressure:
		return "pressure"
	case KindKillSwitch:
		return "kill_switch"
	default:
		return "unknown"
	}
}

// IMUPayload holds one combined gyro/accelerometer sample.
type IMUPayload struct {
	GyroRadX float64
	GyroRadY float64
	GyroRadZ float64
	AccX     float64
	AccY     float64
	AccZ     float64
}

// PressurePayload holds one barometric pressure sample in pascal.
type PressurePayload struct {
	PressurePa float64
}

// KillSwitchPayload holds one kill-switch channel sample. State is the raw
// aux channel level; values above the configured threshold count as asserted.
type KillSwitchPayload struct {
	State float64
}

// Event is one normalized, timestamped, kind-tagged telemetry sample.
// Timestamp is in seconds on the source clock, already converted from the
// recorder's integer unit. Exactly one payload pointer is non-nil for a
// well-formed event; the engine treats a nil payload for the tagged kind as
// a normalizer contract violation.
type Event struct {
	Timestamp float64
	Kind      Kind

	IMU        *IMUPayload
	Pressure   *PressurePayload
	KillSwitch *KillSwitchPayload
}

// Severity classifies a detection for the sink.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Detection is one engine finding. Ownership transfers to the sink on emit.
type Detection struct {
	Timestamp float64
	Severity  Severity
	Message   string
}

// Sample is one (time, value) point of an exported series.
type Sample struct {
	Time  float64
	Value float64
}

// Series is a named time series handed to sinks after a run, e.g. the
// pressure and kill-switch histories restricted to the window of interest.
type Series struct {
	Name    string
	Unit    string
	Samples []Sample
}
