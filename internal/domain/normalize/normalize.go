// Package normalize converts decoded columnar record batches into streams
// of tagged events with a common timestamp unit.
package normalize

import (
	"fmt"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/decoder"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
)

// Recorder timestamps are microseconds; events carry seconds.
const microsecondsPerSecond = 1e6

// Source record-kind names as written by the PX4 logger.
const (
	RecordSensorCombined = "sensor_combined"
	RecordVehicleAirData = "vehicle_air_data"
	RecordManualSetpoint = "manual_control_setpoint"
)

// Column names within the record kinds we consume.
const (
	colGyroX      = "gyro_rad[0]"
	colGyroY      = "gyro_rad[1]"
	colGyroZ      = "gyro_rad[2]"
	colAccX       = "accelerometer_m_s2[0]"
	colAccY       = "accelerometer_m_s2[1]"
	colAccZ       = "accelerometer_m_s2[2]"
	colPressurePa = "baro_pressure_pa"
	colAux1       = "aux1"
)

// Kinds returns the record-kind names the normalizer understands, i.e. the
// subset of a log worth requesting from the decoder.
func Kinds() []string {
	return []string{RecordSensorCombined, RecordVehicleAirData, RecordManualSetpoint}
}

// Batch converts one decoded batch of a known kind into events. Timestamps
// are converted from recorder microseconds to seconds; input order is
// preserved. Unknown kinds and missing columns fail with a wrapped
// decoder.ErrDecode since they indicate a schema mismatch, not a sensor
// anomaly.
func Batch(b *decoder.Batch) ([]model.Event, error) {
	switch b.Kind {
	case RecordSensorCombined:
		return imuEvents(b)
	case RecordVehicleAirData:
		return pressureEvents(b)
	case RecordManualSetpoint:
		return killSwitchEvents(b)
	default:
		return nil, fmt.Errorf("%w: no normalizer for record kind %q", decoder.ErrDecode, b.Kind)
	}
}

func imuEvents(b *decoder.Batch) ([]model.Event, error) {
	cols, err := columns(b, colGyroX, colGyroY, colGyroZ, colAccX, colAccY, colAccZ)
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, b.Len())
	for i, ts := range b.Timestamps {
		events[i] = model.Event{
			Timestamp: toSeconds(ts),
			Kind:      model.KindIMU,
			IMU: &model.IMUPayload{
				GyroRadX: cols[0][i],
				GyroRadY: cols[1][i],
				GyroRadZ: cols[2][i],
				AccX:     cols[3][i],
				AccY:     cols[4][i],
				AccZ:     cols[5][i],
			},
		}
	}
	return events, nil
}

func pressureEvents(b *decoder.Batch) ([]model.Event, error) {
	cols, err := columns(b, colPressurePa)
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, b.Len())
	for i, ts := range b.Timestamps {
		events[i] = model.Event{
			Timestamp: toSeconds(ts),
			Kind:      model.KindPressure,
			Pressure:  &model.PressurePayload{PressurePa: cols[0][i]},
		}
	}
	return events, nil
}

func killSwitchEvents(b *decoder.Batch) ([]model.Event, error) {
	cols, err := columns(b, colAux1)
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, b.Len())
	for i, ts := range b.Timestamps {
		events[i] = model.Event{
			Timestamp:  toSeconds(ts),
			Kind:       model.KindKillSwitch,
			KillSwitch: &model.KillSwitchPayload{State: cols[0][i]},
		}
	}
	return events, nil
}

// columns resolves the named columns of a batch, failing on any missing or
// length-mismatched column.
func columns(b *decoder.Batch, names ...string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		col, ok := b.Columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: record kind %q is missing column %q", decoder.ErrDecode, b.Kind, name)
		}
		if len(col) != b.Len() {
			return nil, fmt.Errorf("%w: %s.%s has %d values for %d timestamps",
				decoder.ErrColumnMismatch, b.Kind, name, len(col), b.Len())
		}
		out[i] = col
	}
	return out, nil
}

func toSeconds(us uint64) float64 {
	return float64(us) / microsecondsPerSecond
}
