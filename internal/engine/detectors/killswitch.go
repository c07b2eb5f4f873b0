package detectors

import (
	"context"
	"fmt"

	"github.com/Therkelsen/introduction-to-drone-technology/internal/domain/model"
	"github.com/Therkelsen/introduction-to-drone-technology/internal/engine"
)

// defaultKillSwitchThreshold splits the aux channel range: PX4 maps the
// switch to roughly -1 (off) and +1 (on).
const defaultKillSwitchThreshold = 0.5

// KillSwitch flags assertions of the manual kill switch inside the window
// of interest. An assertion mid-flight disarms the motors, so every rising
// edge is reported.
type KillSwitch struct {
	threshold float64

	seen     bool
	asserted bool
}

// NewKillSwitch creates the detector; a zero threshold falls back to the
// default.
func NewKillSwitch(threshold float64) *KillSwitch {
	k := &KillSwitch{threshold: defaultKillSwitchThreshold}
	if threshold != 0 {
		k.threshold = threshold
	}
	return k
}

// Name identifies the detector.
func (*KillSwitch) Name() string { return NameKillSwitch }

// Observe reports rising edges of the switch. The first in-window sample
// only establishes the baseline unless the switch is already asserted.
func (k *KillSwitch) Observe(_ context.Context, e *model.Event, _ *engine.History, emit engine.EmitFunc) {
	if e.Kind != model.KindKillSwitch {
		return
	}
	asserted := e.KillSwitch.State >= k.threshold

	switch {
	case !k.seen && asserted:
		emit(model.Detection{
			Timestamp: e.Timestamp,
			Severity:  model.SeverityWarning,
			Message:   fmt.Sprintf("kill switch already asserted at window entry (level %.2f)", e.KillSwitch.State),
		})
	case k.seen && asserted && !k.asserted:
		emit(model.Detection{
			Timestamp: e.Timestamp,
			Severity:  model.SeverityCritical,
			Message:   fmt.Sprintf("kill switch asserted (level %.2f)", e.KillSwitch.State),
		})
	case k.seen && !asserted && k.asserted:
		emit(model.Detection{
			Timestamp: e.Timestamp,
			Severity:  model.SeverityInfo,
			Message:   fmt.Sprintf("kill switch released (level %.2f)", e.KillSwitch.State),
		})
	}

	k.seen = true
	k.asserted = asserted
}

// Flush does nothing; edges are reported as they happen.
func (*KillSwitch) Flush(context.Context, *engine.History, engine.EmitFunc) {}
