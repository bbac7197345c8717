package mqtt

import (
	"testing"
	"time"
)

// La telemetría es best effort: sin broker ni feed inicializados cada
// publicación debe ser un no-op silencioso.
func TestTelemetryWithoutBroker(t *testing.T) {
	if Get() != nil {
		t.Skip("comunicador global ya inicializado")
	}

	PublishVerdict(VerdictEvent{GuildID: "g1", Category: "spam", Reason: "flood", At: time.Now()})
	PublishEnforcement(EnforcementEvent{GuildID: "g1", UserID: "u1", Action: "mute", At: time.Now()})
	PublishSweep(SweepEvent{Reverted: 2, Failed: 0, At: time.Now()})
}
