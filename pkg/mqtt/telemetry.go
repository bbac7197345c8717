package mqtt

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"github.com/PancyStudios/PancyGuardGo/pkg/live"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// Topics que publica el motor de protección. El panel y el resto de servicios
// de Pancy se suscriben a ellos.
const (
	TopicVerdicts     = "pancy/guard/verdicts"
	TopicEnforcements = "pancy/guard/enforcements"
	TopicSweeps       = "pancy/guard/sweeps"
)

// VerdictEvent es el payload de TopicVerdicts.
type VerdictEvent struct {
	GuildID  string    `json:"guildId"`
	UserID   string    `json:"userId,omitempty"`
	Category string    `json:"category"`
	Action   string    `json:"action,omitempty"`
	Reason   string    `json:"reason"`
	At       time.Time `json:"at"`
}

// EnforcementEvent es el payload de TopicEnforcements.
type EnforcementEvent struct {
	GuildID     string    `json:"guildId"`
	UserID      string    `json:"userId"`
	ModeratorID string    `json:"moderatorId"`
	Action      string    `json:"action"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

// SweepEvent es el payload de TopicSweeps.
type SweepEvent struct {
	Reverted int       `json:"reverted"`
	Failed   int       `json:"failed"`
	At       time.Time `json:"at"`
}

// Cada evento del motor sale por los dos canales a la vez: el broker para
// el resto de servicios de Pancy y el feed en vivo para el panel.

// PublishVerdict reporta un veredicto de violación. Sin broker no hace nada.
func PublishVerdict(ev VerdictEvent) {
	publishJSON(TopicVerdicts, ev)
	live.Publish("verdict", ev)
}

// PublishEnforcement reporta una sanción ejecutada. Sin broker no hace nada.
func PublishEnforcement(ev EnforcementEvent) {
	publishJSON(TopicEnforcements, ev)
	live.Publish("enforcement", ev)
}

// PublishSweep reporta el resultado de un barrido del reconciliador.
func PublishSweep(ev SweepEvent) {
	publishJSON(TopicSweeps, ev)
	live.Publish("sweep", ev)
}

func publishJSON(topic string, payload interface{}) {
	mc := Get()
	if mc == nil || !mc.IsConnected() {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Warn(fmt.Sprintf("Payload de telemetría inválido para %s: %v", topic, err), "MQTT")
		return
	}
	if err := mc.PublishBytes(topic, data); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar en %s: %v", topic, err), "MQTT")
	}
}
