package models

import "time"

// InfractionType represents the kind of enforcement action recorded
type InfractionType string

const (
	InfractionWarn    InfractionType = "warn"
	InfractionMute    InfractionType = "mute"
	InfractionKick    InfractionType = "kick"
	InfractionBan     InfractionType = "ban"
	InfractionTempBan InfractionType = "tempban"
)

// Infraction es el registro de auditoría inmutable de una sanción.
// Solo el campo Active cambia, exactamente una vez, cuando la sanción
// se revierte manualmente o expira.
type Infraction struct {
	ID          string         `bson:"_id" json:"id"`
	GuildID     string         `bson:"guild_id" json:"guildId"`
	UserID      string         `bson:"user_id" json:"userId"`
	ModeratorID string         `bson:"moderator_id" json:"moderatorId"` // "system" para acciones del automod
	Type        InfractionType `bson:"type" json:"type"`
	Reason      string         `bson:"reason" json:"reason"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
	ExpiresAt   time.Time      `bson:"expires_at,omitempty" json:"expiresAt,omitempty"` // cero = permanente
	Active      bool           `bson:"active" json:"active"`
}

// IsTemporary reports whether the infraction carries an expiry
func (i *Infraction) IsTemporary() bool {
	return !i.ExpiresAt.IsZero()
}
