package models

import "time"

// BlacklistScope says what kind of snowflake an entry blocks
type BlacklistScope string

const (
	BlacklistUser  BlacklistScope = "user"
	BlacklistGuild BlacklistScope = "guild"
)

// BlacklistEntry veta un usuario o un servidor entero de la plataforma.
// Las entradas de servidor hacen que el bot se retire al detectarlas; las
// de usuario descartan la interacción antes de llegar a ningún handler.
// ExpiresAt en nil significa veto permanente.
type BlacklistEntry struct {
	ID          string         `bson:"_id" json:"id"`
	Scope       BlacklistScope `bson:"scope" json:"scope"`
	Reason      string         `bson:"reason" json:"reason"`
	ModeratorID string         `bson:"moderator_id" json:"moderatorId"`
	CreatedAt   time.Time      `bson:"created_at" json:"createdAt"`
	ExpiresAt   *time.Time     `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
}

// Expired reports whether a temporary entry has run out at the given instant
func (e *BlacklistEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}
