package models

import "time"

// SanctionKind represents the reversible sanction types the reconciler sweeps
type SanctionKind string

const (
	SanctionMute    SanctionKind = "mute"
	SanctionTempBan SanctionKind = "tempban"
)

// Sanction es una restricción temporal con expiración persistida.
// Creada por el dispatcher o por un comando de moderación; leída por el
// reconciliador en cada tick; Active pasa a false exactamente una vez.
//
// La unicidad (un solo mute activo por usuario) NO está garantizada:
// pueden existir duplicados y el reconciliador los tolera.
type Sanction struct {
	ID          string       `bson:"_id" json:"id"`
	GuildID     string       `bson:"guild_id" json:"guildId"`
	UserID      string       `bson:"user_id" json:"userId"`
	ModeratorID string       `bson:"moderator_id" json:"moderatorId"`
	Kind        SanctionKind `bson:"kind" json:"kind"`
	Reason      string       `bson:"reason" json:"reason"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
	ExpiresAt   time.Time    `bson:"expires_at" json:"expiresAt"`
	Active      bool         `bson:"active" json:"active"`
}

// Expired reports whether the sanction's expiry has passed at the given instant
func (s *Sanction) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
