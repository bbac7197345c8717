package models

import "time"

// Appeal es el registro de una apelación enviada por un usuario sancionado.
// Solo se acepta y almacena; no hay flujo de revisión automatizado.
type Appeal struct {
	ID           string    `bson:"_id" json:"id"`
	GuildID      string    `bson:"guild_id" json:"guildId"`
	UserID       string    `bson:"user_id" json:"userId"`
	InfractionID string    `bson:"infraction_id,omitempty" json:"infractionId,omitempty"`
	Message      string    `bson:"message" json:"message"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
