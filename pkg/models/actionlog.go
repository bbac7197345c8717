package models

import "time"

// ActionLog registra cada acción de moderación ejecutada, manual o automática
type ActionLog struct {
	ID          string    `bson:"_id" json:"id"`
	GuildID     string    `bson:"guild_id" json:"guildId"`
	UserID      string    `bson:"user_id" json:"userId"`
	ModeratorID string    `bson:"moderator_id" json:"moderatorId"`
	Action      string    `bson:"action" json:"action"`
	Reason      string    `bson:"reason" json:"reason"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// AutomodEvent registra cada veredicto de violación del motor de automod.
// Se usa para las estadísticas y se poda en la limpieza de retención.
type AutomodEvent struct {
	ID        string    `bson:"_id" json:"id"`
	GuildID   string    `bson:"guild_id" json:"guildId"`
	UserID    string    `bson:"user_id" json:"userId"`
	Category  string    `bson:"category" json:"category"`
	Action    string    `bson:"action" json:"action"`
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
