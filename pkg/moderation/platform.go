package moderation

import "github.com/PancyStudios/PancyGuardGo/pkg/automod"

// Platform es la superficie de efectos sobre la plataforma de chat. El
// adaptador de Discord la implementa en producción; los tests usan un fake.
//
// Los métodos de consulta son best effort: un miembro ausente tiene rango -1
// y cero capacidades, no un error.
type Platform interface {
	// SystemUserID returns the bot's own user id, used as the automated actor.
	SystemUserID() string

	GuildExists(guildID string) bool
	MemberExists(guildID, userID string) bool
	GuildOwnerID(guildID string) (string, error)
	GuildName(guildID string) string

	// MemberRank returns the member's highest role position, or -1 when the
	// member is not in the guild.
	MemberRank(guildID, userID string) (int, error)
	MemberCapabilities(guildID, userID string) (map[Capability]bool, error)
	MemberHasRole(guildID, userID, roleID string) bool

	// EnsureMutedRole busca el rol de silencio del servidor y lo crea con sus
	// overrides de canal si no existe. Es idempotente por servidor.
	EnsureMutedRole(guildID string) (string, error)
	// MutedRoleID busca el rol de silencio sin crearlo.
	MutedRoleID(guildID string) (string, bool)

	AddRole(guildID, userID, roleID, reason string) error
	RemoveRole(guildID, userID, roleID, reason string) error
	Kick(guildID, userID, reason string) error
	// Ban expulsa y veta al usuario, borrando purgeDays días de mensajes.
	Ban(guildID, userID string, purgeDays int, reason string) error
	Unban(guildID, userID, reason string) error

	DeleteMessage(channelID, messageID string) error
	// PurgeUserMessages borra hasta limit mensajes recientes del usuario en el
	// canal y devuelve cuántos borró.
	PurgeUserMessages(channelID, userID string, limit int) (int, error)
	// RevokeInvites revoca todas las invitaciones activas del servidor.
	RevokeInvites(guildID, reason string) (int, error)

	// NotifyUser envía un DM con un embed simple. Falla sin consecuencias.
	NotifyUser(userID, title, message string) error
	// SendAlert publica un embed de alerta en un canal del servidor.
	SendAlert(guildID, channelID, title, message string) error

	// RecentAuditActor identifica, si puede, quién ejecutó la mutación masiva
	// más reciente de la categoría dada según el registro de auditoría.
	RecentAuditActor(guildID string, category automod.Category) (string, bool)
}
