// Package discord - adaptador de la sesión de Discord a la superficie de
// efectos que consume el dispatcher de moderación.
package discord

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// Embed colors shared by commands, alerts and DMs
const (
	ColorSuccess    = 0x2ecc71
	ColorError      = 0xe74c3c
	ColorWarning    = 0xf39c12
	ColorInfo       = 0x3498db
	ColorModeration = 0x9b59b6
	ColorAutomod    = 0xe67e22
)

const (
	mutedRoleColor = 0x607d8b

	// Bulk delete rejects messages older than two weeks
	bulkDeleteMaxAge = 14 * 24 * time.Hour

	// Audit entries older than this are stale for actor attribution
	auditLookback = 2 * time.Minute
)

// Permisos negados por el rol de silencio según el tipo de canal
const (
	mutedTextDeny = discordgo.PermissionSendMessages |
		discordgo.PermissionAddReactions |
		discordgo.PermissionCreatePublicThreads |
		discordgo.PermissionCreatePrivateThreads |
		discordgo.PermissionSendMessagesInThreads

	mutedVoiceDeny = discordgo.PermissionVoiceSpeak |
		discordgo.PermissionVoiceStreamVideo
)

// capabilityBits traduce capacidades de moderación a bits de permisos de Discord
var capabilityBits = map[moderation.Capability]int64{
	moderation.CapBanMembers:      discordgo.PermissionBanMembers,
	moderation.CapKickMembers:     discordgo.PermissionKickMembers,
	moderation.CapModerateMembers: discordgo.PermissionModerateMembers,
	moderation.CapManageMessages:  discordgo.PermissionManageMessages,
	moderation.CapManageChannels:  discordgo.PermissionManageChannels,
	moderation.CapManageRoles:     discordgo.PermissionManageRoles,
}

// PlatformAdapter implementa moderation.Platform sobre una sesión de discordgo.
// Las consultas prefieren el state cache y caen a la API REST cuando falta.
type PlatformAdapter struct {
	session *discordgo.Session

	mu         sync.Mutex
	mutedRoles map[string]string
	guildLocks map[string]*sync.Mutex
}

// NewPlatformAdapter creates a platform adapter over the given session
func NewPlatformAdapter(session *discordgo.Session) *PlatformAdapter {
	return &PlatformAdapter{
		session:    session,
		mutedRoles: make(map[string]string),
		guildLocks: make(map[string]*sync.Mutex),
	}
}

// SystemUserID returns the bot's own user id
func (a *PlatformAdapter) SystemUserID() string {
	if a.session.State == nil || a.session.State.User == nil {
		return ""
	}
	return a.session.State.User.ID
}

// GuildExists reports whether the guild is reachable
func (a *PlatformAdapter) GuildExists(guildID string) bool {
	_, err := a.guild(guildID)
	return err == nil
}

// MemberExists reports whether the user is currently a member of the guild
func (a *PlatformAdapter) MemberExists(guildID, userID string) bool {
	_, err := a.member(guildID, userID)
	return err == nil
}

// GuildOwnerID returns the guild owner's user id
func (a *PlatformAdapter) GuildOwnerID(guildID string) (string, error) {
	guild, err := a.guild(guildID)
	if err != nil {
		return "", err
	}
	return guild.OwnerID, nil
}

// GuildName returns the guild name, or the id when the guild is unknown
func (a *PlatformAdapter) GuildName(guildID string) string {
	guild, err := a.guild(guildID)
	if err != nil {
		return guildID
	}
	return guild.Name
}

// MemberRank devuelve la posición del rol más alto del miembro. Un miembro
// ausente tiene rango -1 sin error, para que las reversiones sobre usuarios
// que ya se fueron no tropiecen con la jerarquía.
func (a *PlatformAdapter) MemberRank(guildID, userID string) (int, error) {
	guild, err := a.guild(guildID)
	if err != nil {
		return -1, err
	}

	member, err := a.member(guildID, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return -1, nil
		}
		return -1, err
	}

	positions := make(map[string]int, len(guild.Roles))
	for _, role := range guild.Roles {
		positions[role.ID] = role.Position
	}

	rank := 0
	for _, roleID := range member.Roles {
		if pos, ok := positions[roleID]; ok && pos > rank {
			rank = pos
		}
	}
	return rank, nil
}

// MemberCapabilities computes the member's guild-wide permissions. The owner
// and administrators hold every capability.
func (a *PlatformAdapter) MemberCapabilities(guildID, userID string) (map[moderation.Capability]bool, error) {
	guild, err := a.guild(guildID)
	if err != nil {
		return nil, err
	}

	member, err := a.member(guildID, userID)
	if err != nil {
		if errors.IsNotFound(err) {
			return map[moderation.Capability]bool{}, nil
		}
		return nil, err
	}

	perms := a.guildPermissions(guild, userID, member)

	caps := make(map[moderation.Capability]bool, len(capabilityBits))
	for capability, bit := range capabilityBits {
		caps[capability] = perms&bit != 0
	}
	return caps, nil
}

// guildPermissions acumula los permisos de @everyone y de cada rol del miembro
func (a *PlatformAdapter) guildPermissions(guild *discordgo.Guild, userID string, member *discordgo.Member) int64 {
	if userID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	var perms int64
	for _, role := range guild.Roles {
		if role.ID == guild.ID {
			perms |= role.Permissions
			break
		}
	}
	for _, roleID := range member.Roles {
		for _, role := range guild.Roles {
			if role.ID == roleID {
				perms |= role.Permissions
				break
			}
		}
	}

	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}

// MemberHasRole reports whether the member currently holds the role
func (a *PlatformAdapter) MemberHasRole(guildID, userID, roleID string) bool {
	member, err := a.member(guildID, userID)
	if err != nil {
		return false
	}
	for _, id := range member.Roles {
		if id == roleID {
			return true
		}
	}
	return false
}

// EnsureMutedRole busca el rol de silencio del servidor y lo crea si no
// existe, aplicando los overrides de canal. La creación se serializa por
// servidor para que dos sanciones simultáneas no dupliquen el rol.
func (a *PlatformAdapter) EnsureMutedRole(guildID string) (string, error) {
	lock := a.lockFor(guildID)
	lock.Lock()
	defer lock.Unlock()

	if id, ok := a.cachedMutedRole(guildID); ok {
		return id, nil
	}
	if id, ok := a.findMutedRole(guildID); ok {
		a.storeMutedRole(guildID, id)
		return id, nil
	}

	name := config.Get().MutedRoleName
	color := mutedRoleColor
	perms := int64(0)

	role, err := a.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Permissions: &perms,
	})
	if err != nil {
		return "", errors.Classify(err)
	}

	a.applyMutedOverrides(guildID, role.ID)
	a.storeMutedRole(guildID, role.ID)

	logger.Info(fmt.Sprintf("Rol de silencio %q creado en %s", name, guildID), "Platform")
	return role.ID, nil
}

// MutedRoleID busca el rol de silencio sin crearlo
func (a *PlatformAdapter) MutedRoleID(guildID string) (string, bool) {
	if id, ok := a.cachedMutedRole(guildID); ok {
		return id, true
	}
	if id, ok := a.findMutedRole(guildID); ok {
		a.storeMutedRole(guildID, id)
		return id, true
	}
	return "", false
}

func (a *PlatformAdapter) findMutedRole(guildID string) (string, bool) {
	guild, err := a.guild(guildID)
	if err != nil {
		return "", false
	}

	name := config.Get().MutedRoleName
	for _, role := range guild.Roles {
		if strings.EqualFold(role.Name, name) {
			return role.ID, true
		}
	}
	return "", false
}

// applyMutedOverrides niega escribir y hablar al rol en cada canal. Un canal
// que rechaza el override no impide silenciar en el resto.
func (a *PlatformAdapter) applyMutedOverrides(guildID, roleID string) {
	channels, err := a.session.GuildChannels(guildID)
	if err != nil {
		logger.Warn("No se pudieron listar los canales para el rol de silencio: "+err.Error(), "Platform")
		return
	}

	for _, ch := range channels {
		deny := mutedDenyFor(ch.Type)
		if deny == 0 {
			continue
		}
		err := a.session.ChannelPermissionSet(ch.ID, roleID, discordgo.PermissionOverwriteTypeRole, 0, deny)
		if err != nil {
			logger.Debug(fmt.Sprintf("Override de silencio omitido en el canal %s: %v", ch.ID, err), "Platform")
		}
	}
}

func mutedDenyFor(t discordgo.ChannelType) int64 {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews, discordgo.ChannelTypeGuildForum:
		return mutedTextDeny
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return mutedVoiceDeny
	case discordgo.ChannelTypeGuildCategory:
		return mutedTextDeny | mutedVoiceDeny
	}
	return 0
}

// AddRole asigna un rol al miembro
func (a *PlatformAdapter) AddRole(guildID, userID, roleID, reason string) error {
	err := a.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	return errors.Classify(err)
}

// RemoveRole retira un rol del miembro
func (a *PlatformAdapter) RemoveRole(guildID, userID, roleID, reason string) error {
	err := a.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
	return errors.Classify(err)
}

// Kick expulsa al miembro del servidor
func (a *PlatformAdapter) Kick(guildID, userID, reason string) error {
	err := a.session.GuildMemberDeleteWithReason(guildID, userID, reason)
	return errors.Classify(err)
}

// Ban veta al usuario borrando purgeDays días de mensajes
func (a *PlatformAdapter) Ban(guildID, userID string, purgeDays int, reason string) error {
	err := a.session.GuildBanCreateWithReason(guildID, userID, reason, purgeDays)
	return errors.Classify(err)
}

// Unban levanta el veto del usuario
func (a *PlatformAdapter) Unban(guildID, userID, reason string) error {
	err := a.session.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(reason))
	return errors.Classify(err)
}

// DeleteMessage borra un mensaje puntual
func (a *PlatformAdapter) DeleteMessage(channelID, messageID string) error {
	err := a.session.ChannelMessageDelete(channelID, messageID)
	return errors.Classify(err)
}

// PurgeUserMessages borra hasta limit mensajes recientes del usuario en el
// canal. Los mensajes con más de dos semanas quedan fuera porque el borrado
// masivo de Discord los rechaza.
func (a *PlatformAdapter) PurgeUserMessages(channelID, userID string, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	msgs, err := a.session.ChannelMessages(channelID, 100, "", "", "")
	if err != nil {
		return 0, errors.Classify(err)
	}

	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, limit)
	for _, msg := range msgs {
		if msg.Author == nil || msg.Author.ID != userID {
			continue
		}
		if msg.Timestamp.Before(cutoff) {
			continue
		}
		ids = append(ids, msg.ID)
		if len(ids) == limit {
			break
		}
	}

	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		if err := a.session.ChannelMessageDelete(channelID, ids[0]); err != nil {
			return 0, errors.Classify(err)
		}
		return 1, nil
	default:
		if err := a.session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
			return 0, errors.Classify(err)
		}
		return len(ids), nil
	}
}

// RevokeInvites revoca todas las invitaciones activas del servidor y devuelve
// cuántas cayeron. Una invitación que falla no detiene al resto.
func (a *PlatformAdapter) RevokeInvites(guildID, reason string) (int, error) {
	invites, err := a.session.GuildInvites(guildID)
	if err != nil {
		return 0, errors.Classify(err)
	}

	revoked := 0
	for _, inv := range invites {
		if _, err := a.session.InviteDelete(inv.Code, discordgo.WithAuditLogReason(reason)); err != nil {
			logger.Debug("No se pudo revocar la invitación "+inv.Code+": "+err.Error(), "Platform")
			continue
		}
		revoked++
	}
	return revoked, nil
}

// NotifyUser envía un DM con un embed. Falla con ErrNotFound si el usuario
// tiene los DMs cerrados o bloqueó al bot.
func (a *PlatformAdapter) NotifyUser(userID, title, message string) error {
	channel, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return errors.Classify(err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorModeration,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := a.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return errors.Classify(err)
	}
	return nil
}

// SendAlert publica un embed de alerta en un canal del servidor
func (a *PlatformAdapter) SendAlert(guildID, channelID, title, message string) error {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: message,
		Color:       ColorAutomod,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "PancyGuard",
		},
	}
	if _, err := a.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return errors.Classify(err)
	}
	return nil
}

// RecentAuditActor consulta el registro de auditoría por la mutación masiva
// más reciente de la categoría. Entradas viejas o del propio bot no cuentan.
func (a *PlatformAdapter) RecentAuditActor(guildID string, category automod.Category) (string, bool) {
	var action discordgo.AuditLogAction
	switch category {
	case automod.CategoryChannelNuke:
		action = discordgo.AuditLogActionChannelDelete
	case automod.CategoryRoleNuke:
		action = discordgo.AuditLogActionRoleDelete
	default:
		return "", false
	}

	audit, err := a.session.GuildAuditLog(guildID, "", "", int(action), 5)
	if err != nil {
		logger.Debug(fmt.Sprintf("Sin acceso al registro de auditoría de %s: %v", guildID, err), "Platform")
		return "", false
	}

	for _, entry := range audit.AuditLogEntries {
		if entry.UserID == "" || entry.UserID == a.SystemUserID() {
			continue
		}
		if ts, err := discordgo.SnowflakeTimestamp(entry.ID); err == nil && time.Since(ts) > auditLookback {
			continue
		}
		return entry.UserID, true
	}
	return "", false
}

// guild resuelve el servidor desde el state cache, cayendo a la API REST
func (a *PlatformAdapter) guild(guildID string) (*discordgo.Guild, error) {
	if guild, err := a.session.State.Guild(guildID); err == nil {
		return guild, nil
	}
	guild, err := a.session.Guild(guildID)
	if err != nil {
		return nil, errors.Classify(err)
	}
	return guild, nil
}

// member resuelve al miembro desde el state cache, cayendo a la API REST
func (a *PlatformAdapter) member(guildID, userID string) (*discordgo.Member, error) {
	if member, err := a.session.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	member, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		return nil, errors.Classify(err)
	}
	return member, nil
}

func (a *PlatformAdapter) lockFor(guildID string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.guildLocks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		a.guildLocks[guildID] = lock
	}
	return lock
}

func (a *PlatformAdapter) cachedMutedRole(guildID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.mutedRoles[guildID]
	return id, ok
}

func (a *PlatformAdapter) storeMutedRole(guildID, roleID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mutedRoles[guildID] = roleID
}
