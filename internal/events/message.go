// Package events provides event handlers for message events
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents registers all message-related event handlers
func RegisterMessageEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("messageCreate", onMessageCreate)
	client.EventHandler.Register("messageUpdate", onMessageUpdate)
	client.EventHandler.Register("messageDelete", onMessageDelete)
}

// ownDeletions recuerda los mensajes que borró el automod para que el espejo
// de borrados no los duplique en el canal de logs.
var ownDeletions = struct {
	mu  sync.Mutex
	ids map[string]time.Time
}{ids: make(map[string]time.Time)}

func markOwnDeletion(messageID string) {
	ownDeletions.mu.Lock()
	defer ownDeletions.mu.Unlock()

	ownDeletions.ids[messageID] = time.Now()
	if len(ownDeletions.ids) > 512 {
		cutoff := time.Now().Add(-time.Minute)
		for id, at := range ownDeletions.ids {
			if at.Before(cutoff) {
				delete(ownDeletions.ids, id)
			}
		}
	}
}

func wasOwnDeletion(messageID string) bool {
	ownDeletions.mu.Lock()
	defer ownDeletions.mu.Unlock()

	_, ok := ownDeletions.ids[messageID]
	if ok {
		delete(ownDeletions.ids, messageID)
	}
	return ok
}

// onMessageCreate pasa cada mensaje de servidor por el motor de automod y
// ejecuta la acción configurada cuando hay violación
func onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Bots y DMs quedan fuera del automod
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if blocked, _ := database.IsGuildBlacklisted(m.GuildID); blocked {
		return
	}
	if blocked, _ := database.IsUserBlacklisted(m.Author.ID); blocked {
		return
	}

	engine := automod.Get()
	if engine == nil {
		return
	}

	cfg := database.GetGuildConfig(m.GuildID)
	if !cfg.AutomodEnabled {
		return
	}

	if isExemptModerator(s, cfg, m.Message) {
		return
	}

	ev := automod.MessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	for _, att := range m.Attachments {
		ev.Attachments = append(ev.Attachments, automod.Attachment{
			Filename: att.Filename,
			Size:     int64(att.Size),
		})
	}

	verdict := engine.CheckMessage(ev, cfg)
	if !verdict.Violation {
		return
	}

	applyContentVerdict(s, m.Message, verdict, cfg)
}

// applyContentVerdict ejecuta la respuesta a un veredicto de contenido:
// borra el mensaje, publica el veredicto y delega la sanción al dispatcher
func applyContentVerdict(s *discordgo.Session, m *discordgo.Message, verdict automod.Verdict, cfg *models.GuildConfig) {
	// El mensaje ofensivo cae siempre, sea cual sea la acción configurada
	markOwnDeletion(m.ID)
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo borrar el mensaje ofensivo %s: %v", m.ID, err), "Automod")
	}

	mqtt.PublishVerdict(mqtt.VerdictEvent{
		GuildID:  m.GuildID,
		UserID:   m.Author.ID,
		Category: string(verdict.Category),
		Action:   string(verdict.Action),
		Reason:   verdict.Reason,
		At:       time.Now(),
	})

	d := moderation.GetDispatcher()
	if d == nil {
		return
	}

	out, err := d.Enforce(m.GuildID, m.ChannelID, m.Author.ID, verdict, cfg)
	if err != nil {
		logger.Error(fmt.Sprintf("Fallo aplicando %s a %s en %s: %v",
			verdict.Action, m.Author.ID, m.GuildID, err), "Automod")
		return
	}

	if out.DenyMessage != "" {
		logger.Debug(fmt.Sprintf("Automod contenido: %s (usuario %s)", out.DenyMessage, m.Author.ID), "Automod")
	}
}

// isExemptModerator decide si el autor está exento del automod: el dueño del
// servidor, quien tenga el rol de moderación configurado y quien pueda
// gestionar mensajes no se sancionan por contenido.
func isExemptModerator(s *discordgo.Session, cfg *models.GuildConfig, m *discordgo.Message) bool {
	if guild, err := s.State.Guild(m.GuildID); err == nil && guild.OwnerID == m.Author.ID {
		return true
	}

	if m.Member != nil && cfg.Permissions.ModRoleID != "" {
		for _, roleID := range m.Member.Roles {
			if roleID == cfg.Permissions.ModRoleID {
				return true
			}
		}
	}

	perms, err := s.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return false
	}
	return perms&(discordgo.PermissionManageMessages|discordgo.PermissionAdministrator) != 0
}

// onMessageUpdate vuelve a pasar el contenido editado por los filtros sin
// estado y, si sobrevive, refleja la edición en el canal de logs. Editar un
// mensaje limpio para meterle un enlace no puede burlar el automod.
func onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	cfg := database.GetGuildConfig(m.GuildID)

	if recheckEditedContent(s, m, cfg) {
		return
	}

	if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogEdits {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "✏️ Mensaje editado",
		Description: fmt.Sprintf("**Autor:** <@%s>\n**Canal:** <#%s>",
			m.Author.ID, m.ChannelID),
		Color:     discord.ColorInfo,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if m.BeforeUpdate != nil && m.BeforeUpdate.Content != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Antes",
			Value: truncateField(m.BeforeUpdate.Content),
		})
	}
	if m.Content != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Después",
			Value: truncateField(m.Content),
		})
	}

	sendMirror(s, cfg.Logging.ChannelID, embed)
}

// recheckEditedContent pasa una edición por los filtros sin estado y aplica
// el veredicto. Devuelve true si hubo violación y el mensaje ya cayó.
func recheckEditedContent(s *discordgo.Session, m *discordgo.MessageUpdate, cfg *models.GuildConfig) bool {
	if m.Content == "" || !cfg.AutomodEnabled {
		return false
	}

	if blocked, _ := database.IsGuildBlacklisted(m.GuildID); blocked {
		return false
	}
	if blocked, _ := database.IsUserBlacklisted(m.Author.ID); blocked {
		return false
	}

	engine := automod.Get()
	if engine == nil {
		return false
	}

	if isExemptModerator(s, cfg, m.Message) {
		return false
	}

	verdict := engine.CheckEdit(automod.MessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
		Timestamp: time.Now(),
	}, cfg)
	if !verdict.Violation {
		return false
	}

	applyContentVerdict(s, m.Message, verdict, cfg)
	return true
}

// onMessageDelete refleja los borrados en el canal de logs cuando el servidor
// lo pide. Los borrados del propio automod no se duplican.
func onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" || wasOwnDeletion(m.ID) {
		return
	}

	cfg := database.GetGuildConfig(m.GuildID)
	if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogDeletes {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🗑️ Mensaje eliminado",
		Description: fmt.Sprintf("**Canal:** <#%s>", m.ChannelID),
		Color:       discord.ColorWarning,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	// El contenido solo sobrevive si el mensaje estaba en el state cache
	if m.BeforeDelete != nil {
		if m.BeforeDelete.Author != nil {
			if m.BeforeDelete.Author.Bot {
				return
			}
			embed.Description = fmt.Sprintf("**Autor:** <@%s>\n**Canal:** <#%s>",
				m.BeforeDelete.Author.ID, m.ChannelID)
		}
		if m.BeforeDelete.Content != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Contenido",
				Value: truncateField(m.BeforeDelete.Content),
			})
		}
	}

	sendMirror(s, cfg.Logging.ChannelID, embed)
}
