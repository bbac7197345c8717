// Package events provides event handlers for member events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("guildMemberAdd", onGuildMemberAdd)
	client.EventHandler.Register("guildMemberRemove", onGuildMemberRemove)
	client.EventHandler.Register("guildMemberUpdate", onGuildMemberUpdate)
	client.EventHandler.Register("guildBanAdd", onGuildBanAdd)
	client.EventHandler.Register("guildBanRemove", onGuildBanRemove)
}

// onGuildMemberAdd alimenta el detector de raids con cada entrada al servidor
func onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}

	logger.Debug(fmt.Sprintf("👋 Entrada: %s en el servidor %s", m.User.Username, m.GuildID), "Member")

	if blocked, _ := database.IsGuildBlacklisted(m.GuildID); blocked {
		return
	}

	engine := automod.Get()
	if engine == nil {
		return
	}

	cfg := database.GetGuildConfig(m.GuildID)

	// Los bots también cuentan para el umbral: un raid de bots es un raid
	verdict := engine.CheckJoin(m.GuildID, time.Now(), cfg)
	if !verdict.Violation {
		return
	}

	mqtt.PublishVerdict(mqtt.VerdictEvent{
		GuildID:  m.GuildID,
		Category: string(verdict.Category),
		Reason:   verdict.Reason,
		At:       time.Now(),
	})

	d := moderation.GetDispatcher()
	if d == nil {
		return
	}
	if _, err := d.HandleRaid(m.GuildID, verdict, cfg); err != nil {
		logger.Error(fmt.Sprintf("Fallo en la respuesta anti raid de %s: %v", m.GuildID, err), "Member")
	}
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 Salida: %s del servidor %s", m.User.Username, m.GuildID), "Member")
}

// onGuildMemberUpdate refleja los timeouts aplicados o retirados por otros
// moderadores, para que el canal de logs no se quede ciego ante ellos
func onGuildMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.BeforeUpdate == nil || m.User == nil {
		return
	}

	before := m.BeforeUpdate.CommunicationDisabledUntil
	after := m.CommunicationDisabledUntil

	timedOut := after != nil && after.After(time.Now()) && (before == nil || !before.Equal(*after))
	released := after == nil && before != nil && before.After(time.Now())
	if !timedOut && !released {
		return
	}

	cfg := database.GetGuildConfig(m.GuildID)
	if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogActions {
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:     discord.ColorModeration,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if timedOut {
		embed.Title = "⏳ Timeout aplicado"
		embed.Description = fmt.Sprintf("**Usuario:** <@%s>\n**Hasta:** <t:%d:f>", m.User.ID, after.Unix())
	} else {
		embed.Title = "⏳ Timeout retirado"
		embed.Description = fmt.Sprintf("**Usuario:** <@%s>", m.User.ID)
	}

	sendMirror(s, cfg.Logging.ChannelID, embed)
}

// onGuildBanAdd refleja todos los baneos en el canal de logs, vengan del bot,
// de otro bot o de un moderador actuando desde la interfaz de Discord
func onGuildBanAdd(s *discordgo.Session, b *discordgo.GuildBanAdd) {
	if b.User == nil {
		return
	}

	cfg := database.GetGuildConfig(b.GuildID)
	if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogActions {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🔨 Usuario baneado",
		Description: fmt.Sprintf("**Usuario:** %s (<@%s>)", b.User.Username, b.User.ID),
		Color:       discord.ColorError,
		Timestamp:   time.Now().Format(time.RFC3339),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: b.User.AvatarURL("64"),
		},
	}
	sendMirror(s, cfg.Logging.ChannelID, embed)
}

// onGuildBanRemove refleja los desbaneos en el canal de logs
func onGuildBanRemove(s *discordgo.Session, b *discordgo.GuildBanRemove) {
	if b.User == nil {
		return
	}

	cfg := database.GetGuildConfig(b.GuildID)
	if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogActions {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🕊️ Baneo levantado",
		Description: fmt.Sprintf("**Usuario:** %s (<@%s>)", b.User.Username, b.User.ID),
		Color:       discord.ColorSuccess,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	sendMirror(s, cfg.Logging.ChannelID, embed)
}
