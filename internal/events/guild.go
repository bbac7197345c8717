// Package events provides event handlers for guild (server) events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("guildCreate", onGuildCreate)
	client.EventHandler.Register("guildDelete", onGuildDelete)
}

// onGuildCreate is called when the bot joins a server
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	// Un servidor vetado no recibe servicio
	if banned, _ := database.IsGuildBlacklisted(g.ID); banned {
		logger.Warn(fmt.Sprintf("Servidor vetado intentó agregar el bot: %s, saliendo...", g.ID), "Guild")
		if err := s.GuildLeave(g.ID); err != nil {
			logger.Error(fmt.Sprintf("Error saliendo del servidor vetado: %v", err), "Guild")
		}
		return
	}

	// Calentar la política del servidor para que el primer mensaje no pague
	// la consulta a Mongo
	database.GetGuildConfig(g.ID)

	// Los GuildCreate del arranque no son entradas nuevas
	if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID != "" {
		sendWelcome(s, g)
	}
}

// sendWelcome posts the onboarding embed to the system channel.
func sendWelcome(s *discordgo.Session, g *discordgo.GuildCreate) {
	welcomeEmbed := &discordgo.MessageEmbed{
		Title:       "¡Gracias por agregarme! 🛡️",
		Description: "Hola, soy **PancyGuard**. Ya estoy vigilando el servidor con la configuración por defecto. Usa `/config` para ajustarla.",
		Color:       discord.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🤖 Automod",
				Value:  "Filtros de spam, enlaces e invitaciones con `/config automod`",
				Inline: true,
			},
			{
				Name:   "🔨 Moderación",
				Value:  "Sanciona con `/mod ban`, `/mod mute` y compañía",
				Inline: true,
			},
			{
				Name:   "📋 Logs",
				Value:  "Elige el canal de registros con `/config logs`",
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "PancyGuard",
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
	database.InvalidateGuildConfig(g.ID)
}
