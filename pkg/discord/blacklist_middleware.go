package discord

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// BlacklistMiddleware corta la interacción cuando el usuario o el servidor
// están vetados de la plataforma. Corre antes de cualquier handler.
func (c *ExtendedClient) BlacklistMiddleware(ctx *CommandContext) error {
	if blocked, entry := database.IsUserBlacklisted(ctx.User().ID); blocked {
		c.denyInteraction(ctx, "🚫 Acceso Denegado",
			"Tu cuenta está vetada de la plataforma y no puedes usar este bot.", entry)
		logger.Warn(fmt.Sprintf("Usuario vetado intentó usar un comando: %s", ctx.User().ID), "Blacklist")
		return fmt.Errorf("usuario %s vetado", ctx.User().ID)
	}

	guildID := ctx.Interaction.GuildID
	if guildID == "" {
		return nil
	}

	if blocked, entry := database.IsGuildBlacklisted(guildID); blocked {
		c.denyInteraction(ctx, "🚫 Servidor Vetado",
			"Este servidor está vetado de la plataforma. El bot se retirará automáticamente.", entry)
		logger.Warn(fmt.Sprintf("Servidor vetado detectado: %s, saliendo...", guildID), "Blacklist")
		c.scheduleGuildLeave(guildID)
		return fmt.Errorf("servidor %s vetado", guildID)
	}

	return nil
}

// denyInteraction responds ephemerally with the veto notice and its reason.
func (c *ExtendedClient) denyInteraction(ctx *CommandContext, title, description string, entry *models.BlacklistEntry) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       ColorError,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if entry != nil && entry.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Razón",
			Value: entry.Reason,
		})
	}
	if entry != nil && entry.ExpiresAt != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Expira",
			Value: fmt.Sprintf("<t:%d:R>", entry.ExpiresAt.Unix()),
		})
	}

	if err := ctx.ReplyEphemeralEmbed(embed); err != nil {
		logger.Error(fmt.Sprintf("Error notificando el veto: %v", err), "Blacklist")
	}
}

// scheduleGuildLeave leaves after a short delay so the notice above has time
// to reach the channel.
func (c *ExtendedClient) scheduleGuildLeave(guildID string) {
	go func() {
		time.Sleep(2 * time.Second)
		if err := c.Session.GuildLeave(guildID); err != nil {
			logger.Error(fmt.Sprintf("Error saliendo del servidor vetado %s: %v", guildID, err), "Blacklist")
		}
	}()
}
