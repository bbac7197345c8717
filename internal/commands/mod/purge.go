// Package mod - /mod purge command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createPurgeCommand creates the /mod purge subcommand
func createPurgeCommand() *discord.Command {
	return discord.NewCommand(
		"purge",
		"Borra mensajes recientes del canal",
		"mod",
		purgeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "cantidad",
			Description: "Cuántos mensajes borrar (1-100)",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Borrar solo mensajes de este usuario",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages).
		RequiresDatabase()
}

// purgeHandler handles the /mod purge command
func purgeHandler(ctx *discord.CommandContext) error {
	limit := int(ctx.GetIntOption("cantidad"))
	if limit < 1 {
		return ctx.ReplyEphemeral("❌ La cantidad debe ser al menos 1.")
	}

	userID := ""
	if user := ctx.GetUserOption("usuario"); user != nil {
		userID = user.ID
	}

	go func() {
		defer errors.RecoverMiddleware()()

		// La purga no tiene objetivo individual cuando no se filtra por usuario
		if _, ok := gateAction(ctx, "purge", userID); !ok {
			return
		}

		if err := ctx.ReplyEphemeral("🧹 Borrando mensajes..."); err != nil {
			return
		}

		out, err := moderation.GetDispatcher().Purge(
			ctx.Interaction.GuildID, ctx.Interaction.ChannelID, userID, ctx.User().ID, limit)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al borrar mensajes: %v", err))
			return
		}

		msg := fmt.Sprintf("🧹 Se borraron **%d** mensajes.", out.Purged)
		if userID != "" {
			msg = fmt.Sprintf("🧹 Se borraron **%d** mensajes de <@%s>.", out.Purged, userID)
		}
		if out.Purged == 0 {
			msg = "🧹 No había mensajes recientes que borrar (más de 14 días no se pueden purgar)."
		}
		ctx.EditReply(msg)
	}()

	return nil
}
