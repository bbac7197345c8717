// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createKickCommand creates the /mod kick subcommand
func createKickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulsa a un usuario del servidor",
		"mod",
		kickHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a expulsar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la expulsión",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

// kickHandler handles the /mod kick command
func kickHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}

	go func() {
		defer errors.RecoverMiddleware()()

		cfg, ok := gateAction(ctx, "kick", user.ID)
		if !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("👢 Expulsando a **%s**...", user.Username)); err != nil {
			return
		}

		out, err := moderation.GetDispatcher().Kick(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason, cfg)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al expulsar: %v", err))
			return
		}

		msg := fmt.Sprintf("👢 **%s** ha sido expulsado.\n**Razón:** %s", user.Username, reason)
		if !out.Notified && cfg.Messaging.NotifyOnAction {
			msg += "\n📭 No se pudo avisar al usuario por DM."
		}
		ctx.EditReply(msg)
	}()

	return nil
}
