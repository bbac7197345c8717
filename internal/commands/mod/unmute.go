// Package mod - /mod unmute command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createUnmuteCommand creates the /mod unmute subcommand
func createUnmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Retira el silencio de un usuario",
		"mod",
		unmuteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a des-silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresDatabase()
}

// unmuteHandler handles the /mod unmute command
func unmuteHandler(ctx *discord.CommandContext) error {
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

		if _, ok := gateAction(ctx, "unmute", user.ID); !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("🔊 Retirando el silencio de **%s**...", user.Username)); err != nil {
			return
		}

		_, err := moderation.GetDispatcher().Unmute(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al retirar el silencio: %v", err))
			return
		}

		ctx.EditReply(fmt.Sprintf("🔊 **%s** ya puede hablar de nuevo.", user.Username))
	}()

	return nil
}
