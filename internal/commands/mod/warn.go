// Package mod - /mod warn command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}
	if user.Bot {
		return ctx.ReplyEphemeral("❌ Los bots no acumulan advertencias.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		return ctx.ReplyEphemeral("❌ Debes especificar una razón.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		cfg, ok := gateAction(ctx, "warn", user.ID)
		if !ok {
			return
		}

		out, err := moderation.GetDispatcher().Warn(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason, cfg)
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al registrar la advertencia: %v", err))
			return
		}

		msg := fmt.Sprintf("⚠️ **%s** ha sido advertido.\n**Razón:** %s\n**ID:** `%s`",
			user.Username, reason, out.Infraction.ID)
		if !out.Notified && cfg.Messaging.NotifyOnAction {
			msg += "\n📭 No se pudo avisar al usuario por DM."
		}
		ctx.Reply(msg)
	}()

	return nil
}
