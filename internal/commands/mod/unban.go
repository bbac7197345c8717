// Package mod - /mod unban command
package mod

import (
	"fmt"
	"regexp"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// El selector de usuarios no muestra a los baneados, así que el comando
// recibe el ID como texto.
var snowflakeRe = regexp.MustCompile(`^\d{17,20}$`)

// createUnbanCommand creates the /mod unban subcommand
func createUnbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Levanta el baneo de un usuario",
		"mod",
		unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario baneado",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del desbaneo",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// unbanHandler handles the /mod unban command
func unbanHandler(ctx *discord.CommandContext) error {
	userID := ctx.GetStringOption("id")
	if !snowflakeRe.MatchString(userID) {
		return ctx.ReplyEphemeral("❌ Debes especificar un ID de usuario válido.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}

	go func() {
		defer errors.RecoverMiddleware()()

		if _, ok := gateAction(ctx, "unban", userID); !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("🕊️ Levantando el baneo de <@%s>...", userID)); err != nil {
			return
		}

		_, err := moderation.GetDispatcher().Unban(
			ctx.Interaction.GuildID, userID, ctx.User().ID, reason)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al desbanear: %v", err))
			return
		}

		ctx.EditReply(fmt.Sprintf("🕊️ El baneo de <@%s> ha sido levantado.\n**Razón:** %s", userID, reason))
	}()

	return nil
}
