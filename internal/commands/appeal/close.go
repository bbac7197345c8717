// Package appeal - /appeal cerrar command
package appeal

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createCloseCommand creates the /appeal cerrar subcommand
func createCloseCommand() *discord.Command {
	return discord.NewCommand(
		"cerrar",
		"[STAFF] Cierra una apelación ya revisada",
		"appeal",
		closeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de la apelación",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

func closeHandler(ctx *discord.CommandContext) error {
	appealID := ctx.GetStringOption("id")
	if appealID == "" {
		return ctx.ReplyEphemeral("❌ Debes indicar el ID de la apelación.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		// La apelación debe ser de este servidor
		appeals, err := database.ListGuildAppeals(ctx.Interaction.GuildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Appeals: %v", err), "CMD-Appeal")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}
		found := false
		for _, appeal := range appeals {
			if appeal.ID == appealID {
				found = true
				break
			}
		}
		if !found {
			ctx.ReplyEphemeral("❌ No hay ninguna apelación con ese ID en este servidor.")
			return
		}

		if err := database.DeleteAppeal(appealID); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando apelación %s: %v", appealID, err), "CMD-Appeal")
			ctx.ReplyEphemeral("❌ No se pudo cerrar la apelación.")
			return
		}

		ctx.ReplyEphemeral(fmt.Sprintf("✅ Apelación `%s` cerrada.", appealID))
	}()

	return nil
}
