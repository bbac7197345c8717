// Package config - /config automod command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createAutomodCommand creates the /config automod subcommand
func createAutomodCommand() *discord.Command {
	return discord.NewCommand(
		"automod",
		"Enciende o apaga todos los filtros de mensajes",
		"config",
		automodHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "true para encender, false para apagar",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func automodHandler(ctx *discord.CommandContext) error {
	enabled := ctx.GetBoolOption("activado")

	go func() {
		defer errors.RecoverMiddleware()()

		_, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			cfg.AutomodEnabled = enabled
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		if enabled {
			ctx.Reply("🤖 Automod **encendido**. Los filtros configurados vuelven a vigilar los mensajes.")
			return
		}
		ctx.Reply("🤖 Automod **apagado**. Ningún filtro de mensajes actuará hasta volver a encenderlo.")
	}()

	return nil
}
