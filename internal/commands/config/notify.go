// Package config - /config avisos command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createNotifyCommand creates the /config avisos subcommand
func createNotifyCommand() *discord.Command {
	return discord.NewCommand(
		"avisos",
		"Configura los avisos por DM a los usuarios sancionados",
		"config",
		notifyHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "dm",
			Description: "Avisar por DM al aplicar una sanción",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "apelacion",
			Description: "Incluir cómo apelar en el aviso",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func notifyHandler(ctx *discord.CommandContext) error {
	dmOpt := ctx.GetOption("dm")
	appealOpt := ctx.GetOption("apelacion")

	if dmOpt == nil && appealOpt == nil {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		updated, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			if dmOpt != nil {
				cfg.Messaging.NotifyOnAction = dmOpt.BoolValue()
			}
			if appealOpt != nil {
				cfg.Messaging.IncludeAppealInfo = appealOpt.BoolValue()
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("✉️ Avisos por DM %s · info de apelación %s",
			onOff(updated.Messaging.NotifyOnAction), onOff(updated.Messaging.IncludeAppealInfo)))
	}()

	return nil
}
