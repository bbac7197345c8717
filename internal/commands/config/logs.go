// Package config - /config logs command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createLogsCommand creates the /config logs subcommand
func createLogsCommand() *discord.Command {
	return discord.NewCommand(
		"logs",
		"Configura el canal de registro de moderación",
		"config",
		logsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal donde escribir el registro",
			Required:    false,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "Enciende o apaga el registro",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "acciones",
			Description: "Registrar sanciones y alertas",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "borrados",
			Description: "Registrar mensajes eliminados",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "ediciones",
			Description: "Registrar mensajes editados",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func logsHandler(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("canal")
	enabledOpt := ctx.GetOption("activado")
	actionsOpt := ctx.GetOption("acciones")
	deletesOpt := ctx.GetOption("borrados")
	editsOpt := ctx.GetOption("ediciones")

	if channel == nil && enabledOpt == nil && actionsOpt == nil && deletesOpt == nil && editsOpt == nil {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		updated, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			if channel != nil {
				cfg.Logging.ChannelID = channel.ID
				// Elegir canal implica querer el registro encendido
				if enabledOpt == nil {
					cfg.Logging.Enabled = true
				}
			}
			if enabledOpt != nil {
				cfg.Logging.Enabled = enabledOpt.BoolValue()
			}
			if actionsOpt != nil {
				cfg.Logging.LogActions = actionsOpt.BoolValue()
			}
			if deletesOpt != nil {
				cfg.Logging.LogDeletes = deletesOpt.BoolValue()
			}
			if editsOpt != nil {
				cfg.Logging.LogEdits = editsOpt.BoolValue()
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("📋 Registro %s en %s · acciones %s · borrados %s · ediciones %s",
			onOff(updated.Logging.Enabled), channelMention(updated.Logging.ChannelID),
			onOff(updated.Logging.LogActions), onOff(updated.Logging.LogDeletes), onOff(updated.Logging.LogEdits)))
	}()

	return nil
}
