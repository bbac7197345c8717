// Package config - /config filtro command
package config

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

var actionChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Borrar mensaje", Value: "delete"},
	{Name: "Advertir", Value: "warn"},
	{Name: "Silenciar", Value: "mute"},
	{Name: "Expulsar", Value: "kick"},
	{Name: "Banear", Value: "ban"},
}

// createFilterCommand creates the /config filtro subcommand
func createFilterCommand() *discord.Command {
	return discord.NewCommand(
		"filtro",
		"Ajusta un filtro del automod",
		"config",
		filterHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "modulo",
			Description: "Filtro a ajustar",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Spam", Value: "spam"},
				{Name: "Enlaces", Value: "enlaces"},
				{Name: "Invitaciones", Value: "invitaciones"},
				{Name: "Palabras bloqueadas", Value: "palabras"},
				{Name: "Adjuntos", Value: "adjuntos"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "Enciende o apaga el filtro",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "accion",
			Description: "Qué hacer cuando el filtro salta",
			Required:    false,
			Choices:     actionChoices,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del silencio cuando la acción es silenciar (30s, 10m, 1h)",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "maximo",
			Description: "Spam: mensajes por ventana · Adjuntos: tamaño máximo en MB",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "ventana",
			Description: "Spam: segundos de la ventana de detección",
			Required:    false,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    3600,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func filterHandler(ctx *discord.CommandContext) error {
	module := ctx.GetStringOption("modulo")

	var duration int64 = -1
	if raw := ctx.GetStringOption("duracion"); raw != "" {
		d, err := moderation.ParseDuration(raw)
		if err != nil {
			return ctx.ReplyEphemeral("❌ " + err.Error())
		}
		duration = int64(d / time.Second)
	}

	// Las opciones ausentes no tocan el valor almacenado
	enabledOpt := ctx.GetOption("activado")
	actionOpt := ctx.GetOption("accion")
	maxOpt := ctx.GetOption("maximo")
	windowOpt := ctx.GetOption("ventana")

	if enabledOpt == nil && actionOpt == nil && duration < 0 && maxOpt == nil && windowOpt == nil {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		_, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			switch module {
			case "spam":
				if enabledOpt != nil {
					cfg.Spam.Enabled = enabledOpt.BoolValue()
				}
				if actionOpt != nil {
					cfg.Spam.Action = models.ActionType(actionOpt.StringValue())
				}
				if duration >= 0 {
					cfg.Spam.DurationSeconds = duration
				}
				if maxOpt != nil {
					cfg.Spam.MaxMessages = int(maxOpt.IntValue())
				}
				if windowOpt != nil {
					cfg.Spam.WindowSeconds = int(windowOpt.IntValue())
				}
			case "enlaces":
				if enabledOpt != nil {
					cfg.Links.Enabled = enabledOpt.BoolValue()
				}
				if actionOpt != nil {
					cfg.Links.Action = models.ActionType(actionOpt.StringValue())
				}
				if duration >= 0 {
					cfg.Links.DurationSeconds = duration
				}
			case "invitaciones":
				if enabledOpt != nil {
					cfg.Invites.Enabled = enabledOpt.BoolValue()
				}
				if actionOpt != nil {
					cfg.Invites.Action = models.ActionType(actionOpt.StringValue())
				}
				if duration >= 0 {
					cfg.Invites.DurationSeconds = duration
				}
			case "palabras":
				if enabledOpt != nil {
					cfg.Words.Enabled = enabledOpt.BoolValue()
				}
				if actionOpt != nil {
					cfg.Words.Action = models.ActionType(actionOpt.StringValue())
				}
				if duration >= 0 {
					cfg.Words.DurationSeconds = duration
				}
			case "adjuntos":
				if enabledOpt != nil {
					cfg.Attachments.Enabled = enabledOpt.BoolValue()
				}
				if actionOpt != nil {
					cfg.Attachments.Action = models.ActionType(actionOpt.StringValue())
				}
				if duration >= 0 {
					cfg.Attachments.DurationSeconds = duration
				}
				if maxOpt != nil {
					cfg.Attachments.MaxSizeBytes = maxOpt.IntValue() * 1024 * 1024
				}
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("⚙️ Filtro de **%s** actualizado. Usa `/config ver` para revisar la política completa.", module))
	}()

	return nil
}
