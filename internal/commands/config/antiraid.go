// Package config - /config antiraid command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createAntiraidCommand creates the /config antiraid subcommand
func createAntiraidCommand() *discord.Command {
	return discord.NewCommand(
		"antiraid",
		"Ajusta el detector de entradas masivas",
		"config",
		antiraidHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "Enciende o apaga el antiraid",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "umbral",
			Description: "Entradas necesarias para considerar raid (2-100)",
			Required:    false,
			MinValue:    func() *float64 { v := 2.0; return &v }(),
			MaxValue:    100,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "ventana",
			Description: "Segundos de la ventana de detección (1-3600)",
			Required:    false,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    3600,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "bloqueo",
			Description: "Revocar invitaciones automáticamente al detectar un raid",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func antiraidHandler(ctx *discord.CommandContext) error {
	enabledOpt := ctx.GetOption("activado")
	thresholdOpt := ctx.GetOption("umbral")
	windowOpt := ctx.GetOption("ventana")
	lockdownOpt := ctx.GetOption("bloqueo")

	if enabledOpt == nil && thresholdOpt == nil && windowOpt == nil && lockdownOpt == nil {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		updated, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			if enabledOpt != nil {
				cfg.AntiRaid.Enabled = enabledOpt.BoolValue()
			}
			if thresholdOpt != nil {
				cfg.AntiRaid.JoinThreshold = int(thresholdOpt.IntValue())
			}
			if windowOpt != nil {
				cfg.AntiRaid.WindowSeconds = int(windowOpt.IntValue())
			}
			if lockdownOpt != nil {
				cfg.AntiRaid.AutoLockdown = lockdownOpt.BoolValue()
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("🚪 Antiraid %s: **%d** entradas en **%ds** · bloqueo automático %s",
			onOff(updated.AntiRaid.Enabled), updated.AntiRaid.JoinThreshold,
			updated.AntiRaid.WindowSeconds, onOff(updated.AntiRaid.AutoLockdown)))
	}()

	return nil
}
