// Package config - /config antinuke command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createAntinukeCommand creates the /config antinuke subcommand
func createAntinukeCommand() *discord.Command {
	return discord.NewCommand(
		"antinuke",
		"Ajusta el detector de cambios masivos de canales y roles",
		"config",
		antinukeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activado",
			Description: "Enciende o apaga el antinuke",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "canales",
			Description: "Canales creados o borrados para considerar nuke (2-50)",
			Required:    false,
			MinValue:    func() *float64 { v := 2.0; return &v }(),
			MaxValue:    50,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "roles",
			Description: "Roles creados o borrados para considerar nuke (2-50)",
			Required:    false,
			MinValue:    func() *float64 { v := 2.0; return &v }(),
			MaxValue:    50,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "ventana",
			Description: "Segundos de la ventana de detección (1-3600)",
			Required:    false,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    3600,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func antinukeHandler(ctx *discord.CommandContext) error {
	enabledOpt := ctx.GetOption("activado")
	channelsOpt := ctx.GetOption("canales")
	rolesOpt := ctx.GetOption("roles")
	windowOpt := ctx.GetOption("ventana")

	if enabledOpt == nil && channelsOpt == nil && rolesOpt == nil && windowOpt == nil {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		updated, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			if enabledOpt != nil {
				cfg.AntiNuke.Enabled = enabledOpt.BoolValue()
			}
			if channelsOpt != nil {
				cfg.AntiNuke.ChannelThreshold = int(channelsOpt.IntValue())
			}
			if rolesOpt != nil {
				cfg.AntiNuke.RoleThreshold = int(rolesOpt.IntValue())
			}
			if windowOpt != nil {
				cfg.AntiNuke.WindowSeconds = int(windowOpt.IntValue())
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("💣 Antinuke %s: **%d** canales o **%d** roles en **%ds**",
			onOff(updated.AntiNuke.Enabled), updated.AntiNuke.ChannelThreshold,
			updated.AntiNuke.RoleThreshold, updated.AntiNuke.WindowSeconds))
	}()

	return nil
}
