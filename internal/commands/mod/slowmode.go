// Package mod - /mod slowmode command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createSlowmodeCommand creates the /mod slowmode subcommand
func createSlowmodeCommand() *discord.Command {
	return discord.NewCommand(
		"slowmode",
		"Ajusta el modo lento del canal",
		"mod",
		slowmodeHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "segundos",
			Description: "Segundos entre mensajes (0 lo desactiva, máximo 21600)",
			Required:    true,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    21600,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "canal",
			Description: "Canal a ajustar (por defecto el actual)",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels)
}

// slowmodeHandler handles the /mod slowmode command
func slowmodeHandler(ctx *discord.CommandContext) error {
	seconds := int(ctx.GetIntOption("segundos"))

	channelID := ctx.Interaction.ChannelID
	if ch := ctx.GetChannelOption("canal"); ch != nil {
		channelID = ch.ID
	}

	go func() {
		defer errors.RecoverMiddleware()()

		if _, ok := gateAction(ctx, "slowmode", ""); !ok {
			return
		}

		_, err := ctx.Session.ChannelEdit(channelID, &discordgo.ChannelEdit{
			RateLimitPerUser: &seconds,
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al ajustar el modo lento: %v", err))
			return
		}

		if err := database.LogModAction(&models.ActionLog{
			GuildID:     ctx.Interaction.GuildID,
			ModeratorID: ctx.User().ID,
			Action:      "slowmode",
			Reason:      fmt.Sprintf("%d segundos en <#%s>", seconds, channelID),
			CreatedAt:   time.Now(),
		}); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo registrar la acción slowmode: %v", err), "CMD-Slowmode")
		}

		if seconds == 0 {
			ctx.Reply(fmt.Sprintf("🐇 Modo lento desactivado en <#%s>.", channelID))
			return
		}
		ctx.Reply(fmt.Sprintf("🐢 Modo lento de **%d segundos** activado en <#%s>.", seconds, channelID))
	}()

	return nil
}
