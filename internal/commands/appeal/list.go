// Package appeal - /appeal lista command
package appeal

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const appealsShown = 10

// createListCommand creates the /appeal lista subcommand
func createListCommand() *discord.Command {
	return discord.NewCommand(
		"lista",
		"[STAFF] Lista las apelaciones pendientes del servidor",
		"appeal",
		listHandler,
	).WithUserPermissions(discordgo.PermissionKickMembers).
		RequiresDatabase()
}

func listHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		appeals, err := database.ListGuildAppeals(ctx.Interaction.GuildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Appeals: %v", err), "CMD-Appeal")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}

		if len(appeals) == 0 {
			ctx.ReplyEphemeral("📭 No hay apelaciones pendientes.")
			return
		}

		var sb strings.Builder
		for i, appeal := range appeals {
			if i >= appealsShown {
				fmt.Fprintf(&sb, "… y %d más.\n", len(appeals)-appealsShown)
				break
			}
			msg := appeal.Message
			if len(msg) > 120 {
				msg = msg[:117] + "..."
			}
			fmt.Fprintf(&sb, "**<@%s>** · <t:%d:R>\n> %s\n", appeal.UserID, appeal.CreatedAt.Unix(), msg)
			if appeal.InfractionID != "" {
				fmt.Fprintf(&sb, "> **Infracción:** `%s`\n", appeal.InfractionID)
			}
			fmt.Fprintf(&sb, "> **ID:** `%s`\n\n", appeal.ID)
		}

		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title:       fmt.Sprintf("📨 Apelaciones pendientes (%d)", len(appeals)),
			Description: sb.String(),
			Color:       discord.ColorInfo,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Cierra una apelación revisada con /appeal cerrar",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
