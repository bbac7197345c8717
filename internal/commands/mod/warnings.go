package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias activas de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			targetUser = ctx.User()
		}
		isSelf := targetUser.ID == ctx.User().ID
		isStaff := canViewRecords(ctx, "warnings", targetUser.ID)

		if !isSelf && !isStaff {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...",
			Color:       discord.ColorInfo,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - PancyGuard",
				IconURL: ctx.Guild().IconURL(""),
			},
		}
		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warnings: %v", err), "CMD-Warnings")
			return
		}

		warns, err := database.ActiveWarns(ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Warnings: %v", err), "CMD-Warnings")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(warns) == 0 {
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title: fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color: discord.ColorSuccess,
				Description: fmt.Sprintf("No se han encontrado advertencias activas del usuario en este servidor\n\n> 💫 - **Cantidad de advertencias:** 0\n> 🕒 - **Fecha de consulta:** <t:%d>",
					time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text:    "💫 - PancyGuard",
					IconURL: ctx.Guild().IconURL(""),
				},
			})
			return
		}

		var description string
		for _, warn := range warns {
			modName := "Oculto"
			// Solo el staff ve quién puso cada advertencia
			if isStaff && !isSelf {
				modUser, err := ctx.Session.User(warn.ModeratorID)
				if err == nil {
					modName = modUser.Username
				} else {
					modName = warn.ModeratorID
				}
			}
			description += fmt.Sprintf("> **Advertencia:** %s \n> **Moderador:** %s \n> **ID:** `%s` \n> **Fecha:** <t:%d:d>\n\n",
				warn.Reason, modName, warn.ID, warn.CreatedAt.Unix())
		}
		description += fmt.Sprintf("> 💫 - **Cantidad de advertencias:** %d \n> 🕒 - **Fecha de consulta:** <t:%d>",
			len(warns), time.Now().Unix())

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color:       discord.ColorWarning,
			Description: description,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - PancyGuard",
				IconURL: ctx.Guild().IconURL(""),
			},
		})
	}()

	return nil
}
