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

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithAutoComplete(removeWarnAutoComplete).
		RequiresDatabase()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		warnID := ctx.GetStringOption("id")

		if targetUser == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
			return
		}
		if warnID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID de la advertencia.")
			return
		}

		if _, ok := gateAction(ctx, "removewarn", targetUser.ID); !ok {
			return
		}

		embedProcess := &discordgo.MessageEmbed{
			Title:       "🗑️ Eliminando advertencia...",
			Description: fmt.Sprintf("Eliminando advertencia de **%s**...\n\nEspere un momento...", targetUser.String()),
			Color:       discord.ColorWarning,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if err := ctx.ReplyEmbed(embedProcess); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial: %v", err), "CMD-RemoveWarn")
			return
		}

		// La advertencia debe pertenecer al usuario indicado y seguir activa
		warns, err := database.ActiveWarns(ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB RemoveWarn: %v", err), "CMD-RemoveWarn")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}
		if len(warns) == 0 {
			ctx.EditReply("❌ El usuario no tiene advertencias activas.")
			return
		}

		var removed *models.Infraction
		for _, warn := range warns {
			if warn.ID == warnID {
				removed = warn
				break
			}
		}
		if removed == nil {
			ctx.EditReply("❌ No se encontró una advertencia activa con ese ID.")
			return
		}

		changed, err := database.DeactivateInfraction(warnID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error guardando RemoveWarn: %v", err), "CMD-RemoveWarn")
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       "❌ Error al eliminar advertencia",
				Description: fmt.Sprintf("No se pudo eliminar la advertencia.\nError: `%v`", err),
				Color:       discord.ColorError,
			})
			return
		}
		if !changed {
			ctx.EditReply("❌ La advertencia ya había sido eliminada.")
			return
		}

		if err := database.LogModAction(&models.ActionLog{
			GuildID:     ctx.Interaction.GuildID,
			UserID:      targetUser.ID,
			ModeratorID: ctx.User().ID,
			Action:      "removewarn",
			Reason:      removed.Reason,
			CreatedAt:   time.Now(),
		}); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo registrar la acción removewarn: %v", err), "CMD-RemoveWarn")
		}

		embedSuccess := &discordgo.MessageEmbed{
			Title: "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia de **%s** ha sido eliminada.\n\n**Razón original:** %s\n**ID:** `%s`",
				targetUser.String(), removed.Reason, warnID),
			Color: discord.ColorSuccess,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embedSuccess)

		// Avisar al usuario por MD
		embedDM := &discordgo.MessageEmbed{
			Title: "ℹ - Advertencia eliminada",
			Color: discord.ColorSuccess,
			Description: fmt.Sprintf(
				"⚒ - **Servidor:** %s (%s)\n"+
					"🗑️ - **Advertencia eliminada:** %s\n\n"+
					"🕒 - **Fecha:** <t:%d:F>",
				ctx.Guild().Name, ctx.Interaction.GuildID, removed.Reason, time.Now().Unix(),
			),
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - PancyGuard",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
		}

		userChannel, err := ctx.Session.UserChannelCreate(targetUser.ID)
		if err == nil {
			_, _ = ctx.Session.ChannelMessageSendEmbed(userChannel.ID, embedDM)
		} else {
			msg, _ := ctx.Session.ChannelMessageSend(ctx.Interaction.ChannelID,
				fmt.Sprintf("ℹ️ No se pudo enviar un mensaje directo a **%s**.", targetUser.String()))
			go func() {
				time.Sleep(5 * time.Second)
				if msg != nil {
					_ = ctx.Session.ChannelMessageDelete(ctx.Interaction.ChannelID, msg.ID)
				}
			}()
		}
	}()

	return nil
}

// removeWarnAutoComplete handles autocomplete for the removewarn command
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			return
		}

		warns, err := database.ActiveWarns(ctx.Interaction.GuildID, targetUser.ID)
		if err != nil || len(warns) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, warn := range warns {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("ID: %s - Razón: %s", warn.ID, warn.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: warn.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
