// Package appeal - /appeal enviar command
package appeal

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createSubmitCommand creates the /appeal enviar subcommand
func createSubmitCommand() *discord.Command {
	return discord.NewCommand(
		"enviar",
		"Envía una apelación sobre una sanción que recibiste",
		"appeal",
		submitHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mensaje",
			Description: "Por qué crees que la sanción debería revisarse",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la infracción que apelas (opcional)",
			Required:     false,
			Autocomplete: true,
		},
	).WithAutoComplete(submitAutoComplete).
		RequiresDatabase()
}

func submitHandler(ctx *discord.CommandContext) error {
	message := ctx.GetStringOption("mensaje")
	if message == "" {
		return ctx.ReplyEphemeral("❌ Debes escribir el motivo de la apelación.")
	}
	infractionID := ctx.GetStringOption("id")

	go func() {
		defer errors.RecoverMiddleware()()

		guildID := ctx.Interaction.GuildID
		userID := ctx.User().ID

		// Solo se pueden apelar infracciones propias
		if infractionID != "" {
			infractions, err := database.ListUserInfractions(guildID, userID)
			if err != nil {
				ctx.ReplyEphemeral("❌ Error al consultar tus infracciones.")
				return
			}
			found := false
			for _, inf := range infractions {
				if inf.ID == infractionID {
					found = true
					break
				}
			}
			if !found {
				ctx.ReplyEphemeral("❌ Esa infracción no existe o no es tuya.")
				return
			}
		}

		appeal, err := database.SubmitAppeal(guildID, userID, infractionID, message)
		if err != nil {
			if err == database.ErrAppealAlreadyOpen {
				ctx.ReplyEphemeral("❌ Ya tienes una apelación abierta para esa sanción.")
				return
			}
			logger.Error(fmt.Sprintf("Error guardando apelación: %v", err), "CMD-Appeal")
			ctx.ReplyEphemeral("❌ No se pudo registrar la apelación. Inténtalo más tarde.")
			return
		}

		ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
			Title:       "📨 Apelación enviada",
			Description: "El equipo de moderación la revisará. Recibirás noticias por este servidor.",
			Color:       discord.ColorSuccess,
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("ID de apelación: %s", appeal.ID),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})

		// Avisar al staff en el canal de registro
		cfg := database.GetGuildConfig(guildID)
		if !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogActions {
			return
		}
		embed := &discordgo.MessageEmbed{
			Title:       "📨 Nueva apelación",
			Description: message,
			Color:       discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Usuario", Value: fmt.Sprintf("<@%s> (%s)", userID, userID), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("ID: %s · /appeal lista para ver todas", appeal.ID),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if infractionID != "" {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Infracción", Value: fmt.Sprintf("`%s`", infractionID), Inline: true,
			})
		}
		if _, err := ctx.Session.ChannelMessageSendEmbed(cfg.Logging.ChannelID, embed); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo avisar de la apelación en <#%s>: %v", cfg.Logging.ChannelID, err), "CMD-Appeal")
		}
	}()

	return nil
}

// submitAutoComplete sugiere las infracciones del propio usuario
func submitAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		infractions, err := database.ListUserInfractions(ctx.Interaction.GuildID, ctx.User().ID)
		if err != nil || len(infractions) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for i, inf := range infractions {
			if i >= 25 {
				break
			}
			name := fmt.Sprintf("%s - %s", inf.Type, inf.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: inf.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
