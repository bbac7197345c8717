// Package mod - /mod infractions command
package mod

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const infractionsPageSize = 5

// createInfractionsCommand creates the /mod infractions subcommand
func createInfractionsCommand() *discord.Command {
	return discord.NewCommand(
		"infractions",
		"Historial completo de infracciones de un usuario",
		"mod",
		infractionsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a consultar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func infractionsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			targetUser = ctx.User()
		}
		if targetUser.ID != ctx.User().ID && !canViewRecords(ctx, "infractions", targetUser.ID) {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver el historial de otro usuario.")
			return
		}

		embed, components, err := buildInfractionsPage(ctx.Session, ctx.Interaction.GuildID, targetUser.ID, 0, ctx.User().ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Infractions: %v", err), "CMD-Infractions")
			ctx.ReplyEphemeral("❌ Error al consultar la base de datos.")
			return
		}

		err = ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: components,
				Flags:      discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando historial: %v", err), "CMD-Infractions")
		}
	}()

	return nil
}

// handleInfractionsComponent pasa de página. El custom ID lleva el sujeto, la
// página destino y quién ejecutó el comando; solo ese moderador puede navegar.
func handleInfractionsComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	go func() {
		defer errors.RecoverMiddleware()()

		parts := strings.Split(i.MessageComponentData().CustomID, ":")
		if len(parts) != 4 {
			return
		}
		userID, invokerID := parts[1], parts[3]
		page, err := strconv.Atoi(parts[2])
		if err != nil || page < 0 {
			return
		}

		if i.Member == nil || i.Member.User == nil || i.Member.User.ID != invokerID {
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "❌ Solo quien ejecutó el comando puede pasar de página.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
			return
		}

		embed, components, err := buildInfractionsPage(s, i.GuildID, userID, page, invokerID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Infractions (página %d): %v", page, err), "CMD-Infractions")
			return
		}

		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{embed},
				Components: components,
			},
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error actualizando historial: %v", err), "CMD-Infractions")
		}
	}()
}

// buildInfractionsPage arma el embed de una página del historial junto con los
// botones de navegación. page se recorta al rango válido.
func buildInfractionsPage(s *discordgo.Session, guildID, userID string, page int, invokerID string) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	infractions, err := database.ListUserInfractions(guildID, userID)
	if err != nil {
		return nil, nil, err
	}
	recent, err := database.CountRecentInfractions(guildID, userID, 30)
	if err != nil {
		recent = 0
	}

	name := userID
	if u, err := s.User(userID); err == nil {
		name = u.Username
	}

	if len(infractions) == 0 {
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("📋 Historial de %s", name),
			Description: "Este usuario no tiene infracciones registradas en el servidor.",
			Color:       discord.ColorSuccess,
		}
		return embed, nil, nil
	}

	totalPages := (len(infractions) + infractionsPageSize - 1) / infractionsPageSize
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * infractionsPageSize
	end := start + infractionsPageSize
	if end > len(infractions) {
		end = len(infractions)
	}

	var sb strings.Builder
	for idx, inf := range infractions[start:end] {
		state := "⚪ inactiva"
		if inf.Active {
			state = "🟢 activa"
		}
		fmt.Fprintf(&sb, "**#%d** %s `%s` · %s\n", start+idx+1, infractionEmoji(inf.Type), inf.Type, state)
		fmt.Fprintf(&sb, "> **Razón:** %s\n", inf.Reason)
		fmt.Fprintf(&sb, "> **Moderador:** %s · **Fecha:** <t:%d:d>\n", moderatorMention(inf.ModeratorID), inf.CreatedAt.Unix())
		if inf.IsTemporary() {
			fmt.Fprintf(&sb, "> **Expira:** <t:%d:f>\n", inf.ExpiresAt.Unix())
		}
		fmt.Fprintf(&sb, "> **ID:** `%s`\n\n", inf.ID)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📋 Historial de %s (%s)", name, userID),
		Description: sb.String(),
		Color:       discord.ColorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d infracciones en total · %d activas en los últimos 30 días", len(infractions), recent),
		},
	}

	if totalPages <= 1 {
		return embed, nil, nil
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("infractions:%s:%d:%s", userID, page-1, invokerID),
					Disabled: page == 0,
				},
				discordgo.Button{
					Label:    fmt.Sprintf("%d/%d", page+1, totalPages),
					Style:    discordgo.SecondaryButton,
					CustomID: "infractions:page",
					Disabled: true,
				},
				discordgo.Button{
					Label:    "▶",
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("infractions:%s:%d:%s", userID, page+1, invokerID),
					Disabled: page >= totalPages-1,
				},
			},
		},
	}
	return embed, components, nil
}

func infractionEmoji(t models.InfractionType) string {
	switch t {
	case models.InfractionWarn:
		return "⚠️"
	case models.InfractionMute:
		return "🔇"
	case models.InfractionKick:
		return "👢"
	case models.InfractionBan:
		return "🔨"
	case models.InfractionTempBan:
		return "⏳"
	}
	return "📌"
}

func moderatorMention(moderatorID string) string {
	if moderatorID == "system" {
		return "🤖 Automod"
	}
	return fmt.Sprintf("<@%s>", moderatorID)
}
