// Package mod - /mod ban command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createBanCommand creates the /mod ban subcommand
func createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Banea a un usuario del servidor",
		"mod",
		banHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del ban",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "dias",
			Description: "Días de mensajes a eliminar (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()
}

// banHandler handles the /mod ban command
func banHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}
	days := int(ctx.GetIntOption("dias"))

	go func() {
		defer errors.RecoverMiddleware()()

		cfg, ok := gateAction(ctx, "ban", user.ID)
		if !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("🔨 Baneando a **%s**...", user.Username)); err != nil {
			return
		}

		out, err := moderation.GetDispatcher().Ban(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason, days, 0, cfg)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al banear: %v", err))
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🔨 Usuario baneado",
			Description: fmt.Sprintf("**%s** ha sido baneado del servidor.", user.String()),
			Color:       discord.ColorModeration,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Razón", Value: reason},
				{Name: "Moderador", Value: ctx.User().Mention(), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("ID de infracción: %s", out.Infraction.ID),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if !out.Notified && cfg.Messaging.NotifyOnAction {
			embed.Description += "\n📭 No se pudo avisar al usuario por DM."
		}
		ctx.EditReplyEmbed(embed)
	}()

	return nil
}
