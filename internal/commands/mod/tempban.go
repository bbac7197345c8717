// Package mod - /mod tempban command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createTempBanCommand creates the /mod tempban subcommand
func createTempBanCommand() *discord.Command {
	return discord.NewCommand(
		"tempban",
		"Banea a un usuario temporalmente",
		"mod",
		tempBanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a banear",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del baneo (30m, 12h, 3d, 1w)",
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

// tempBanHandler handles the /mod tempban command
func tempBanHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	duration, err := moderation.ParseDuration(ctx.GetStringOption("duracion"))
	if err != nil {
		return ctx.ReplyEphemeral("❌ " + err.Error())
	}
	if duration < time.Minute {
		return ctx.ReplyEphemeral("❌ La duración mínima de un baneo temporal es 1 minuto.")
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}
	days := int(ctx.GetIntOption("dias"))

	go func() {
		defer errors.RecoverMiddleware()()

		cfg, ok := gateAction(ctx, "tempban", user.ID)
		if !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("🔨 Baneando a **%s** temporalmente...", user.Username)); err != nil {
			return
		}

		out, err := moderation.GetDispatcher().Ban(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason, days, duration, cfg)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al banear: %v", err))
			return
		}

		expires := time.Now().Add(duration)
		embed := &discordgo.MessageEmbed{
			Title: "🔨 Baneo temporal aplicado",
			Description: fmt.Sprintf("**%s** ha sido baneado durante %s.",
				user.String(), moderation.FormatDuration(duration)),
			Color: discord.ColorModeration,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Razón", Value: reason},
				{Name: "Expira", Value: fmt.Sprintf("<t:%d:f>", expires.Unix()), Inline: true},
				{Name: "Moderador", Value: ctx.User().Mention(), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("ID de infracción: %s", out.Infraction.ID),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embed)
	}()

	return nil
}
