// Package mod - /mod mute command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// createMuteCommand creates the /mod mute subcommand
func createMuteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Silencia a un usuario con el rol de silencio",
		"mod",
		muteHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a silenciar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del silencio (30s, 10m, 1h, 3d). Vacío = indefinido",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del silencio",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionManageRoles).
		RequiresDatabase()
}

// muteHandler handles the /mod mute command
func muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	var duration time.Duration
	if raw := ctx.GetStringOption("duracion"); raw != "" {
		var err error
		duration, err = moderation.ParseDuration(raw)
		if err != nil {
			return ctx.ReplyEphemeral("❌ " + err.Error())
		}
	}

	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}

	go func() {
		defer errors.RecoverMiddleware()()

		cfg, ok := gateAction(ctx, "mute", user.ID)
		if !ok {
			return
		}

		if err := ctx.Reply(fmt.Sprintf("🔇 Silenciando a **%s**...", user.Username)); err != nil {
			return
		}

		out, err := moderation.GetDispatcher().Mute(
			ctx.Interaction.GuildID, user.ID, ctx.User().ID, reason, duration, cfg)
		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error al silenciar: %v", err))
			return
		}

		until := "indefinidamente"
		if duration > 0 {
			until = fmt.Sprintf("durante %s (hasta <t:%d:f>)",
				moderation.FormatDuration(duration), time.Now().Add(duration).Unix())
		}
		msg := fmt.Sprintf("🔇 **%s** ha sido silenciado %s.\n**Razón:** %s", user.Username, until, reason)
		if !out.Notified && cfg.Messaging.NotifyOnAction {
			msg += "\n📭 No se pudo avisar al usuario por DM."
		}
		ctx.EditReply(msg)
	}()

	return nil
}
