// Package mod - /mod lock and /mod unlock commands
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

// createLockCommand creates the /mod lock subcommand
func createLockCommand() *discord.Command {
	return discord.NewCommand(
		"lock",
		"Bloquea el canal para @everyone",
		"mod",
		lockHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del bloqueo",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels)
}

// createUnlockCommand creates the /mod unlock subcommand
func createUnlockCommand() *discord.Command {
	return discord.NewCommand(
		"unlock",
		"Desbloquea el canal para @everyone",
		"mod",
		unlockHandler,
	).WithUserPermissions(discordgo.PermissionManageChannels).
		WithBotPermissions(discordgo.PermissionManageChannels)
}

func lockHandler(ctx *discord.CommandContext) error {
	reason := ctx.GetStringOption("razon")
	if reason == "" {
		reason = "Sin razón especificada"
	}

	go func() {
		defer errors.RecoverMiddleware()()

		if _, ok := gateAction(ctx, "lock", ""); !ok {
			return
		}

		if err := setChannelLock(ctx, true); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al bloquear el canal: %v", err))
			return
		}

		logChannelAction(ctx, "lock", fmt.Sprintf("%s en <#%s>", reason, ctx.Interaction.ChannelID))
		ctx.Reply(fmt.Sprintf("🔒 Canal bloqueado.\n**Razón:** %s", reason))
	}()

	return nil
}

func unlockHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if _, ok := gateAction(ctx, "unlock", ""); !ok {
			return
		}

		if err := setChannelLock(ctx, false); err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ Error al desbloquear el canal: %v", err))
			return
		}

		logChannelAction(ctx, "unlock", fmt.Sprintf("<#%s>", ctx.Interaction.ChannelID))
		ctx.Reply("🔓 Canal desbloqueado. @everyone puede escribir de nuevo.")
	}()

	return nil
}

// setChannelLock alterna el permiso de escribir de @everyone en el canal
// actual conservando el resto del override existente.
func setChannelLock(ctx *discord.CommandContext, lock bool) error {
	guildID := ctx.Interaction.GuildID
	channelID := ctx.Interaction.ChannelID

	ch, err := ctx.Session.Channel(channelID)
	if err != nil {
		return err
	}

	// El rol @everyone comparte ID con el servidor
	var allow, deny int64
	for _, ow := range ch.PermissionOverwrites {
		if ow.ID == guildID {
			allow, deny = ow.Allow, ow.Deny
			break
		}
	}

	if lock {
		deny |= discordgo.PermissionSendMessages
		allow &^= discordgo.PermissionSendMessages
	} else {
		deny &^= discordgo.PermissionSendMessages
	}

	return ctx.Session.ChannelPermissionSet(channelID, guildID, discordgo.PermissionOverwriteTypeRole, allow, deny)
}

func logChannelAction(ctx *discord.CommandContext, action, reason string) {
	if err := database.LogModAction(&models.ActionLog{
		GuildID:     ctx.Interaction.GuildID,
		ModeratorID: ctx.User().ID,
		Action:      action,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo registrar la acción %s: %v", action, err), "CMD-Lock")
	}
}
