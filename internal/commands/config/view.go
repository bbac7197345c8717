// Package config - /config ver command
package config

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createViewCommand creates the /config ver subcommand
func createViewCommand() *discord.Command {
	return discord.NewCommand(
		"ver",
		"Muestra la configuración actual del servidor",
		"config",
		viewHandler,
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func viewHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		cfg := database.GetGuildConfig(ctx.Interaction.GuildID)

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("⚙️ Configuración de %s", ctx.Guild().Name),
			Color: discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name: "🤖 Automod",
					Value: fmt.Sprintf("%s (interruptor general)\n🌊 **Spam:** %s\n🔗 **Enlaces:** %s\n📨 **Invitaciones:** %s\n🤬 **Palabras:** %s (%d bloqueadas)\n📎 **Adjuntos:** %s",
						onOff(cfg.AutomodEnabled),
						filterSummary(cfg.Spam.Enabled, string(cfg.Spam.Action), cfg.Spam.DurationSeconds),
						filterSummary(cfg.Links.Enabled, string(cfg.Links.Action), cfg.Links.DurationSeconds),
						filterSummary(cfg.Invites.Enabled, string(cfg.Invites.Action), cfg.Invites.DurationSeconds),
						filterSummary(cfg.Words.Enabled, string(cfg.Words.Action), cfg.Words.DurationSeconds),
						len(cfg.Words.BlockedWords),
						filterSummary(cfg.Attachments.Enabled, string(cfg.Attachments.Action), cfg.Attachments.DurationSeconds)),
				},
				{
					Name: "🌊 Umbral de spam",
					Value: fmt.Sprintf("%d mensajes en %d segundos",
						cfg.Spam.MaxMessages, cfg.Spam.WindowSeconds),
					Inline: true,
				},
				{
					Name: "🚪 Antiraid",
					Value: fmt.Sprintf("%s · %d entradas en %ds · bloqueo automático %s",
						onOff(cfg.AntiRaid.Enabled), cfg.AntiRaid.JoinThreshold,
						cfg.AntiRaid.WindowSeconds, onOff(cfg.AntiRaid.AutoLockdown)),
				},
				{
					Name: "💣 Antinuke",
					Value: fmt.Sprintf("%s · %d canales o %d roles en %ds",
						onOff(cfg.AntiNuke.Enabled), cfg.AntiNuke.ChannelThreshold,
						cfg.AntiNuke.RoleThreshold, cfg.AntiNuke.WindowSeconds),
				},
				{
					Name:   "🛡️ Permisos",
					Value:  fmt.Sprintf("Rol moderador: %s · jerarquía %s", roleMention(cfg.Permissions.ModRoleID), onOff(cfg.Permissions.HierarchyCheck)),
					Inline: true,
				},
				{
					Name: "✉️ Avisos",
					Value: fmt.Sprintf("DM al sancionar %s · info de apelación %s",
						onOff(cfg.Messaging.NotifyOnAction), onOff(cfg.Messaging.IncludeAppealInfo)),
					Inline: true,
				},
				{
					Name: "📋 Registro",
					Value: fmt.Sprintf("%s · canal %s\nAcciones %s · borrados %s · ediciones %s",
						onOff(cfg.Logging.Enabled), channelMention(cfg.Logging.ChannelID),
						onOff(cfg.Logging.LogActions), onOff(cfg.Logging.LogDeletes), onOff(cfg.Logging.LogEdits)),
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Última actualización: %s", cfg.UpdatedAt.Format("02/01/2006 15:04")),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		ctx.ReplyEphemeralEmbed(embed)
	}()

	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "✅"
	}
	return "❌"
}

func filterSummary(enabled bool, action string, durationSeconds int64) string {
	if !enabled {
		return "❌"
	}
	s := "✅ → " + actionLabel(action)
	if needsDuration(action) && durationSeconds > 0 {
		s += fmt.Sprintf(" (%ds)", durationSeconds)
	}
	return s
}

func actionLabel(action string) string {
	switch models.ActionType(action) {
	case models.ActionDelete:
		return "borrar"
	case models.ActionWarn:
		return "advertir"
	case models.ActionMute:
		return "silenciar"
	case models.ActionKick:
		return "expulsar"
	case models.ActionBan:
		return "banear"
	}
	return action
}

func needsDuration(action string) bool {
	return models.ActionType(action) == models.ActionMute
}

func roleMention(roleID string) string {
	if roleID == "" {
		return "sin configurar"
	}
	return fmt.Sprintf("<@&%s>", roleID)
}

func channelMention(channelID string) string {
	if channelID == "" {
		return "sin configurar"
	}
	return fmt.Sprintf("<#%s>", channelID)
}
