// Package config - /config modrole command
package config

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createModroleCommand creates the /config modrole subcommand
func createModroleCommand() *discord.Command {
	return discord.NewCommand(
		"modrole",
		"Define el rol de moderador exento del automod",
		"config",
		modroleHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "rol",
			Description: "Rol cuyos miembros no pasan por el automod",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "jerarquia",
			Description: "Exigir que el moderador tenga un rol superior al sancionado",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "quitar",
			Description: "Quitar el rol de moderador configurado",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func modroleHandler(ctx *discord.CommandContext) error {
	role := ctx.GetRoleOption("rol")
	hierarchyOpt := ctx.GetOption("jerarquia")
	clear := ctx.GetBoolOption("quitar")

	if role == nil && hierarchyOpt == nil && !clear {
		return ctx.ReplyEphemeral("❌ Indica al menos un ajuste a cambiar.")
	}
	if role != nil && clear {
		return ctx.ReplyEphemeral("❌ No puedes asignar y quitar el rol a la vez.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		updated, err := database.UpdateGuildConfig(ctx.Interaction.GuildID, func(cfg *models.GuildConfig) {
			if clear {
				cfg.Permissions.ModRoleID = ""
			}
			if role != nil {
				cfg.Permissions.ModRoleID = role.ID
			}
			if hierarchyOpt != nil {
				cfg.Permissions.HierarchyCheck = hierarchyOpt.BoolValue()
			}
		})
		if err != nil {
			ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la configuración: %v", err))
			return
		}

		ctx.Reply(fmt.Sprintf("🛡️ Rol de moderador: %s · comprobación de jerarquía %s",
			roleMention(updated.Permissions.ModRoleID), onOff(updated.Permissions.HierarchyCheck)))
	}()

	return nil
}
