// Package events provides event handlers for role structure events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// RegisterRoleEvents registers all role-related event handlers
func RegisterRoleEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("guildRoleCreate", onGuildRoleCreate)
	client.EventHandler.Register("guildRoleDelete", onGuildRoleDelete)
}

// onGuildRoleCreate alimenta el detector de nukes: crear roles en masa
// cuenta igual que borrarlos
func onGuildRoleCreate(s *discordgo.Session, r *discordgo.GuildRoleCreate) {
	if r.Role == nil {
		return
	}
	logger.Debug(fmt.Sprintf("🎭 Rol creado: %s en %s", r.Role.Name, r.GuildID), "Role")
	checkRoleMutation(r.GuildID)
}

// onGuildRoleDelete alimenta el detector de nukes con cada rol borrado
func onGuildRoleDelete(s *discordgo.Session, r *discordgo.GuildRoleDelete) {
	logger.Debug(fmt.Sprintf("🗑️ Rol borrado: %s en %s", r.RoleID, r.GuildID), "Role")
	checkRoleMutation(r.GuildID)
}

// checkRoleMutation registra una mutación de rol en la ventana del servidor
// y lanza la respuesta anti nuke si se supera el umbral
func checkRoleMutation(guildID string) {
	engine := automod.Get()
	if engine == nil {
		return
	}

	cfg := database.GetGuildConfig(guildID)
	verdict := engine.CheckRoleMutation(guildID, time.Now(), cfg)
	if !verdict.Violation {
		return
	}

	mqtt.PublishVerdict(mqtt.VerdictEvent{
		GuildID:  guildID,
		Category: string(verdict.Category),
		Reason:   verdict.Reason,
		At:       time.Now(),
	})

	d := moderation.GetDispatcher()
	if d == nil {
		return
	}
	if _, err := d.HandleNuke(guildID, verdict, cfg); err != nil {
		logger.Error(fmt.Sprintf("Fallo en la respuesta anti nuke de %s: %v", guildID, err), "Role")
	}
}
