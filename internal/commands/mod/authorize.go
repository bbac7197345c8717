// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/metrics"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// gateAction evalúa la puerta de autoridad para una acción manual de
// moderación. Cuando el resultado es un rechazo responde al moderador con el
// motivo y devuelve ok=false; el handler debe cortar sin efectos.
//
// Debe llamarse antes de la primera respuesta a la interacción: el rechazo se
// envía como respuesta efímera inicial.
func gateAction(ctx *discord.CommandContext, action, targetID string) (cfg *models.GuildConfig, ok bool) {
	guildID := ctx.Interaction.GuildID
	cfg = database.GetGuildConfig(guildID)
	platform := ctx.Client.Platform()
	actorID := ctx.User().ID

	ownerID, err := platform.GuildOwnerID(guildID)
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudo resolver el dueño de %s: %v", guildID, err), "CMD-Mod")
	}
	actorRank, _ := platform.MemberRank(guildID, actorID)
	// Acciones sin objetivo individual (purga sin filtro) no resuelven rango
	targetRank := -1
	if targetID != "" {
		targetRank, _ = platform.MemberRank(guildID, targetID)
	}
	systemRank, _ := platform.MemberRank(guildID, platform.SystemUserID())
	caps, err := platform.MemberCapabilities(guildID, actorID)
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudieron resolver los permisos de %s: %v", actorID, err), "CMD-Mod")
	}

	res := moderation.Authorize(moderation.AuthRequest{
		ActorID:        actorID,
		TargetID:       targetID,
		OwnerID:        ownerID,
		ActorRank:      actorRank,
		TargetRank:     targetRank,
		SystemRank:     systemRank,
		SuperAdmin:     config.Get().IsSuperAdmin(actorID),
		HierarchyCheck: cfg.Permissions.HierarchyCheck,
		Capabilities:   caps,
		Required:       moderation.RequiredFor(action),
	})
	if !res.Allowed {
		metrics.GateDenials.WithLabelValues(string(res.Reason)).Inc()
		ctx.ReplyEphemeral("❌ " + res.Message)
		return nil, false
	}
	return cfg, true
}

// canViewRecords decide si el ejecutor puede consultar el historial de otro
// usuario. Consultar el propio historial siempre está permitido; el de otros
// exige la capacidad de la acción o ser super admin. Las consultas no pasan
// por la puerta completa: leer no exige jerarquía.
func canViewRecords(ctx *discord.CommandContext, action, targetID string) bool {
	actorID := ctx.User().ID
	if actorID == targetID {
		return true
	}
	if config.Get().IsSuperAdmin(actorID) {
		return true
	}

	caps, err := ctx.Client.Platform().MemberCapabilities(ctx.Interaction.GuildID, actorID)
	if err != nil {
		logger.Debug(fmt.Sprintf("No se pudieron resolver los permisos de %s: %v", actorID, err), "CMD-Mod")
		return false
	}
	for _, c := range moderation.RequiredFor(action) {
		if !caps[c] {
			return false
		}
	}
	return true
}
