// Package events wires the gateway event handlers: the detection pipeline
// (messages, joins, deletions) plus the operational ones (ready, guilds,
// shard lifecycle).
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	for _, register := range []func(*discord.ExtendedClient){
		RegisterReadyEvent,
		RegisterGuildEvents,
		RegisterMemberEvents,
		RegisterMessageEvents,
		RegisterChannelEvents,
		RegisterRoleEvents,
		RegisterShardEvents,
	} {
		register(client)
	}

	logger.Success(fmt.Sprintf("✅ %d eventos de gateway registrados", client.EventHandler.Count()), "Events")
}
