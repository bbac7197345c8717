// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (mod, config, appeal, utils, dev)
package commands

import (
	"github.com/PancyStudios/PancyGuardGo/internal/commands/appeal"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/config"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/dev"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/mod"
	"github.com/PancyStudios/PancyGuardGo/internal/commands/utils"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	// Moderation commands (/mod ban, /mod kick, /mod warn, /mod mute, ...)
	mod.RegisterModCommands(client)

	// Guild policy commands (/config ver, /config automod, /config filtro, ...)
	config.RegisterConfigCommands(client)

	// Sanction appeal commands (/appeal enviar, /appeal lista, /appeal cerrar)
	appeal.RegisterAppealCommands(client)

	// Utility commands (/utils ping, /utils status, /utils help, /utils stats)
	utils.RegisterUtilsCommands(client)

	// Developer commands, registered only in the dev guild
	dev.Register(client)
}
