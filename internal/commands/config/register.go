// Package config provides the /config command group that edits a guild's
// moderation policy through the guild config cache
package config

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterConfigCommands registers all policy commands as /config subcommands
func RegisterConfigCommands(client *discord.ExtendedClient) {
	configGroup := client.CommandHandler.BuildCommandGroup(
		"config",
		"Configuración de la protección del servidor",
		createViewCommand(),
		createAutomodCommand(),
		createFilterCommand(),
		createBadwordsCommand(),
		createAntiraidCommand(),
		createAntinukeCommand(),
		createLogsCommand(),
		createModroleCommand(),
		createNotifyCommand(),
	)

	client.CommandHandler.AddGlobalCommand(configGroup)
}
