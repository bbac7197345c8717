package utils

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterUtilsCommands registers the utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient) {
	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createPingCommand(),
		createStatusCommand(),
		createHelpCommand(),
		createStatsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}
