// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient) {
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		createBanCommand(),
		createTempBanCommand(),
		createUnbanCommand(),
		createKickCommand(),
		createMuteCommand(),
		createUnmuteCommand(),
		createWarnCommand(),
		createWarningsCommand(),
		createRemoveWarnCommand(),
		createInfractionsCommand(),
		createPurgeCommand(),
		createSlowmodeCommand(),
		createLockCommand(),
		createUnlockCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)

	// Botones de paginación del historial de infracciones
	client.RegisterComponentHandler("infractions", handleInfractionsComponent)
}
