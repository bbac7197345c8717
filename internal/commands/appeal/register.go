// Package appeal provides the /appeal command group: sanctioned users submit
// appeals and the staff reads and closes them
package appeal

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// RegisterAppealCommands registers all appeal commands as /appeal subcommands
func RegisterAppealCommands(client *discord.ExtendedClient) {
	appealGroup := client.CommandHandler.BuildCommandGroup(
		"appeal",
		"Apelaciones de sanciones",
		createSubmitCommand(),
		createListCommand(),
		createCloseCommand(),
	)

	client.CommandHandler.AddGlobalCommand(appealGroup)
}
