package dev

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
)

// Register declares the /dev command group. The group only gets installed
// in the development guild; each handler additionally verifies the caller
// against the super admin list.
func Register(client *discord.ExtendedClient) {
	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Comandos de desarrollo",
		CreateEvalCommand(),
		CreateSweepCommand(),
	)

	devGroup.Options = append(devGroup.Options, client.CommandHandler.BuildSubcommandGroup(
		"dev",
		"blacklist",
		"Gestión de vetos de la plataforma",
		CreateBlacklistAddCommand(),
		CreateBlacklistRemoveCommand(),
	))

	client.CommandHandler.AddDevCommand(devGroup)
}
