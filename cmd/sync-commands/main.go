// Deployment utility that reconciles the slash commands installed in
// Discord with the set this build declares. It connects, performs one
// operation and exits, without starting the protection engine.
//
// Usage:
//
//	sync-commands              Push the declared command set (default)
//	sync-commands -list        Show what Discord has installed
//	sync-commands -clean       Remove every installed command
//	sync-commands -guild <id>  Operate on one guild instead of the global scope
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/PancyGuardGo/internal/commands"
	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const logPrefix = "CommandSync"

func main() {
	list := flag.Bool("list", false, "List installed commands without touching them")
	clean := flag.Bool("clean", false, "Remove every installed command")
	guildID := flag.String("guild", "", "Target a specific guild (empty = global scope)")
	sync := flag.Bool("sync", false, "Push the declared command set (default)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cargando la configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	if err := run(cfg.BotToken, *list, *clean, *sync, *guildID); err != nil {
		logger.Critical(err.Error(), logPrefix)
		os.Exit(1)
	}
	logger.Success("Operación completada.", logPrefix)
}

// run connects to Discord and performs the requested operation. Failures
// propagate to the exit code: deploy scripts depend on it.
func run(token string, list, clean, sync bool, guildID string) error {
	client, err := discord.NewClient(token)
	if err != nil {
		return fmt.Errorf("creando el cliente de Discord: %w", err)
	}

	if err := client.Session.Open(); err != nil {
		return fmt.Errorf("conectando con Discord: %w", err)
	}
	defer client.Session.Close()
	logger.Success("Conectado como "+client.Session.State.User.Username, logPrefix)

	switch {
	case list:
		return listInstalled(client, guildID)
	case clean:
		return removeInstalled(client, guildID)
	case sync:
		return syncDeclared(client, guildID)
	default:
		return syncDeclared(client, guildID)
	}
}

// listInstalled prints the commands Discord reports for the chosen scope.
func listInstalled(client *discord.ExtendedClient, guildID string) error {
	var (
		cmds  []*discordgo.ApplicationCommand
		err   error
		scope = "globales"
	)
	if guildID != "" {
		scope = "del servidor " + guildID
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("obteniendo comandos %s: %w", scope, err)
	}

	if len(cmds) == 0 {
		logger.Info("No hay comandos "+scope+" instalados.", logPrefix)
		return nil
	}

	logger.Info(fmt.Sprintf("📋 Comandos %s instalados: %d", scope, len(cmds)), logPrefix)
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), logPrefix)
	}
	return nil
}

// removeInstalled wipes the chosen scope. It lists first so the log shows
// how many commands actually went away.
func removeInstalled(client *discord.ExtendedClient, guildID string) error {
	if guildID != "" {
		cmds, err := client.CommandHandler.ListGuildCommands(guildID)
		if err != nil {
			return fmt.Errorf("obteniendo comandos del servidor %s: %w", guildID, err)
		}
		if err := client.CommandHandler.UnregisterGuildCommands(guildID); err != nil {
			return fmt.Errorf("eliminando comandos del servidor %s: %w", guildID, err)
		}
		logger.Success(fmt.Sprintf("🧹 %d comandos eliminados del servidor %s.", len(cmds), guildID), logPrefix)
		return nil
	}

	cmds, err := client.CommandHandler.ListGlobalCommands()
	if err != nil {
		return fmt.Errorf("obteniendo comandos globales: %w", err)
	}
	if err := client.CommandHandler.UnregisterCommands(); err != nil {
		return fmt.Errorf("eliminando comandos globales: %w", err)
	}
	logger.Success(fmt.Sprintf("🧹 %d comandos globales eliminados.", len(cmds)), logPrefix)
	return nil
}

// syncDeclared builds the declaration set of this binary and pushes it.
// With -guild the dev declarations go to that guild, which is how a test
// server gets its own copy of the restricted commands.
func syncDeclared(client *discord.ExtendedClient, guildID string) error {
	commands.RegisterAll(client)
	if err := client.CommandHandler.LoadCommands(); err != nil {
		return fmt.Errorf("validando los comandos declarados: %w", err)
	}

	if guildID != "" {
		logger.Info("🔄 Sincronizando comandos de desarrollo en el servidor "+guildID+"...", logPrefix)
		return client.CommandHandler.SyncGuildCommands(guildID)
	}

	logger.Info("🔄 Sincronizando el conjunto completo de comandos...", logPrefix)
	return client.CommandHandler.SyncCommands()
}
