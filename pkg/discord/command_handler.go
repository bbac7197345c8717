package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler keeps the slash commands the bot declares and pushes them
// to Discord. Declarations live in two scopes: global commands visible in
// every guild, and dev commands that only get installed in the development
// guild. Handlers are routed separately through client.Commands using
// dotted names ("group.sub", "group.nested.sub").
type CommandHandler struct {
	client *ExtendedClient
	global []*discordgo.ApplicationCommand
	dev    []*discordgo.ApplicationCommand
}

// NewCommandHandler creates an empty declaration set bound to the client.
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client: client,
		global: make([]*discordgo.ApplicationCommand, 0),
		dev:    make([]*discordgo.ApplicationCommand, 0),
	}
}

// appID requires an opened session: discordgo fills State.User during Open.
func (ch *CommandHandler) appID() string {
	return ch.client.Session.State.User.ID
}

// LoadCommands validates the declared set before the session opens. The
// actual push to Discord happens later, once the gateway reports ready.
func (ch *CommandHandler) LoadCommands() error {
	seen := make(map[string]string, len(ch.global)+len(ch.dev))
	check := func(scope string, cmds []*discordgo.ApplicationCommand) error {
		for _, cmd := range cmds {
			if prev, dup := seen[cmd.Name]; dup {
				return fmt.Errorf("comando '%s' declarado dos veces (%s y %s)", cmd.Name, prev, scope)
			}
			seen[cmd.Name] = scope
		}
		return nil
	}

	if err := check("global", ch.global); err != nil {
		return err
	}
	if err := check("dev", ch.dev); err != nil {
		return err
	}

	logger.System(fmt.Sprintf("Comandos declarados: %d globales, %d de desarrollo (%d rutas)",
		len(ch.global), len(ch.dev), ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// RegisterCommand declares a single top-level command and wires its handler.
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	if cmd.IsDev {
		ch.dev = append(ch.dev, cmd.ToApplicationCommand())
	} else {
		ch.global = append(ch.global, cmd.ToApplicationCommand())
	}
}

// subcommandOptions wires each handler under its dotted route and returns
// the option descriptors Discord expects for the enclosing command.
func (ch *CommandHandler) subcommandOptions(prefix string, subcommands []*Command) []*discordgo.ApplicationCommandOption {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	for _, cmd := range subcommands {
		ch.client.Commands.Set(prefix+"."+cmd.Name, cmd)
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}
	return options
}

// BuildCommandGroup groups subcommands under one top-level command. Each
// handler becomes routable as "<name>.<subcommand>". The returned command
// still has to be declared with AddGlobalCommand or AddDevCommand.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     ch.subcommandOptions(name, subcommands),
	}
}

// BuildSubcommandGroup nests subcommands one level deeper, routable as
// "<groupName>.<name>.<subcommand>".
func (ch *CommandHandler) BuildSubcommandGroup(groupName, name, description string, subcommands ...*Command) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Name:        name,
		Description: description,
		Options:     ch.subcommandOptions(groupName+"."+name, subcommands),
	}
}

// AddGlobalCommand declares a command for every guild.
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.global = append(ch.global, cmd)
}

// AddDevCommand declares a command restricted to the development guild.
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.dev = append(ch.dev, cmd)
}

// overwrite replaces everything installed in one scope ("" = global) with
// the given declarations. Discord drops whatever is missing from the list,
// so stale commands disappear without individual deletes.
func (ch *CommandHandler) overwrite(guildID string, cmds []*discordgo.ApplicationCommand) error {
	_, err := ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, cmds)
	return err
}

// SyncCommands pushes the declared set to Discord: global commands first,
// then the dev set into the configured development guild.
func (ch *CommandHandler) SyncCommands() error {
	if err := ch.overwrite("", ch.global); err != nil {
		return fmt.Errorf("sincronizando comandos globales: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos globales sincronizados.", len(ch.global)), "CommandHandler")

	cfg := config.Get()
	if cfg.DevGuildID == "" {
		if len(ch.dev) > 0 {
			logger.Warn("Hay comandos de desarrollo declarados pero DEV_GUILD_ID está vacío, no se instalarán.", "CommandHandler")
		}
		return nil
	}
	if err := ch.SyncGuildCommands(cfg.DevGuildID); err != nil {
		return fmt.Errorf("sincronizando comandos de desarrollo: %w", err)
	}
	return nil
}

// SyncGuildCommands installs the dev declarations in a specific guild.
func (ch *CommandHandler) SyncGuildCommands(guildID string) error {
	if err := ch.overwrite(guildID, ch.dev); err != nil {
		return err
	}
	logger.Success(fmt.Sprintf("✅ %d comandos de desarrollo sincronizados en el servidor %s.", len(ch.dev), guildID), "CommandHandler")
	return nil
}

// RegisterCommands is the startup path. It runs from the ready handler and
// must not take the bot down when Discord rejects the push, so it only logs.
func (ch *CommandHandler) RegisterCommands() {
	logger.Info("🔄 Registrando comandos...", "CommandHandler")
	if err := ch.SyncCommands(); err != nil {
		logger.Error("Error registrando comandos: "+err.Error(), "CommandHandler")
	}
}

// ListGlobalCommands returns what Discord currently has installed globally.
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), "")
}

// ListGuildCommands returns what Discord currently has installed in a guild.
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), guildID)
}

// UnregisterCommands removes every globally installed command. Overwriting
// with an empty set is a single call, unlike deleting one by one.
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.overwrite("", []*discordgo.ApplicationCommand{})
}

// UnregisterGuildCommands removes every command installed in a guild.
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.overwrite(guildID, []*discordgo.ApplicationCommand{})
}
