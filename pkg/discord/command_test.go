package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestEditReplyEmbedExists verifies that the EditReplyEmbed method exists
// and has the correct signature (compile-time check). The moderation
// commands defer their replies and edit them once the dispatcher returns.
func TestEditReplyEmbedExists(t *testing.T) {
	type editReplyEmbedFunc func(*CommandContext, *discordgo.MessageEmbed) error

	var _ editReplyEmbedFunc = (*CommandContext).EditReplyEmbed

	t.Log("✅ EditReplyEmbed method exists with correct signature: func(*CommandContext, *discordgo.MessageEmbed) error")
}

// TestCommandBuilder verifies that a moderation-style command can be built
// with the chained builder methods
func TestCommandBuilder(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: "Usuario a sancionar",
		Required:    true,
	}

	cmd := NewCommand("ban", "Banea a un usuario del servidor", "mod", handler).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers).
		RequiresDatabase()

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}
	if cmd.Name != "ban" {
		t.Errorf("Name = %v, want %v", cmd.Name, "ban")
	}
	if cmd.Category != "mod" {
		t.Errorf("Category = %v, want %v", cmd.Category, "mod")
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
	if len(cmd.Options) != 1 || cmd.Options[0].Name != "usuario" {
		t.Errorf("Options = %v, want one option named 'usuario'", cmd.Options)
	}
	if cmd.UserPermissions != discordgo.PermissionBanMembers {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionBanMembers)
	}
	if cmd.BotPermissions != discordgo.PermissionBanMembers {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionBanMembers)
	}
	if !cmd.RequiresDB {
		t.Error("RequiresDB should be true after calling RequiresDatabase()")
	}
}

// TestCommandAsDev verifies the AsDev builder method
func TestCommandAsDev(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("sweep", "Fuerza un barrido", "dev", handler).AsDev()

	if !cmd.IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "razon",
		Description: "Razón de la sanción",
		Required:    false,
	}

	cmd := NewCommand("warn", "Advierte a un usuario", "mod", handler).
		WithOptions(option)

	appCmd := cmd.ToApplicationCommand()

	if appCmd == nil {
		t.Fatal("ToApplicationCommand returned nil")
	}
	if appCmd.Name != "warn" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "warn")
	}
	if appCmd.Description != "Advierte a un usuario" {
		t.Errorf("ApplicationCommand Description = %v, want %v", appCmd.Description, "Advierte a un usuario")
	}
	if len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand Options length = %v, want %v", len(appCmd.Options), 1)
	}
}

// modInteraction builds the interaction a /mod subcommand produces, with
// the options nested one level under the subcommand
func modInteraction(sub string, opts []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "mod",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    sub,
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: opts,
					},
				},
			},
		},
	}
}

// TestGetOptionNested verifies that option lookup descends into subcommand
// options, which is how every /mod, /config and /appeal option arrives
func TestGetOptionNested(t *testing.T) {
	ctx := &CommandContext{
		Interaction: modInteraction("mute", []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "razon", Type: discordgo.ApplicationCommandOptionString, Value: "flood en #general"},
			{Name: "dias", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
			{Name: "silencioso", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
		}),
	}

	if got := ctx.GetStringOption("razon"); got != "flood en #general" {
		t.Errorf("GetStringOption(razon) = %q, want %q", got, "flood en #general")
	}
	if got := ctx.GetIntOption("dias"); got != 3 {
		t.Errorf("GetIntOption(dias) = %d, want 3", got)
	}
	if got := ctx.GetBoolOption("silencioso"); !got {
		t.Error("GetBoolOption(silencioso) = false, want true")
	}
}

// TestGetOptionMissing verifies the zero-value fallbacks for absent options
func TestGetOptionMissing(t *testing.T) {
	ctx := &CommandContext{
		Interaction: modInteraction("kick", nil),
	}

	if got := ctx.GetStringOption("razon"); got != "" {
		t.Errorf("GetStringOption on missing option = %q, want empty", got)
	}
	if got := ctx.GetIntOption("dias"); got != 0 {
		t.Errorf("GetIntOption on missing option = %d, want 0", got)
	}
	if got := ctx.GetBoolOption("silencioso"); got {
		t.Error("GetBoolOption on missing option = true, want false")
	}
	if opt := ctx.GetOption("nada"); opt != nil {
		t.Errorf("GetOption on missing option = %v, want nil", opt)
	}
}

// guildInteraction builds a minimal guild interaction with the member's
// resolved permissions, the way Discord delivers them
func guildInteraction(perms int64) *CommandContext {
	return &CommandContext{
		Interaction: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				GuildID: "guild-1",
				Member: &discordgo.Member{
					User:        &discordgo.User{ID: "user-1"},
					Permissions: perms,
				},
			},
		},
	}
}

// TestGateUserPermissions verifies that the dispatcher-side gate honors the
// permissions a command declares with WithUserPermissions
func TestGateUserPermissions(t *testing.T) {
	cmd := NewCommand("ban", "Banea a un usuario", "mod", nil).
		WithUserPermissions(discordgo.PermissionBanMembers)

	if denial := cmd.Gate(guildInteraction(discordgo.PermissionKickMembers)); denial == "" {
		t.Error("sin PermissionBanMembers el gate debería denegar")
	}
	if denial := cmd.Gate(guildInteraction(discordgo.PermissionBanMembers)); denial != "" {
		t.Errorf("con el permiso concedido el gate denegó: %q", denial)
	}
	// Administrator passes regardless of the individual bits
	if denial := cmd.Gate(guildInteraction(discordgo.PermissionAdministrator)); denial != "" {
		t.Errorf("un administrador debería pasar siempre: %q", denial)
	}
}

// TestGateRequiresDatabase verifies that RequiresDatabase commands are
// refused while no database connection exists
func TestGateRequiresDatabase(t *testing.T) {
	cmd := NewCommand("warn", "Advierte a un usuario", "mod", nil).
		RequiresDatabase()

	if denial := cmd.Gate(guildInteraction(0)); denial == "" {
		t.Error("sin base de datos el gate debería denegar")
	}
}
