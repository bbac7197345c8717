// Package config - /config palabras command
package config

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const maxBlockedWords = 200

// createBadwordsCommand creates the /config palabras subcommand
func createBadwordsCommand() *discord.Command {
	return discord.NewCommand(
		"palabras",
		"Gestiona la lista de palabras bloqueadas",
		"config",
		badwordsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "operacion",
			Description: "Qué hacer con la lista",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Añadir", Value: "add"},
				{Name: "Quitar", Value: "remove"},
				{Name: "Listar", Value: "list"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "palabra",
			Description: "Palabra a añadir o quitar",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionManageServer).
		RequiresDatabase()
}

func badwordsHandler(ctx *discord.CommandContext) error {
	op := ctx.GetStringOption("operacion")
	word := strings.ToLower(strings.TrimSpace(ctx.GetStringOption("palabra")))

	if (op == "add" || op == "remove") && word == "" {
		return ctx.ReplyEphemeral("❌ Debes indicar la palabra.")
	}

	go func() {
		defer errors.RecoverMiddleware()()

		guildID := ctx.Interaction.GuildID

		switch op {
		case "list":
			cfg := database.GetGuildConfig(guildID)
			if len(cfg.Words.BlockedWords) == 0 {
				ctx.ReplyEphemeral("📝 La lista de palabras bloqueadas está vacía.")
				return
			}
			ctx.ReplyEphemeralEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🤬 Palabras bloqueadas (%d)", len(cfg.Words.BlockedWords)),
				Description: "||" + strings.Join(cfg.Words.BlockedWords, ", ") + "||",
				Color:       discord.ColorInfo,
			})

		case "add":
			var added bool
			_, err := database.UpdateGuildConfig(guildID, func(cfg *models.GuildConfig) {
				for _, w := range cfg.Words.BlockedWords {
					if w == word {
						return
					}
				}
				if len(cfg.Words.BlockedWords) >= maxBlockedWords {
					return
				}
				cfg.Words.BlockedWords = append(cfg.Words.BlockedWords, word)
				added = true
			})
			if err != nil {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la lista: %v", err))
				return
			}
			if !added {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No se añadió: la palabra ya estaba en la lista o se alcanzó el límite de %d.", maxBlockedWords))
				return
			}
			ctx.ReplyEphemeral(fmt.Sprintf("✅ Palabra añadida a la lista (||%s||).", word))

		case "remove":
			var removed bool
			_, err := database.UpdateGuildConfig(guildID, func(cfg *models.GuildConfig) {
				// Copia nueva: el slice original comparte memoria con la caché
				kept := make([]string, 0, len(cfg.Words.BlockedWords))
				for _, w := range cfg.Words.BlockedWords {
					if w == word {
						removed = true
						continue
					}
					kept = append(kept, w)
				}
				cfg.Words.BlockedWords = kept
			})
			if err != nil {
				ctx.ReplyEphemeral(fmt.Sprintf("❌ No se pudo guardar la lista: %v", err))
				return
			}
			if !removed {
				ctx.ReplyEphemeral("❌ Esa palabra no estaba en la lista.")
				return
			}
			ctx.ReplyEphemeral(fmt.Sprintf("✅ Palabra quitada de la lista (||%s||).", word))
		}
	}()

	return nil
}
