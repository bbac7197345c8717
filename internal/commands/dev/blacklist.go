package dev

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// CreateBlacklistAddCommand creates the /dev blacklist add command
func CreateBlacklistAddCommand() *discord.Command {
	return discord.NewCommand(
		"add",
		"Veta un usuario o servidor de la plataforma",
		"dev",
		blacklistAddHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "tipo",
			Description: "Ámbito del veto",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Usuario", Value: string(models.BlacklistUser)},
				{Name: "Servidor", Value: string(models.BlacklistGuild)},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario o servidor a vetar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón del veto",
			Required:    false,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duracion",
			Description: "Duración del veto (ej: 7d, 24h). Vacío = permanente",
			Required:    false,
		},
	)
}

// CreateBlacklistRemoveCommand creates the /dev blacklist remove command.
// Only the ID is needed: the stored entry already knows its scope.
func CreateBlacklistRemoveCommand() *discord.Command {
	return discord.NewCommand(
		"remove",
		"Levanta el veto de un usuario o servidor",
		"dev",
		blacklistRemoveHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID del usuario o servidor vetado",
			Required:    true,
		},
	)
}

func blacklistAddHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		userID := commandUserID(ctx)
		if !isDev(userID) {
			sendErrorEmbed(ctx, "Acceso Denegado", "❌ Este comando solo está disponible para desarrolladores.")
			return
		}

		scope := models.BlacklistScope(ctx.GetStringOption("tipo"))
		id := ctx.GetStringOption("id")
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			reason = "Sin razón especificada"
		}

		var expiresAt *time.Time
		if raw := ctx.GetStringOption("duracion"); raw != "" {
			d, err := moderation.ParseDuration(raw)
			if err != nil {
				sendErrorEmbed(ctx, "Duración inválida", "❌ No entiendo la duración `"+raw+"`. Usa formatos como `30m`, `24h` o `7d`.")
				return
			}
			t := time.Now().Add(d)
			expiresAt = &t
		}

		entry, err := database.AddToBlacklist(id, scope, reason, userID, expiresAt)
		if err != nil {
			if err == database.ErrBlacklistEntryExists {
				sendErrorEmbed(ctx, "Ya vetado", fmt.Sprintf("❌ El %s `%s` ya está vetado.", scopeLabel(scope), id))
				return
			}
			logger.Error(fmt.Sprintf("Error vetando %s %s: %v", scopeLabel(scope), id, err), "DevBlacklist")
			sendErrorEmbed(ctx, "Error", "❌ No se pudo añadir el veto.")
			return
		}

		vigencia := "Permanente"
		if entry.ExpiresAt != nil {
			vigencia = fmt.Sprintf("Hasta <t:%d:R>", entry.ExpiresAt.Unix())
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🚫 Veto aplicado",
			Description: fmt.Sprintf("El %s quedó fuera de la plataforma.", scopeLabel(scope)),
			Color:       discord.ColorError,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Ámbito", Value: scopeEmoji(scope) + " " + scopeLabel(scope), Inline: true},
				{Name: "ID", Value: "`" + id + "`", Inline: true},
				{Name: "Vigencia", Value: vigencia, Inline: true},
				{Name: "Razón", Value: entry.Reason},
			},
			Timestamp: time.Now().Format(time.RFC3339),
			Footer:    &discordgo.MessageEmbedFooter{Text: "Vetado por " + getUserName(ctx)},
		}
		if err := ctx.ReplyEphemeralEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "DevBlacklist")
			return
		}

		logger.Info(fmt.Sprintf("%s vetó al %s %s (%s)", getUserName(ctx), scopeLabel(scope), id, vigencia), "DevBlacklist")
	}()

	return nil
}

func blacklistRemoveHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDev(commandUserID(ctx)) {
			sendErrorEmbed(ctx, "Acceso Denegado", "❌ Este comando solo está disponible para desarrolladores.")
			return
		}

		id := ctx.GetStringOption("id")

		entry, err := database.GetBlacklistEntry(id)
		if err != nil {
			if err == database.ErrBlacklistEntryNotFound {
				sendErrorEmbed(ctx, "Sin veto", fmt.Sprintf("❌ No hay ningún veto para `%s`.", id))
				return
			}
			logger.Error(fmt.Sprintf("Error consultando el veto de %s: %v", id, err), "DevBlacklist")
			sendErrorEmbed(ctx, "Error", "❌ No se pudo consultar la blacklist.")
			return
		}

		if err := database.RemoveFromBlacklist(id); err != nil {
			logger.Error(fmt.Sprintf("Error levantando el veto de %s: %v", id, err), "DevBlacklist")
			sendErrorEmbed(ctx, "Error", "❌ No se pudo levantar el veto.")
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "✅ Veto levantado",
			Description: fmt.Sprintf("El %s vuelve a tener acceso a la plataforma.", scopeLabel(entry.Scope)),
			Color:       discord.ColorSuccess,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Ámbito", Value: scopeEmoji(entry.Scope) + " " + scopeLabel(entry.Scope), Inline: true},
				{Name: "ID", Value: "`" + id + "`", Inline: true},
				{Name: "Vetado desde", Value: fmt.Sprintf("<t:%d:R>", entry.CreatedAt.Unix()), Inline: true},
				{Name: "Razón original", Value: entry.Reason},
			},
			Timestamp: time.Now().Format(time.RFC3339),
			Footer:    &discordgo.MessageEmbedFooter{Text: "Levantado por " + getUserName(ctx)},
		}
		if err := ctx.ReplyEphemeralEmbed(embed); err != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "DevBlacklist")
			return
		}

		logger.Info(fmt.Sprintf("%s levantó el veto del %s %s", getUserName(ctx), scopeLabel(entry.Scope), id), "DevBlacklist")
	}()

	return nil
}

// scopeLabel devuelve el nombre legible del ámbito
func scopeLabel(scope models.BlacklistScope) string {
	if scope == models.BlacklistUser {
		return "usuario"
	}
	return "servidor"
}

// scopeEmoji devuelve el emoji del ámbito
func scopeEmoji(scope models.BlacklistScope) string {
	if scope == models.BlacklistUser {
		return "👤"
	}
	return "🏰"
}
