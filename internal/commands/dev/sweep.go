package dev

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/scheduler"
	"github.com/bwmarrin/discordgo"
)

// CreateSweepCommand creates the /dev sweep command
func CreateSweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Fuerza un barrido del reconciliador sin esperar al siguiente tick",
		"dev",
		sweepHandler,
	)
}

func sweepHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDev(commandUserID(ctx)) {
			sendErrorEmbed(ctx, "Acceso Denegado", "❌ Este comando solo está disponible para desarrolladores.")
			return
		}

		rc := scheduler.Get()
		if rc == nil {
			sendErrorEmbed(ctx, "Error", "❌ El reconciliador no está inicializado.")
			return
		}

		ctx.Defer()

		start := time.Now()
		reverted, failed := rc.RunExpirySweep(start)
		pruned := automod.Get().Store().Sweep(start, time.Hour)
		elapsed := time.Since(start)

		embed := &discordgo.MessageEmbed{
			Title:       "🧹 Barrido forzado",
			Description: "Resultado del barrido manual del reconciliador.",
			Color:       discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Sanciones revertidas", Value: fmt.Sprintf("%d", reverted), Inline: true},
				{Name: "Fallos", Value: fmt.Sprintf("%d", failed), Inline: true},
				{Name: "Ventanas podadas", Value: fmt.Sprintf("%d", pruned), Inline: true},
				{Name: "Duración", Value: elapsed.Round(time.Millisecond).String(), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embed)

		logger.Info(fmt.Sprintf("Barrido manual por %s: %d revertidas, %d fallos, %d ventanas podadas", getUserName(ctx), reverted, failed, pruned), "DevSweep")
	}()
	return nil
}
