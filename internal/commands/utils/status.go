package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado de los componentes del bot",
		"utils",
		statusHandler,
	)
}

// statusHandler summarizes the health of every external dependency.
func statusHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		embed := &discordgo.MessageEmbed{
			Title: "📡 Estado de PancyGuard",
			Color: discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Gateway", Value: fmt.Sprintf("🟢 %dms", ctx.Client.Session.HeartbeatLatency().Milliseconds()), Inline: true},
				{Name: "Base de datos", Value: databaseStatus(), Inline: true},
				{Name: "Broker MQTT", Value: brokerStatus(), Inline: true},
				{Name: "Servidores", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
				{Name: "Uptime", Value: formatDuration(time.Since(ctx.Client.StartTime)), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.ReplyEmbed(embed)
	}()
	return nil
}

// databaseStatus renders the connection state, surfacing the offline write
// queue when Mongo is down.
func databaseStatus() string {
	db := database.Get()
	if db == nil {
		return "🔴 | Sin inicializar"
	}
	status, _ := db.GetStatus()
	if queued := db.QueuedWrites(); queued > 0 {
		return fmt.Sprintf("%s (%d escrituras en cola)", status, queued)
	}
	return status
}

// brokerStatus measures the round trip against the bot's own status
// endpoint: the broker routes the request back to this same process.
func brokerStatus() string {
	mc := mqtt.Get()
	if mc == nil || !mc.IsConnected() {
		return "🔴 Desconectado"
	}

	start := time.Now()
	if _, err := mc.Request("guard/status", nil, 1500*time.Millisecond); err != nil {
		return "🟢 Conectado"
	}
	return fmt.Sprintf("🟢 Conectado (%dms ida y vuelta)", time.Since(start).Milliseconds())
}
