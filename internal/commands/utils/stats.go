package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the /utils stats subcommand
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Muestra estadísticas del bot",
		"utils",
		statsHandler,
	)
}

// statsHandler handles the /utils stats command
func statsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		memberCount := 0
		for _, guild := range ctx.Session.State.Guilds {
			memberCount += guild.MemberCount
		}

		// Los contadores de Mongo pueden fallar sin conexión; un cero es
		// preferible a no responder.
		verdicts24h, _ := database.CountAutomodEventsSince(time.Now().Add(-24 * time.Hour))
		activeSanctions, _ := database.CountActiveSanctions()

		windowCount := 0
		if eng := automod.Get(); eng != nil {
			windowCount = eng.Store().Keys()
		}

		field := func(name, value string) *discordgo.MessageEmbedField {
			return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
		}

		embed := &discordgo.MessageEmbed{
			Title: "📊 Estadísticas de PancyGuard",
			Color: discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				field("🤖 Versión", config.Version),
				field("🐹 Go", strings.TrimPrefix(runtime.Version(), "go")),
				field("📚 DiscordGo", discordgo.VERSION),
				field("🖥 RAM", fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024)),
				field("⚙️ Concurrencia", fmt.Sprintf("%d goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU())),
				field("⏱ Uptime", formatDuration(time.Since(ctx.Client.StartTime))),
				field("🏠 Servidores", fmt.Sprintf("%d", ctx.Client.GuildCount())),
				field("👥 Miembros", fmt.Sprintf("%d", memberCount)),
				field("🛡️ Automod (24h)", fmt.Sprintf("%d veredictos", verdicts24h)),
				field("⏳ Sanciones activas", fmt.Sprintf("%d", activeSanctions)),
				field("🗂 Ventanas en memoria", fmt.Sprintf("%d", windowCount)),
				field("💾 Docs en caché", fmt.Sprintf("%d", database.SharedCacheSize())),
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text:    "💫 - PancyGuard",
				IconURL: ctx.Client.Session.State.User.AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}

		ctx.ReplyEmbed(embed)
	}()
	return nil
}

// formatDuration renders the two most significant units of d, so an
// uptime reads like "3d 7h" instead of a wall of zeros.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "menos de un segundo"
	}

	units := []struct {
		value  int
		suffix string
	}{
		{int(d.Hours()) / 24, "d"},
		{int(d.Hours()) % 24, "h"},
		{int(d.Minutes()) % 60, "m"},
		{int(d.Seconds()) % 60, "s"},
	}

	var parts []string
	for _, u := range units {
		if u.value > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", u.value, u.suffix))
		}
		if len(parts) == 2 {
			break
		}
	}

	return strings.Join(parts, " ")
}
