// Package events provides event handlers for the bot
package events

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.Register("ready", onReady)
	client.EventHandler.Register("debug", onDebug)
}

// onReady is called when the bot successfully connects to Discord
func onReady(s *discordgo.Session, r *discordgo.Ready) {
	identity := fmt.Sprintf("%s#%s", r.User.Username, r.User.Discriminator)
	if s.ShardCount > 1 {
		identity = fmt.Sprintf("%s (shard %d/%d)", identity, s.ShardID+1, s.ShardCount)
	}
	logger.Success("✅ Bot conectado: "+identity, "Ready")
	logger.Info(fmt.Sprintf("📊 Protegiendo %d servidores", len(r.Guilds)), "Ready")

	// Estado "Viendo ..." en vez del "Jugando ..." por defecto
	if err := s.UpdateWatchStatus(0, "los servidores | /help"); err != nil {
		logger.Error(fmt.Sprintf("Error estableciendo estado: %v", err), "Ready")
	}
}

// onDebug mirrors discordgo's internal logging into ours; only visible
// with verbose mode on.
func onDebug(s *discordgo.Session, log string) {
	logger.Debug(log, "Gateway")
}
