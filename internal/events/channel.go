// Package events provides event handlers for channel structure events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// RegisterChannelEvents registers all channel-related event handlers
func RegisterChannelEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("channelCreate", onChannelCreate)
	client.EventHandler.Register("channelDelete", onChannelDelete)
}

// onChannelCreate alimenta el detector de nukes: una ráfaga de canales
// creados es tan hostil como una de canales borrados
func onChannelCreate(s *discordgo.Session, c *discordgo.ChannelCreate) {
	if c.GuildID == "" {
		return
	}
	logger.Debug(fmt.Sprintf("📁 Canal creado: %s en %s", c.Name, c.GuildID), "Channel")
	checkChannelMutation(c.GuildID)
}

// onChannelDelete alimenta el detector de nukes con cada canal borrado
func onChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	if c.GuildID == "" {
		return
	}
	logger.Debug(fmt.Sprintf("🗑️ Canal borrado: %s en %s", c.Name, c.GuildID), "Channel")
	checkChannelMutation(c.GuildID)
}

// checkChannelMutation registra una mutación de canal en la ventana del
// servidor y lanza la respuesta anti nuke si se supera el umbral
func checkChannelMutation(guildID string) {
	engine := automod.Get()
	if engine == nil {
		return
	}

	cfg := database.GetGuildConfig(guildID)
	verdict := engine.CheckChannelMutation(guildID, time.Now(), cfg)
	if !verdict.Violation {
		return
	}

	mqtt.PublishVerdict(mqtt.VerdictEvent{
		GuildID:  guildID,
		Category: string(verdict.Category),
		Reason:   verdict.Reason,
		At:       time.Now(),
	})

	d := moderation.GetDispatcher()
	if d == nil {
		return
	}
	if _, err := d.HandleNuke(guildID, verdict, cfg); err != nil {
		logger.Error(fmt.Sprintf("Fallo en la respuesta anti nuke de %s: %v", guildID, err), "Channel")
	}
}
