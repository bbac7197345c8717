package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// shardDown remembers when the gateway dropped so the resume log can say
// how long the bot was blind. Las ventanas del automod siguen en memoria
// durante el corte; solo se pierden los mensajes no recibidos.
var shardDown struct {
	mu    sync.Mutex
	since time.Time
}

// RegisterShardEvents registers the gateway lifecycle handlers
func RegisterShardEvents(client *discord.ExtendedClient) {
	client.EventHandler.Register("disconnect", onShardDisconnect)
	client.EventHandler.Register("resumed", onShardResumed)
}

// onShardDisconnect fires when the gateway drops. discordgo reconnects on
// its own; this only leaves a timestamp for the downtime report.
func onShardDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	shardDown.mu.Lock()
	shardDown.since = time.Now()
	shardDown.mu.Unlock()

	logger.Warn(fmt.Sprintf("🔌 Shard %d desconectado del gateway", s.ShardID), "Shard")
}

func onShardResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	shardDown.mu.Lock()
	since := shardDown.since
	shardDown.since = time.Time{}
	shardDown.mu.Unlock()

	if since.IsZero() {
		logger.Success(fmt.Sprintf("✅ Shard %d reanudado", s.ShardID), "Shard")
		return
	}
	downtime := time.Since(since).Round(time.Second)
	logger.Success(fmt.Sprintf("✅ Shard %d reanudado tras %s sin conexión", s.ShardID, downtime), "Shard")
}
