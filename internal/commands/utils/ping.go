package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
)

// createPingCommand creates the /utils ping subcommand
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Comprueba la latencia del bot",
		"utils",
		pingHandler,
	)
}

// pingHandler reports the gateway heartbeat and the REST round trip,
// measured against the deferral acknowledgment itself.
func pingHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		start := time.Now()
		if err := ctx.Defer(); err != nil {
			return
		}
		rest := time.Since(start).Milliseconds()
		gateway := ctx.Client.Session.HeartbeatLatency().Milliseconds()

		ctx.EditReply(fmt.Sprintf("🏓 Pong! Gateway: %dms | API: %dms", gateway, rest))
	}()
	return nil
}
