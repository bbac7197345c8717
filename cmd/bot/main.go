// Package main is the entry point for the PancyGuard Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/PancyGuardGo/internal/commands"
	"github.com/PancyStudios/PancyGuardGo/internal/events"
	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/live"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/PancyStudios/PancyGuardGo/pkg/scheduler"
	"github.com/PancyStudios/PancyGuardGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Configuración inválida: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger. Production runs without debug output.
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	log.SetVerbose(!cfg.IsProd())
	defer log.Close()

	logger.System("Iniciando PancyGuard Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		logger.Debug(fmt.Sprintf("Error connecting to database: %v", cfg.MongoDBURL), "Main")
		// Continue without database- it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			_ = db.Disconnect()
		}
	}()

	// Initialize global DataManagers
	if db != nil {
		database.InitGlobalDataManagers(db)

		// Initialize blacklist cache at startup and start auto-refresh
		if err := database.InitBlacklistCache(); err != nil {
			logger.Warn(fmt.Sprintf("Error inicializando caché de blacklist: %v", err), "Main")
		}
		database.StartBlacklistCacheRefresh()
		defer database.StopBlacklistCacheRefresh()
	}

	// Initialize MQTT
	mqttClientID := "pancyguard"
	if !cfg.IsProd() {
		mqttClientID = "pancyguard_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Initialize the live feed hub before the web server mounts /api/live
	liveHub := live.Init()
	defer liveHub.Shutdown()

	// Initialize web server
	webServer := web.Init(cfg.LogsWebServerHook)
	web.SetupAPIRoutes(webServer)
	webServer.StartAsync(cfg.Port)

	// Initialize the automod engine
	automod.Init()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Wire the moderation dispatcher over the Discord platform adapter
	records := moderation.NewRecords()
	moderation.InitDispatcher(discordClient.Platform(), records)

	// Register commands using the commands package
	commands.RegisterAll(discordClient)

	// Register events using the events package
	events.RegisterAll(discordClient)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		_ = discordClient.Stop()
	}()

	// Start the sanction reconciler once Discord is connected
	reconciler := scheduler.Init(discordClient.Platform(), records)
	reconciler.Start(context.Background())
	defer reconciler.Stop()

	// Ops handlers over the broker, for the panel and sibling services
	registerOpsHandlers(mqttClient, discordClient)

	logger.Success("PancyGuard Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyGuard Go...", "Main")
}

// registerOpsHandlers atiende las peticiones operativas que llegan por el
// broker: estado del motor y expiración remota de la caché de políticas.
func registerOpsHandlers(mc *mqtt.MqttCommunicator, client *discord.ExtendedClient) {
	mc.On("guard/status", func(payload map[string]interface{}) (interface{}, error) {
		dbStatus, dbOnline := database.Get().GetStatus()
		return map[string]interface{}{
			"ready":       client.IsReady(),
			"guilds":      client.GuildCount(),
			"dbStatus":    dbStatus,
			"dbOnline":    dbOnline,
			"windows":     automod.Get().Store().Keys(),
			"events":      client.EventHandler.Names(),
			"feedClients": live.Get().ClientCount(),
		}, nil
	})

	mc.On("guard/config/invalidate", func(payload map[string]interface{}) (interface{}, error) {
		guildID, _ := payload["guildId"].(string)
		if guildID == "" {
			return nil, errors.New("falta guildId")
		}
		database.InvalidateGuildConfig(guildID)
		logger.Info(fmt.Sprintf("Política de %s expirada por petición remota", guildID), "Main")
		return map[string]interface{}{"invalidated": guildID}, nil
	})
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
