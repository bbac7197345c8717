// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/live"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)
		api.GET("/guard/stats", guardStatsHandler)
		api.GET("/live", liveFeedHandler)
	}

	// Prometheus scrape endpoint
	s.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":       dbStatus,
			"isOnline":     dbOnline,
			"queuedWrites": db.QueuedWrites(),
			"cachedDocs":   database.SharedCacheSize(),
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyGuard Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guardStatsHandler reporta el estado del motor de protección: ventanas
// vivas, sanciones activas y veredictos recientes. Los contadores de base
// de datos son best effort: sin conexión se reportan en -1.
func guardStatsHandler(c *gin.Context) {
	windows := automod.Get().Store().Keys()

	activeSanctions := int64(-1)
	if n, err := database.CountActiveSanctions(); err == nil {
		activeSanctions = n
	}

	verdicts24h := int64(-1)
	if n, err := database.CountAutomodEventsSince(time.Now().Add(-24 * time.Hour)); err == nil {
		verdicts24h = n
	}

	feedClients := 0
	if h := live.Get(); h != nil {
		feedClients = h.ClientCount()
	}

	c.JSON(http.StatusOK, gin.H{
		"windows": gin.H{
			"keys": windows,
		},
		"sanctions": gin.H{
			"active": activeSanctions,
		},
		"verdicts": gin.H{
			"last24h": verdicts24h,
		},
		"liveFeed": gin.H{
			"clients": feedClients,
		},
	})
}

// liveFeedHandler suscribe al cliente al feed de eventos en vivo
func liveFeedHandler(c *gin.Context) {
	h := live.Get()
	if h == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Feed Offline",
			"message": "El feed en vivo no está disponible.",
		})
		return
	}
	h.HandleUpgrade(c.Writer, c.Request)
}
