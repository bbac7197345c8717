// Package web hosts the panel API of the protection engine: status and
// stats endpoints, the Prometheus scrape target and the websocket live feed.
package web

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

// maxTrackedClients bounds the rate limiter map. When the bound is hit the
// expired buckets are purged before admitting a new client.
const maxTrackedClients = 10000

var (
	server *Server
	once   sync.Once
)

// Server represents the panel web server
type Server struct {
	engine     *gin.Engine
	webhookURL string
	limiter    *rateLimiter
}

// Init initializes the global web server. Requests rejected by the rate
// limiter and requests for unknown routes are reported to the given Discord
// webhook; an empty URL disables the reporting.
func Init(webhookURL string) *Server {
	once.Do(func() {
		server = NewServer(webhookURL)
	})
	return server
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a web server without touching the singleton
func NewServer(webhookURL string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:     gin.New(),
		webhookURL: webhookURL,
		limiter:    newRateLimiter(60, time.Minute),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(s.rateLimitMiddleware())
	s.engine.Use(s.requestLogMiddleware())
	s.setupFallbackHandlers()

	return s
}

// rateLimiter aplica una ventana fija de peticiones por IP. Igual que las
// ventanas del motor, las entradas caducadas se purgan al tocar el mapa.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*ipBucket
}

type ipBucket struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*ipBucket),
	}
}

// Allow reports whether the client may make another request in the current
// window. firstStrike is true only for the first rejected request of the
// window so callers can notify once instead of flooding the webhook.
func (rl *rateLimiter) Allow(ip string, now time.Time) (allowed bool, firstStrike bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.After(b.resetAt) {
		if len(rl.buckets) >= maxTrackedClients {
			rl.prune(now)
		}
		rl.buckets[ip] = &ipBucket{count: 1, resetAt: now.Add(rl.window)}
		return true, false
	}

	b.count++
	if b.count == rl.limit+1 {
		return false, true
	}
	return b.count <= rl.limit, false
}

// prune drops expired buckets. Caller must hold mu.
func (rl *rateLimiter) prune(now time.Time) {
	for ip, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, ip)
		}
	}
}

// rateLimitMiddleware rejects clients that exceed the per-IP request budget
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, firstStrike := s.limiter.Allow(ip, time.Now())
		if allowed {
			c.Next()
			return
		}

		if firstStrike {
			logger.Warn(fmt.Sprintf("⛔ IP %s superó el límite de peticiones (%s %s)", ip, c.Request.Method, c.Request.URL.Path), "WebServer")
			s.reportSuspiciousRequest(c, "Límite de peticiones superado")
		}

		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "Too Many Requests",
			"message": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
		})
	}
}

// requestLogMiddleware logs every request with its status and latency
func (s *Server) requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := fmt.Sprintf("%s %s -> %d (%s, IP: %s)",
			c.Request.Method, c.Request.URL.Path, status,
			time.Since(start).Round(time.Millisecond), c.ClientIP())

		if status >= http.StatusInternalServerError {
			logger.Error(line, "WebServer")
			return
		}
		logger.Debug(line, "WebServer")
	}
}

// setupFallbackHandlers registers the 404/405 responses. Unknown routes on a
// guard panel are almost always scanners probing for admin consoles, so the
// 404 path also reports to the webhook.
func (s *Server) setupFallbackHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		logger.Warn(fmt.Sprintf("🔍 Ruta desconocida: %s %s (IP: %s)", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		s.reportSuspiciousRequest(c, "Ruta desconocida")
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// reportSuspiciousRequest sends the request details to the configured Discord
// webhook. Best effort: failures only log.
func (s *Server) reportSuspiciousRequest(c *gin.Context, reason string) {
	if s.webhookURL == "" {
		return
	}

	userAgent := c.Request.UserAgent()
	if userAgent == "" {
		userAgent = "desconocido"
	}

	embed := map[string]interface{}{
		"title":       "🚨 | Solicitud sospechosa al panel",
		"description": fmt.Sprintf("> **Motivo:** %s", reason),
		"color":       0xFFA500,
		"fields": []map[string]interface{}{
			{"name": "Método", "value": c.Request.Method, "inline": true},
			{"name": "Ruta", "value": fmt.Sprintf("`%s`", c.Request.URL.Path), "inline": true},
			{"name": "IP", "value": fmt.Sprintf("`%s`", c.ClientIP()), "inline": true},
			{"name": "User-Agent", "value": userAgent, "inline": false},
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error al serializar el reporte de solicitud: "+err.Error(), "WebServer")
		return
	}

	go func() {
		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Post(s.webhookURL, "application/json", bytes.NewReader(jsonData))
		if err != nil {
			logger.Error("Error al enviar el reporte al webhook: "+err.Error(), "WebServer")
			return
		}
		resp.Body.Close()
	}()
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start starts the web server. Blocks.
func (s *Server) Start(port string) error {
	logger.Info(fmt.Sprintf("🌐 Panel escuchando en http://localhost:%s", port), "WebServer")
	return s.engine.Run(":" + port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error en el servidor web: %v", err), "WebServer")
		}
	}()
}
