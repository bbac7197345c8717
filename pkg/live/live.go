// Package live streams guard events to dashboard clients over websockets.
// The feed is one-way: the engine broadcasts, the panel listens.
package live

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// writeTimeout es el plazo máximo para entregar un frame; un cliente que no
// consume a tiempo se expulsa del feed.
const writeTimeout = 5 * time.Second

// Event is the envelope every live-feed frame carries
type Event struct {
	Kind string      `json:"kind"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// Hub mantiene los clientes websocket conectados y les retransmite los
// eventos del motor. Las escrituras van serializadas bajo el mutex del hub
// porque una conexión websocket no admite escritores concurrentes.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

var (
	hub     *Hub
	hubOnce sync.Once
)

// Init creates the global hub
func Init() *Hub {
	hubOnce.Do(func() {
		hub = NewHub()
		logger.Info("📡 Feed en vivo inicializado", "LIVE")
	})
	return hub
}

// Get returns the global hub, or nil before Init runs
func Get() *Hub {
	return hub
}

// NewHub creates a hub with no subscribers
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// El panel vive en otro origen y el feed es de solo lectura
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleUpgrade upgrades an HTTP request into a live-feed subscription
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug(fmt.Sprintf("Upgrade de websocket rechazado: %v", err), "Live")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()

	logger.Debug(fmt.Sprintf("Cliente de feed conectado (%d activos)", n), "Live")

	// El feed no espera mensajes del cliente, pero leer es lo que hace
	// aflorar los cierres y los frames de control.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// drop cierra y olvida un cliente
func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// Broadcast envía el evento a todos los clientes conectados. Un frame que
// no entra dentro del plazo de escritura desconecta a ese cliente.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo serializar el evento %q del feed: %v", ev.Kind, err), "Live")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// ClientCount returns how many subscribers are connected
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown desconecta a todos los clientes del feed
func (h *Hub) Shutdown() {
	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
}

// Publish retransmite un evento por el hub global. Sin hub no hace nada,
// igual que el comunicador MQTT sin broker.
func Publish(kind string, data interface{}) {
	h := Get()
	if h == nil {
		return
	}
	h.Broadcast(Event{Kind: kind, At: time.Now(), Data: data})
}
