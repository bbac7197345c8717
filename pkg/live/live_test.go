package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// feedServer levanta un hub detrás de un servidor HTTP de prueba y devuelve
// la URL websocket para conectarse a él
func feedServer(t *testing.T) (*Hub, string) {
	t.Helper()
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpgrade(w, r)
	}))
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) failed: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitClients espera a que el hub registre (o suelte) clientes: el registro
// ocurre en el handler del servidor, después de que Dial retorne en el cliente
func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", h.ClientCount(), want)
}

func TestHubBroadcast(t *testing.T) {
	h, url := feedServer(t)

	first := dialFeed(t, url)
	second := dialFeed(t, url)
	waitClients(t, h, 2)

	h.Broadcast(Event{
		Kind: "verdict",
		At:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Data: map[string]string{"guildId": "g1", "category": "spam"},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}

		var got struct {
			Kind string            `json:"kind"`
			Data map[string]string `json:"data"`
		}
		if err := json.Unmarshal(frame, &got); err != nil {
			t.Fatalf("frame is not valid JSON: %v", err)
		}
		if got.Kind != "verdict" {
			t.Errorf("kind = %q, want %q", got.Kind, "verdict")
		}
		if got.Data["guildId"] != "g1" || got.Data["category"] != "spam" {
			t.Errorf("data = %v, want guildId=g1 category=spam", got.Data)
		}
	}
}

func TestHubDropsClosedClient(t *testing.T) {
	h, url := feedServer(t)

	conn := dialFeed(t, url)
	waitClients(t, h, 1)

	conn.Close()
	waitClients(t, h, 0)

	// Difundir sin clientes no debe fallar
	h.Broadcast(Event{Kind: "sweep", At: time.Now(), Data: nil})
}

func TestHubShutdown(t *testing.T) {
	h, url := feedServer(t)

	conn := dialFeed(t, url)
	waitClients(t, h, 1)

	h.Shutdown()
	if n := h.ClientCount(); n != 0 {
		t.Errorf("ClientCount() after Shutdown = %d, want 0", n)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected a read error after Shutdown closed the connection")
	}
}

func TestPublishWithoutHub(t *testing.T) {
	// Antes de Init no hay hub global: publicar debe ser un no-op silencioso
	if Get() != nil {
		t.Skip("global hub already initialized by another test")
	}
	Publish("verdict", map[string]string{"guildId": "g1"})
}
