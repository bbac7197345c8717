package discord

import (
	"sort"
	"sync"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
)

// EventHandler keeps track of the gateway handlers registered on the session
// so the startup log and the ops surface can report what is actually wired.
type EventHandler struct {
	client *ExtendedClient
	mu     sync.RWMutex
	names  []string
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{client: client}
}

// Register adds a named gateway handler to the Discord session. The handler
// must have one of discordgo's event handler signatures; discordgo resolves
// the event type from it.
func (eh *EventHandler) Register(name string, handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.names = append(eh.names, name)
	eh.mu.Unlock()
	logger.Debug("Evento '"+name+"' registrado", "EventHandler")
}

// Count returns how many handlers have been registered
func (eh *EventHandler) Count() int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return len(eh.names)
}

// Names returns the registered handler names, sorted
func (eh *EventHandler) Names() []string {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	out := make([]string, len(eh.names))
	copy(out, eh.names)
	sort.Strings(out)
	return out
}
