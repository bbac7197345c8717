package automod

import (
	"regexp"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

// Engine runs the classifiers over incoming platform events. It owns the
// sliding windows and the compiled patterns. The engine never touches the
// network or the database: a verdict is pure data for the dispatcher.
type Engine struct {
	store    *window.Store
	urlRe    *regexp.Regexp
	inviteRe *regexp.Regexp
}

var (
	instance *Engine
	once     sync.Once
)

// NewEngine creates an engine with an empty window store
func NewEngine() *Engine {
	return &Engine{
		store:    window.NewStore(),
		urlRe:    regexp.MustCompile(`(?i)https?://[^\s]+`),
		inviteRe: regexp.MustCompile(`(?i)discord(?:\.gg|\.com/invite|app\.com/invite)/([a-zA-Z0-9-]+)`),
	}
}

// Init creates the global automod engine
func Init() *Engine {
	once.Do(func() {
		instance = NewEngine()
		logger.Info("🛡️ Motor de automod inicializado", "AUTOMOD")
	})
	return instance
}

// Get returns the global engine, initializing it if necessary
func Get() *Engine {
	if instance == nil {
		return Init()
	}
	return instance
}

// Store exposes the window store so the maintenance sweep can prune idle keys
func (e *Engine) Store() *window.Store {
	return e.store
}

// MessageEvent is one content event from the platform
type MessageEvent struct {
	GuildID     string
	ChannelID   string
	MessageID   string
	AuthorID    string
	Content     string
	Timestamp   time.Time
	Attachments []Attachment
}

// Attachment is the metadata of one uploaded file
type Attachment struct {
	Filename string
	Size     int64
}

// CheckMessage classifies one message against the guild policy. Spam runs
// first because it is stateful; the content filters follow in a fixed order
// and the first enabled filter that matches wins.
func (e *Engine) CheckMessage(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.AutomodEnabled {
		return Clean()
	}
	if v := e.checkSpam(ev, cfg); v.Violation {
		return v
	}
	if v := e.checkLinks(ev, cfg); v.Violation {
		return v
	}
	if v := e.checkInvites(ev, cfg); v.Violation {
		return v
	}
	if v := checkWords(ev, cfg); v.Violation {
		return v
	}
	if v := checkAttachments(ev, cfg); v.Violation {
		return v
	}
	return Clean()
}

// CheckEdit re-runs the stateless content filters over an edited message.
// Spam stays out: an edit is not a new message and must not feed the
// sliding windows. Attachments cannot change on edit either.
func (e *Engine) CheckEdit(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.AutomodEnabled {
		return Clean()
	}
	if v := e.checkLinks(ev, cfg); v.Violation {
		return v
	}
	if v := e.checkInvites(ev, cfg); v.Violation {
		return v
	}
	if v := checkWords(ev, cfg); v.Violation {
		return v
	}
	return Clean()
}
