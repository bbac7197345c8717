package automod

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

func msg(content string) MessageEvent {
	return MessageEvent{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		AuthorID:  "u1",
		Content:   content,
		Timestamp: base,
	}
}

func TestCheckLinks(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name    string
		blocked []string
		allowed []string
		content string
		want    bool
	}{
		{"no urls", nil, nil, "hola mundo", false},
		{"empty lists allow everything", nil, nil, "mira https://example.com/x", false},
		{"blocked domain fires", []string{"badsite.com"}, nil, "https://badsite.com/estafa", true},
		{"blocked is case-insensitive", []string{"BadSite.com"}, nil, "https://BADSITE.COM/x", true},
		{"allow list passes known domain", nil, []string{"youtube.com"}, "https://youtube.com/watch", false},
		{"allow list rejects unknown domain", nil, []string{"youtube.com"}, "https://otra.net/x", true},
		{"blocked wins over allow list", []string{"youtube.com"}, []string{"youtube.com"}, "https://youtube.com/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultGuildConfig("g1")
			cfg.Links.BlockedDomains = tt.blocked
			cfg.Links.AllowedDomains = tt.allowed

			v := e.checkLinks(msg(tt.content), cfg)
			if v.Violation != tt.want {
				t.Errorf("checkLinks(%q) violation = %v, want %v", tt.content, v.Violation, tt.want)
			}
			if v.Violation && v.Category != CategoryLink {
				t.Errorf("Category = %q, want %q", v.Category, CategoryLink)
			}
		})
	}
}

func TestCheckLinksDisabled(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Links.Enabled = false
	cfg.Links.BlockedDomains = []string{"badsite.com"}

	if v := e.checkLinks(msg("https://badsite.com/x"), cfg); v.Violation {
		t.Error("disabled link filter fired")
	}
}

func TestCheckInvites(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name    string
		allowed []string
		content string
		want    bool
	}{
		{"no invite", nil, "hola mundo", false},
		{"gg invite without allow list", nil, "entra a discord.gg/abc123", true},
		{"full invite url", nil, "https://discord.com/invite/xyz", true},
		{"allowed code passes", []string{"abc123"}, "discord.gg/abc123", false},
		{"allowed full url entry passes", []string{"discord.gg/abc123"}, "discord.gg/abc123", false},
		{"unknown code fires", []string{"abc123"}, "discord.gg/otro", true},
		{"code match is case-insensitive", []string{"ABC123"}, "discord.gg/abc123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultGuildConfig("g1")
			cfg.Invites.AllowedCodes = tt.allowed

			v := e.checkInvites(msg(tt.content), cfg)
			if v.Violation != tt.want {
				t.Errorf("checkInvites(%q) violation = %v, want %v", tt.content, v.Violation, tt.want)
			}
			if v.Violation && v.Action != models.ActionDelete {
				t.Errorf("Action = %q, want %q", v.Action, models.ActionDelete)
			}
		})
	}
}

func TestCheckWords(t *testing.T) {
	tests := []struct {
		name    string
		words   []string
		content string
		want    bool
	}{
		{"empty list", nil, "cualquier cosa", false},
		{"exact word", []string{"tonto"}, "eres un tonto", true},
		{"case-insensitive", []string{"tonto"}, "eres un TONTO", true},
		{"substring match", []string{"tont"}, "tontería", true},
		{"clean message", []string{"tonto"}, "buenos días", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultGuildConfig("g1")
			cfg.Words.BlockedWords = tt.words

			v := checkWords(msg(tt.content), cfg)
			if v.Violation != tt.want {
				t.Errorf("checkWords(%q, %v) violation = %v, want %v", tt.content, tt.words, v.Violation, tt.want)
			}
		})
	}
}

func TestCheckAttachments(t *testing.T) {
	tests := []struct {
		name       string
		attachment Attachment
		want       bool
		reason     string
	}{
		{"small safe file", Attachment{Filename: "foto.png", Size: 1024}, false, ""},
		{"oversized file", Attachment{Filename: "video.mp4", Size: 20 * 1024 * 1024}, true, "grande"},
		{"blocked extension", Attachment{Filename: "virus.exe", Size: 512}, true, "bloqueado"},
		{"blocked extension uppercase", Attachment{Filename: "VIRUS.EXE", Size: 512}, true, "bloqueado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultGuildConfig("g1")
			cfg.Attachments.Enabled = true

			ev := msg("mira esto")
			ev.Attachments = []Attachment{tt.attachment}

			v := checkAttachments(ev, cfg)
			if v.Violation != tt.want {
				t.Errorf("checkAttachments(%s) violation = %v, want %v", tt.attachment.Filename, v.Violation, tt.want)
			}
		})
	}
}

func TestCheckAttachmentsDisabledByDefault(t *testing.T) {
	cfg := models.DefaultGuildConfig("g1")

	ev := msg("toma")
	ev.Attachments = []Attachment{{Filename: "virus.exe", Size: 512}}

	if v := checkAttachments(ev, cfg); v.Violation {
		t.Error("attachment filter fired while disabled by default")
	}
}

func TestCheckMessagePrecedence(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Words.BlockedWords = []string{"tonto"}

	// Invite and blocked word in one message: the invite filter runs first
	v := e.CheckMessage(msg("tonto, entra a discord.gg/abc"), cfg)
	if !v.Violation {
		t.Fatal("expected a violation")
	}
	if v.Category != CategoryInvite {
		t.Errorf("Category = %q, want %q (first enabled filter wins)", v.Category, CategoryInvite)
	}

	// With invites disabled the word filter takes over
	cfg.Invites.Enabled = false
	v = e.CheckMessage(MessageEvent{
		GuildID: "g1", ChannelID: "c1", MessageID: "m2", AuthorID: "u2",
		Content: "tonto, entra a discord.gg/abc", Timestamp: base,
	}, cfg)
	if v.Category != CategoryWord {
		t.Errorf("Category = %q, want %q", v.Category, CategoryWord)
	}
}

func TestCheckMessageGlobalToggle(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AutomodEnabled = false

	v := e.CheckMessage(msg("discord.gg/abc123"), cfg)
	if v.Violation {
		t.Error("automod fired with the global toggle off")
	}
}

func TestInviteAllowed(t *testing.T) {
	tests := []struct {
		code    string
		allowed []string
		want    bool
	}{
		{"abc", []string{"abc"}, true},
		{"abc", []string{"discord.gg/abc"}, true},
		{"abc", []string{"https://discord.com/invite/abc"}, true},
		{"abc", []string{"xyz"}, false},
		{"abc", nil, false},
	}

	for _, tt := range tests {
		if got := inviteAllowed(tt.code, tt.allowed); got != tt.want {
			t.Errorf("inviteAllowed(%q, %v) = %v, want %v", tt.code, tt.allowed, got, tt.want)
		}
	}
}

func TestFilterDurationCarried(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Invites.Action = models.ActionMute
	cfg.Invites.DurationSeconds = 900

	v := e.checkInvites(msg("discord.gg/abc"), cfg)
	if !v.Violation {
		t.Fatal("expected a violation")
	}
	if v.Duration != 900*time.Second {
		t.Errorf("Duration = %v, want %v", v.Duration, 900*time.Second)
	}
}

func TestCheckEdit(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     bool
		category Category
	}{
		{"clean edit", "ahora dice otra cosa", false, ""},
		{"edit adds blocked domain", "mira https://badsite.com/x", true, CategoryLink},
		{"edit adds invite", "entra a discord.gg/abc123", true, CategoryInvite},
		{"edit adds blocked word", "eres un tonto", true, CategoryWord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			cfg := models.DefaultGuildConfig("g1")
			cfg.Links.BlockedDomains = []string{"badsite.com"}
			cfg.Words.BlockedWords = []string{"tonto"}

			v := e.CheckEdit(msg(tt.content), cfg)
			if v.Violation != tt.want {
				t.Errorf("CheckEdit(%q) violation = %v, want %v", tt.content, v.Violation, tt.want)
			}
			if v.Violation && v.Category != tt.category {
				t.Errorf("Category = %q, want %q", v.Category, tt.category)
			}
		})
	}
}

func TestCheckEditDoesNotFeedWindows(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Más ediciones idénticas que el umbral de spam: como no son mensajes
	// nuevos no deben abrir ventanas ni disparar el detector
	for i := 0; i < cfg.Spam.MaxMessages*2; i++ {
		if v := e.CheckEdit(msg("mismo contenido"), cfg); v.Violation {
			t.Fatalf("edit %d fired a violation", i)
		}
	}
	if keys := e.Store().Keys(); keys != 0 {
		t.Errorf("Store().Keys() = %d after edits, want 0", keys)
	}
}

func TestCheckEditGlobalToggle(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AutomodEnabled = false

	if v := e.CheckEdit(msg("discord.gg/abc123"), cfg); v.Violation {
		t.Error("edit re-check fired with the global toggle off")
	}
}
