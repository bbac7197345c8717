package automod

import (
	"fmt"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func spamEvent(author, content string, ts time.Time) MessageEvent {
	return MessageEvent{
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		AuthorID:  author,
		Content:   content,
		Timestamp: ts,
	}
}

func TestSpamFiresExactlyOnce(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	fired := 0
	var verdict Verdict
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * 800 * time.Millisecond)
		v := e.checkSpam(spamEvent("u1", "compra aqui ya", ts), cfg)
		if v.Violation {
			fired++
			verdict = v
		}
	}

	if fired != 1 {
		t.Fatalf("spam fired %d times, want 1", fired)
	}
	if verdict.Category != CategorySpam {
		t.Errorf("Category = %q, want %q", verdict.Category, CategorySpam)
	}
	if verdict.Action != models.ActionMute {
		t.Errorf("Action = %q, want %q", verdict.Action, models.ActionMute)
	}
	if verdict.Duration != 300*time.Second {
		t.Errorf("Duration = %v, want %v", verdict.Duration, 300*time.Second)
	}
	if verdict.PurgeCount != 5 {
		t.Errorf("PurgeCount = %d, want 5", verdict.PurgeCount)
	}

	// The window was cleared, so the next duplicate starts a fresh burst
	v := e.checkSpam(spamEvent("u1", "compra aqui ya", base.Add(4*time.Second)), cfg)
	if v.Violation {
		t.Error("spam re-fired immediately after the window clear")
	}
}

func TestSpamToleratesVariedContent(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Five different messages inside the window: flood volume without
	// repetition must stay clean
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Second / 2)
		v := e.checkSpam(spamEvent("u1", fmt.Sprintf("mensaje distinto %d", i), ts), cfg)
		if v.Violation {
			t.Fatalf("spam fired on message %d with all-distinct contents", i+1)
		}
	}
}

func TestSpamNearDuplicateHeuristic(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Two alternating contents still count as near-duplicates
	contents := []string{"hola", "HOLA", "hola", "compra ya", "compra  ya"}
	fired := 0
	for i, c := range contents {
		ts := base.Add(time.Duration(i) * 700 * time.Millisecond)
		if v := e.checkSpam(spamEvent("u1", c, ts), cfg); v.Violation {
			fired++
		}
	}

	if fired != 1 {
		t.Errorf("spam fired %d times on a two-content flood, want 1", fired)
	}
}

func TestSpamWindowExpiry(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Four duplicates, then a pause longer than the window: the fifth must
	// not complete the burst
	for i := 0; i < 4; i++ {
		e.checkSpam(spamEvent("u1", "hola", base.Add(time.Duration(i)*time.Second)), cfg)
	}
	v := e.checkSpam(spamEvent("u1", "hola", base.Add(20*time.Second)), cfg)
	if v.Violation {
		t.Error("spam fired with stale entries outside the window")
	}
}

func TestSpamDisabled(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Spam.Enabled = false

	for i := 0; i < 10; i++ {
		ts := base.Add(time.Duration(i) * 100 * time.Millisecond)
		if v := e.checkSpam(spamEvent("u1", "hola", ts), cfg); v.Violation {
			t.Fatal("disabled spam classifier fired")
		}
	}
}

func TestSpamIsolatesSubjects(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Two users sending the same content must not share a window
	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * 500 * time.Millisecond)
		e.checkSpam(spamEvent("u1", "hola", ts), cfg)
	}
	v := e.checkSpam(spamEvent("u2", "hola", base.Add(2*time.Second)), cfg)
	if v.Violation {
		t.Error("spam fired for a subject whose own window is below the threshold")
	}
}

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hola Mundo", "hola mundo"},
		{"  HOLA   mundo  ", "hola mundo"},
		{"hola\nmundo", "hola mundo"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeContent(tt.in); got != tt.want {
			t.Errorf("normalizeContent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpamClearsWindowState(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * 500 * time.Millisecond)
		e.checkSpam(spamEvent("u1", "hola", ts), cfg)
	}

	win := time.Duration(cfg.Spam.WindowSeconds) * time.Second
	if got := e.Store().Count("g1", "u1", window.CategorySpam, base.Add(3*time.Second), win); got != 0 {
		t.Errorf("window holds %d entries after the burst fired, want 0", got)
	}
}
