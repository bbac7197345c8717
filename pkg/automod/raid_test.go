package automod

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

func TestJoinRaidThreshold(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	// Nine joins stay clean, the tenth crosses the default threshold
	for i := 0; i < 9; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		if v := e.CheckJoin("g1", ts, cfg); v.Violation {
			t.Fatalf("join %d fired below the threshold", i+1)
		}
	}

	v := e.CheckJoin("g1", base.Add(9*time.Second), cfg)
	if !v.Violation {
		t.Fatal("tenth join did not fire")
	}
	if v.Category != CategoryJoinRaid {
		t.Errorf("Category = %q, want %q", v.Category, CategoryJoinRaid)
	}
	if !v.Lockdown {
		t.Error("Lockdown = false, want true with the default auto-lockdown")
	}

	// The window is empty immediately after firing
	win := time.Duration(cfg.AntiRaid.WindowSeconds) * time.Second
	if got := e.Store().Count("g1", "", window.CategoryJoin, base.Add(9*time.Second), win); got != 0 {
		t.Errorf("join window holds %d entries after firing, want 0", got)
	}
}

func TestJoinRaidLockdownGate(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiRaid.JoinThreshold = 3
	cfg.AntiRaid.AutoLockdown = false

	var v Verdict
	for i := 0; i < 3; i++ {
		v = e.CheckJoin("g1", base.Add(time.Duration(i)*time.Second), cfg)
	}

	if !v.Violation {
		t.Fatal("raid did not fire at the configured threshold")
	}
	if v.Lockdown {
		t.Error("Lockdown = true with auto-lockdown disabled")
	}
}

func TestJoinRaidWindowExpiry(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiRaid.JoinThreshold = 3
	cfg.AntiRaid.WindowSeconds = 10

	e.CheckJoin("g1", base, cfg)
	e.CheckJoin("g1", base.Add(time.Second), cfg)

	// Third join arrives after the first two left the window
	if v := e.CheckJoin("g1", base.Add(time.Minute), cfg); v.Violation {
		t.Error("raid fired across an expired window")
	}
}

func TestJoinRaidDisabled(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiRaid.Enabled = false

	for i := 0; i < 20; i++ {
		if v := e.CheckJoin("g1", base.Add(time.Duration(i)*time.Second), cfg); v.Violation {
			t.Fatal("disabled anti-raid fired")
		}
	}
}

func TestJoinRaidIsolatesGuilds(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiRaid.JoinThreshold = 3

	e.CheckJoin("g1", base, cfg)
	e.CheckJoin("g1", base.Add(time.Second), cfg)

	// A join in another guild must not complete g1's burst
	if v := e.CheckJoin("g2", base.Add(2*time.Second), cfg); v.Violation {
		t.Error("raid fired for a guild whose own window is below the threshold")
	}
}
