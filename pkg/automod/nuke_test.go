package automod

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

func TestChannelNukeThreshold(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")

	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		if v := e.CheckChannelMutation("g1", ts, cfg); v.Violation {
			t.Fatalf("channel mutation %d fired below the threshold", i+1)
		}
	}

	v := e.CheckChannelMutation("g1", base.Add(4*time.Second), cfg)
	if !v.Violation {
		t.Fatal("fifth channel mutation did not fire")
	}
	if v.Category != CategoryChannelNuke {
		t.Errorf("Category = %q, want %q", v.Category, CategoryChannelNuke)
	}

	// Cleared after firing: the next mutation starts a fresh count
	if v := e.CheckChannelMutation("g1", base.Add(5*time.Second), cfg); v.Violation {
		t.Error("channel nuke re-fired immediately after the window clear")
	}
}

func TestRoleNukeIndependentWindow(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiNuke.ChannelThreshold = 3
	cfg.AntiNuke.RoleThreshold = 3

	// Two channel mutations plus two role mutations: neither window alone
	// reaches its threshold
	e.CheckChannelMutation("g1", base, cfg)
	e.CheckChannelMutation("g1", base.Add(time.Second), cfg)
	e.CheckRoleMutation("g1", base.Add(2*time.Second), cfg)

	if v := e.CheckRoleMutation("g1", base.Add(3*time.Second), cfg); v.Violation {
		t.Error("role window fired counting channel mutations")
	}

	// The third role mutation completes the role window
	v := e.CheckRoleMutation("g1", base.Add(4*time.Second), cfg)
	if !v.Violation {
		t.Fatal("third role mutation did not fire")
	}
	if v.Category != CategoryRoleNuke {
		t.Errorf("Category = %q, want %q", v.Category, CategoryRoleNuke)
	}
}

func TestNukeDisabled(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiNuke.Enabled = false

	for i := 0; i < 20; i++ {
		ts := base.Add(time.Duration(i) * 100 * time.Millisecond)
		if v := e.CheckChannelMutation("g1", ts, cfg); v.Violation {
			t.Fatal("disabled anti-nuke fired")
		}
	}
}

func TestNukePerTypeThresholds(t *testing.T) {
	e := NewEngine()
	cfg := models.DefaultGuildConfig("g1")
	cfg.AntiNuke.ChannelThreshold = 2
	cfg.AntiNuke.RoleThreshold = 8

	e.CheckChannelMutation("g1", base, cfg)
	v := e.CheckChannelMutation("g1", base.Add(time.Second), cfg)
	if !v.Violation {
		t.Error("channel window ignored its own threshold")
	}

	for i := 0; i < 7; i++ {
		ts := base.Add(time.Duration(i) * time.Second)
		if v := e.CheckRoleMutation("g1", ts, cfg); v.Violation {
			t.Fatalf("role mutation %d fired below its threshold", i+1)
		}
	}
}
