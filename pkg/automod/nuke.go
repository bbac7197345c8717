package automod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

// CheckChannelMutation records one channel create or delete and fires when
// the guild reaches ChannelThreshold mutations inside the window. Channel and
// role mutations are tracked in independent windows with independent
// thresholds. Actor attribution happens downstream via the audit log.
func (e *Engine) CheckChannelMutation(guildID string, ts time.Time, cfg *models.GuildConfig) Verdict {
	if !cfg.AntiNuke.Enabled {
		return Clean()
	}
	return e.checkMutation(guildID, ts, cfg, window.CategoryChannelMutation,
		CategoryChannelNuke, cfg.AntiNuke.ChannelThreshold, "canales")
}

// CheckRoleMutation is the role counterpart of CheckChannelMutation
func (e *Engine) CheckRoleMutation(guildID string, ts time.Time, cfg *models.GuildConfig) Verdict {
	if !cfg.AntiNuke.Enabled {
		return Clean()
	}
	return e.checkMutation(guildID, ts, cfg, window.CategoryRoleMutation,
		CategoryRoleNuke, cfg.AntiNuke.RoleThreshold, "roles")
}

func (e *Engine) checkMutation(guildID string, ts time.Time, cfg *models.GuildConfig, key window.Category, category Category, threshold int, resource string) Verdict {
	win := time.Duration(cfg.AntiNuke.WindowSeconds) * time.Second
	count := e.store.Record(guildID, "", key, ts, "", win)
	if count < threshold {
		return Clean()
	}

	e.store.Clear(guildID, "", key)

	return Verdict{
		Violation: true,
		Category:  category,
		Reason:    fmt.Sprintf("Cambio masivo de %s: %d en %ds", resource, count, cfg.AntiNuke.WindowSeconds),
	}
}
