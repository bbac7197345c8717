package automod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

// CheckJoin records one member join in the per-guild window and fires when
// the guild accumulates JoinThreshold joins inside it. The window is cleared
// after firing so one raid produces one alert, not one per extra join.
func (e *Engine) CheckJoin(guildID string, ts time.Time, cfg *models.GuildConfig) Verdict {
	if !cfg.AntiRaid.Enabled {
		return Clean()
	}

	win := time.Duration(cfg.AntiRaid.WindowSeconds) * time.Second
	count := e.store.Record(guildID, "", window.CategoryJoin, ts, "", win)
	if count < cfg.AntiRaid.JoinThreshold {
		return Clean()
	}

	e.store.Clear(guildID, "", window.CategoryJoin)

	return Verdict{
		Violation: true,
		Category:  CategoryJoinRaid,
		Reason:    fmt.Sprintf("Posible raid: %d entradas en %ds", count, cfg.AntiRaid.WindowSeconds),
		Lockdown:  cfg.AntiRaid.AutoLockdown,
	}
}
