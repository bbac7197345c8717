package automod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/window"
)

// checkSpam records the message in the author's window and fires when the
// window reaches MaxMessages entries with at most two distinct contents. The
// heuristic is deliberately loose: it catches exact floods and low-variation
// floods. The window is cleared after firing so one burst produces exactly
// one verdict.
func (e *Engine) checkSpam(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.Spam.Enabled {
		return Clean()
	}

	win := time.Duration(cfg.Spam.WindowSeconds) * time.Second
	content := normalizeContent(ev.Content)

	count := e.store.Record(ev.GuildID, ev.AuthorID, window.CategorySpam, ev.Timestamp, content, win)
	if count < cfg.Spam.MaxMessages {
		return Clean()
	}

	recent := e.store.Snapshot(ev.GuildID, ev.AuthorID, window.CategorySpam, ev.Timestamp, win)
	if distinctCount(recent) > 2 {
		return Clean()
	}

	e.store.Clear(ev.GuildID, ev.AuthorID, window.CategorySpam)

	return Verdict{
		Violation:  true,
		Category:   CategorySpam,
		Reason:     fmt.Sprintf("Spam detectado: %d mensajes en %ds", count, cfg.Spam.WindowSeconds),
		Action:     cfg.Spam.Action,
		Duration:   time.Duration(cfg.Spam.DurationSeconds) * time.Second,
		Evidence:   recent,
		PurgeCount: cfg.Spam.MaxMessages,
	}
}

// normalizeContent lowercases and collapses whitespace so near-identical
// floods compare equal
func normalizeContent(content string) string {
	return strings.Join(strings.Fields(strings.ToLower(content)), " ")
}

func distinctCount(payloads []string) int {
	seen := make(map[string]struct{}, len(payloads))
	for _, p := range payloads {
		seen[p] = struct{}{}
	}
	return len(seen)
}
