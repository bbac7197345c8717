package automod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// checkLinks flags URLs in the message. A URL matching BlockedDomains always
// fires; when AllowedDomains is non-empty every URL outside it fires too. Both
// checks are case-insensitive substring matches against the full URL.
func (e *Engine) checkLinks(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.Links.Enabled {
		return Clean()
	}

	urls := e.urlRe.FindAllString(ev.Content, -1)
	if len(urls) == 0 {
		return Clean()
	}

	for _, url := range urls {
		lower := strings.ToLower(url)
		for _, blocked := range cfg.Links.BlockedDomains {
			blocked = strings.ToLower(strings.TrimSpace(blocked))
			if blocked != "" && strings.Contains(lower, blocked) {
				return linkVerdict(cfg, fmt.Sprintf("Enlace bloqueado: %s", url), url)
			}
		}
	}

	if len(cfg.Links.AllowedDomains) == 0 {
		return Clean()
	}

	for _, url := range urls {
		lower := strings.ToLower(url)
		allowed := false
		for _, domain := range cfg.Links.AllowedDomains {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain != "" && strings.Contains(lower, domain) {
				allowed = true
				break
			}
		}
		if !allowed {
			return linkVerdict(cfg, fmt.Sprintf("Enlace no autorizado: %s", url), url)
		}
	}

	return Clean()
}

func linkVerdict(cfg *models.GuildConfig, reason, url string) Verdict {
	return Verdict{
		Violation: true,
		Category:  CategoryLink,
		Reason:    reason,
		Action:    cfg.Links.Action,
		Duration:  time.Duration(cfg.Links.DurationSeconds) * time.Second,
		Evidence:  []string{url},
	}
}

// checkInvites flags server invites. With an allow list only unknown codes
// fire; without one every invite fires.
func (e *Engine) checkInvites(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.Invites.Enabled {
		return Clean()
	}

	for _, m := range e.inviteRe.FindAllStringSubmatch(ev.Content, -1) {
		if inviteAllowed(m[1], cfg.Invites.AllowedCodes) {
			continue
		}
		return Verdict{
			Violation: true,
			Category:  CategoryInvite,
			Reason:    "Invitación de Discord detectada",
			Action:    cfg.Invites.Action,
			Duration:  time.Duration(cfg.Invites.DurationSeconds) * time.Second,
			Evidence:  []string{m[0]},
		}
	}

	return Clean()
}

// inviteAllowed accepts entries written as a bare code or as a full invite URL
func inviteAllowed(code string, allowed []string) bool {
	for _, entry := range allowed {
		entry = strings.TrimSpace(entry)
		if i := strings.LastIndexByte(entry, '/'); i >= 0 {
			entry = entry[i+1:]
		}
		if entry != "" && strings.EqualFold(entry, code) {
			return true
		}
	}
	return false
}

// checkWords flags messages containing a blocked word, case-insensitive
// substring match
func checkWords(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.Words.Enabled || len(cfg.Words.BlockedWords) == 0 {
		return Clean()
	}

	content := strings.ToLower(ev.Content)
	for _, word := range cfg.Words.BlockedWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		if strings.Contains(content, word) {
			return Verdict{
				Violation: true,
				Category:  CategoryWord,
				Reason:    "Lenguaje inapropiado detectado",
				Action:    cfg.Words.Action,
				Duration:  time.Duration(cfg.Words.DurationSeconds) * time.Second,
				Evidence:  []string{word},
			}
		}
	}

	return Clean()
}

// checkAttachments flags uploads above the size limit or with a blocked
// extension
func checkAttachments(ev MessageEvent, cfg *models.GuildConfig) Verdict {
	if !cfg.Attachments.Enabled || len(ev.Attachments) == 0 {
		return Clean()
	}

	for _, a := range ev.Attachments {
		if cfg.Attachments.MaxSizeBytes > 0 && a.Size > cfg.Attachments.MaxSizeBytes {
			return attachmentVerdict(cfg,
				fmt.Sprintf("Archivo demasiado grande: %.1fMB", float64(a.Size)/(1024*1024)),
				a.Filename)
		}

		name := strings.ToLower(a.Filename)
		for _, ext := range cfg.Attachments.BlockedExtensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && strings.HasSuffix(name, ext) {
				return attachmentVerdict(cfg,
					fmt.Sprintf("Tipo de archivo bloqueado: %s", ext),
					a.Filename)
			}
		}
	}

	return Clean()
}

func attachmentVerdict(cfg *models.GuildConfig, reason, filename string) Verdict {
	return Verdict{
		Violation: true,
		Category:  CategoryAttachment,
		Reason:    reason,
		Action:    cfg.Attachments.Action,
		Duration:  time.Duration(cfg.Attachments.DurationSeconds) * time.Second,
		Evidence:  []string{filename},
	}
}
