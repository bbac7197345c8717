package moderation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`^(\d+)\s*(s|sec|seconds?|m|min|minutes?|h|hours?|d|days?|w|weeks?)$`)

// ParseDuration convierte duraciones compactas como "30s", "10m", "1h",
// "3d" o "1w" en un time.Duration. Acepta también las formas largas en
// inglés ("10 minutes"). Cualquier otra cosa se rechaza.
func ParseDuration(s string) (time.Duration, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	m := durationRe.FindStringSubmatch(norm)
	if m == nil {
		return 0, fmt.Errorf("duración inválida: %q (usa formatos como 30s, 10m, 1h, 3d, 1w)", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("duración inválida: %q", s)
	}
	switch m[2][0] {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	default: // 'w'
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	}
}

// FormatDuration escribe una duración como la leería un moderador:
// días, horas y minutos cuando existen; los segundos solo aparecen
// cuando no hay ninguna unidad mayor.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "0 segundos"
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, pluralize(days, "día", "días"))
	}
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hora", "horas"))
	}
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minuto", "minutos"))
	}
	if len(parts) == 0 && seconds > 0 {
		parts = append(parts, pluralize(seconds, "segundo", "segundos"))
	}
	if len(parts) == 0 {
		return "0 segundos"
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int64, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
