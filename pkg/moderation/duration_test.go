package moderation

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"45 sec", 45 * time.Second},
		{"90 seconds", 90 * time.Second},
		{"10m", 10 * time.Minute},
		{"5 min", 5 * time.Minute},
		{"1 minute", time.Minute},
		{"12h", 12 * time.Hour},
		{"2 hours", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"3 days", 72 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"2 weeks", 14 * 24 * time.Hour},
		{"  10M  ", 10 * time.Minute},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) error inesperado: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "10x", "diez minutos", "m10", "1.5h", "-5m", "10 months", "h"} {
		if _, err := ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q) no devolvió error", in)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 segundos"},
		{-5 * time.Second, "0 segundos"},
		{time.Second, "1 segundo"},
		{45 * time.Second, "45 segundos"},
		{time.Minute, "1 minuto"},
		{90 * time.Second, "1 minuto"},
		{time.Hour, "1 hora"},
		{25 * time.Hour, "1 día, 1 hora"},
		{24 * time.Hour, "1 día"},
		{2*24*time.Hour + 3*time.Hour + 15*time.Minute, "2 días, 3 horas, 15 minutos"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := ParseDuration("2d")
	if err != nil {
		t.Fatalf("ParseDuration: %v", err)
	}
	if got := FormatDuration(d + 3*time.Hour + 15*time.Minute); got != "2 días, 3 horas, 15 minutos" {
		t.Errorf("FormatDuration = %q", got)
	}
}
