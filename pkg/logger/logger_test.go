package logger

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}
	defer l.Close()

	// Every level must work without webhooks configured
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")
}

func TestLevelTraits(t *testing.T) {
	tests := []struct {
		level        LogLevel
		name         string
		discordColor int
		logrusLevel  logrus.Level
	}{
		{LevelCritical, "CRITICAL", 0xFF0000, logrus.ErrorLevel},
		{LevelError, "ERROR", 0xFF0000, logrus.ErrorLevel},
		{LevelWarn, "WARN", 0xFFFF00, logrus.WarnLevel},
		{LevelSuccess, "SUCCESS", 0x00FF00, logrus.InfoLevel},
		{LevelInfo, "INFO", 0x0000FF, logrus.InfoLevel},
		{LevelDebug, "DEBUG", 0x800080, logrus.DebugLevel},
		{LevelSystem, "SYSTEM", 0x808080, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.name {
				t.Errorf("String() = %v, want %v", got, tt.name)
			}
			if tt.level.Color() == "" {
				t.Error("Color() should not be empty")
			}
			if got := tt.level.DiscordColor(); got != tt.discordColor {
				t.Errorf("DiscordColor() = %#x, want %#x", got, tt.discordColor)
			}
			if got := tt.level.toLogrus(); got != tt.logrusLevel {
				t.Errorf("toLogrus() = %v, want %v", got, tt.logrusLevel)
			}
		})
	}
}

func TestUnknownLevelDefaults(t *testing.T) {
	bogus := LogLevel(99)
	if got := bogus.String(); got != "UNKNOWN" {
		t.Errorf("String() = %v, want UNKNOWN", got)
	}
	if got := bogus.Color(); got != colorReset {
		t.Errorf("Color() = %q, want reset", got)
	}
	if got := bogus.DiscordColor(); got != 0xFFFFFF {
		t.Errorf("DiscordColor() = %#x, want 0xFFFFFF", got)
	}
	if got := bogus.toLogrus(); got != logrus.InfoLevel {
		t.Errorf("toLogrus() = %v, want InfoLevel", got)
	}
}

func TestLogFileCreation(t *testing.T) {
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	defer l.Close()

	for _, name := range []string{"combined.log", "error.log"} {
		if _, err := os.Stat(filepath.Join(logsDir, name)); os.IsNotExist(err) {
			t.Errorf("Expected %s to be created", name)
		}
	}
}

func TestErrorFileHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	defer f.Close()

	hook := &errorFileHook{file: f, formatter: &logrus.TextFormatter{DisableColors: true}}

	want := []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
	got := hook.Levels()
	if len(got) != len(want) {
		t.Fatalf("Levels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Levels()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	entry := logrus.NewEntry(logrus.New())
	entry.Level = logrus.ErrorLevel
	entry.Message = "explota"
	entry.Time = time.Now()

	if err := hook.Fire(entry); err != nil {
		t.Fatalf("Fire() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading hook output: %v", err)
	}
	if !strings.Contains(string(data), "explota") {
		t.Errorf("error.log missing the entry, got %q", string(data))
	}

	// A hook without a file must stay silent instead of failing
	empty := &errorFileHook{formatter: &logrus.TextFormatter{}}
	if err := empty.Fire(entry); err != nil {
		t.Errorf("Fire() without file should be a no-op, got %v", err)
	}
}

func TestWebhookRouting(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	var lastBody string

	newServer := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			hits[name]++
			lastBody = string(body)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}))
	}
	errorSrv := newServer("error")
	defer errorSrv.Close()
	logsSrv := newServer("logs")
	defer logsSrv.Close()

	l := NewLogger(errorSrv.URL, logsSrv.URL)
	defer l.Close()

	// Called directly so the test does not race the fire-and-forget goroutine
	l.sendToWebhook(LevelCritical, "se cayó todo", "TEST")
	l.sendToWebhook(LevelError, "boom", "TEST")
	l.sendToWebhook(LevelInfo, "todo bien", "TEST")

	mu.Lock()
	defer mu.Unlock()
	if hits["error"] != 2 {
		t.Errorf("error webhook hits = %d, want 2", hits["error"])
	}
	if hits["logs"] != 1 {
		t.Errorf("logs webhook hits = %d, want 1", hits["logs"])
	}
	if !strings.Contains(lastBody, "[INFO] TEST") {
		t.Errorf("payload missing the level/prefix title, got %q", lastBody)
	}
}

func TestSetVerbose(t *testing.T) {
	l := NewLogger("", "")
	defer l.Close()

	// Must not panic with verbose disabled
	l.SetVerbose(false)
	l.Debug("suppressed", "TEST")
	l.Info("still visible", "TEST")

	l.SetVerbose(true)
	l.Debug("visible again", "TEST")
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}
	defer l.Close()

	if l2 := Init("different", "different"); l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}
	if l3 := Get(); l != l3 {
		t.Error("Expected Get to return the same logger")
	}
}
