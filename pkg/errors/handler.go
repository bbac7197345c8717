// Package errors provides the bot's failure taxonomy plus the crash
// watchdog that shuts the process down when errors arrive faster than
// the bot can cope with them.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/metrics"
	json "github.com/goccy/go-json"
)

// Watchdog thresholds. More than maxFailuresPerWindow failures inside one
// window means the process is thrashing and a clean restart beats limping.
const (
	maxFailuresPerWindow = 15
	watchdogWindow       = 5 * time.Second
	watchdogTick         = time.Second
)

// Watchdog counts recovered panics and reported failures across the whole
// process. When the failure rate crosses the threshold it reports to the
// webhook, runs the shutdown hook and exits so the supervisor restarts the
// bot in a known state.
type Watchdog struct {
	failures     int32
	webhookURL   string
	shutdownFunc func()
	stop         chan struct{}
	stopOnce     sync.Once
}

var (
	watchdog *Watchdog
	once     sync.Once
)

// Init initializes the global watchdog and starts its monitor goroutine
func Init(webhookURL string, shutdownFunc func()) *Watchdog {
	once.Do(func() {
		watchdog = NewWatchdog(webhookURL, shutdownFunc)
	})
	return watchdog
}

// Get returns the global watchdog instance
func Get() *Watchdog {
	return watchdog
}

// NewWatchdog creates a watchdog without touching the singleton
func NewWatchdog(webhookURL string, shutdownFunc func()) *Watchdog {
	w := &Watchdog{
		webhookURL:   webhookURL,
		shutdownFunc: shutdownFunc,
		stop:         make(chan struct{}),
	}
	go w.monitor()
	return w
}

// monitor resets the failure counter once per window and trips the
// shutdown when the count inside a window crosses the threshold.
func (w *Watchdog) monitor() {
	ticker := time.NewTicker(watchdogTick)
	defer ticker.Stop()

	lastReset := time.Now()
	for {
		select {
		case now := <-ticker.C:
			if atomic.LoadInt32(&w.failures) > maxFailuresPerWindow {
				w.trip()
				return
			}
			if now.Sub(lastReset) >= watchdogWindow {
				atomic.StoreInt32(&w.failures, 0)
				lastReset = now
			}
		case <-w.stop:
			return
		}
	}
}

// trip reports the error storm, runs the shutdown hook and ends the process
func (w *Watchdog) trip() {
	start := time.Now()
	logger.Critical("Tormenta de errores detectada, apagando el bot...", "Watchdog")

	w.report("Tormenta de errores", fmt.Sprintf(
		"Más de %d errores en %s. El proceso se reinicia para volver a un estado conocido.",
		maxFailuresPerWindow, watchdogWindow,
	))

	if w.shutdownFunc != nil {
		w.shutdownFunc()
	}

	logger.Warn(fmt.Sprintf("Proceso finalizado en %v", time.Since(start).Round(time.Millisecond)), "Watchdog")
	os.Exit(1)
}

// Stop stops the monitor goroutine. Safe to call more than once.
func (w *Watchdog) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// NoteFailure adds one failure to the current window
func (w *Watchdog) NoteFailure() {
	count := atomic.AddInt32(&w.failures, 1)
	logger.Debug(fmt.Sprintf("Errores en la ventana actual: %d", count), "Watchdog")
}

// HandlePanic records a recovered panic with its stack
func (w *Watchdog) HandlePanic(recovered interface{}) {
	w.NoteFailure()
	metrics.PanicsRecovered.Inc()
	logger.Error(fmt.Sprintf("Panic recuperado: %v\n%s", recovered, debug.Stack()), "Watchdog")
}

// report sends the failure to the Discord webhook. Synchronous so the
// message lands before a shutdown that follows it.
func (w *Watchdog) report(title, message string) {
	if w.webhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"author":      map[string]string{"name": "🚨 " + title},
				"description": message,
				"color":       0xFF0000,
				"footer":      map[string]string{"text": "PancyGuard Go"},
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error al serializar el reporte: "+err.Error(), "Watchdog")
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(w.webhookURL, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		logger.Error("Error al enviar el reporte al webhook: "+err.Error(), "Watchdog")
		return
	}
	resp.Body.Close()
}

// RecoverMiddleware returns a recovery function for deferred calls around
// command and event handlers
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			if watchdog != nil {
				watchdog.HandlePanic(r)
				return
			}
			logger.Error(fmt.Sprintf("Panic recuperado sin watchdog: %v", r), "Watchdog")
		}
	}
}
