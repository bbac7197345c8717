// Package logger provides the bot's logging: colored console output,
// structured files through logrus and Discord webhook mirroring.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

const colorReset = "\033[0m"

// levelTraits bundles everything presentation needs to know about a level
type levelTraits struct {
	name         string
	ansi         string
	discordColor int
	logrusLevel  logrus.Level
}

var traits = map[LogLevel]levelTraits{
	LevelCritical: {"CRITICAL", "\033[1;31m", 0xFF0000, logrus.ErrorLevel},
	LevelError:    {"ERROR", "\033[31m", 0xFF0000, logrus.ErrorLevel},
	LevelWarn:     {"WARN", "\033[33m", 0xFFFF00, logrus.WarnLevel},
	LevelSuccess:  {"SUCCESS", "\033[32m", 0x00FF00, logrus.InfoLevel},
	LevelInfo:     {"INFO", "\033[36m", 0x0000FF, logrus.InfoLevel},
	LevelDebug:    {"DEBUG", "\033[35m", 0x800080, logrus.DebugLevel},
	LevelSystem:   {"SYSTEM", "\033[34m", 0x808080, logrus.InfoLevel},
}

// String returns the string representation of the log level
func (l LogLevel) String() string {
	if t, ok := traits[l]; ok {
		return t.name
	}
	return "UNKNOWN"
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	if t, ok := traits[l]; ok {
		return t.ansi
	}
	return colorReset
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	if t, ok := traits[l]; ok {
		return t.discordColor
	}
	return 0xFFFFFF
}

func (l LogLevel) toLogrus() logrus.Level {
	if t, ok := traits[l]; ok {
		return t.logrusLevel
	}
	return logrus.InfoLevel
}

// Logger fans every message out to the console, the log files and, for
// the levels that warrant it, a Discord webhook
type Logger struct {
	file            *logrus.Logger
	errorWebhookURL string
	logsWebhookURL  string
	logFile         *os.File
	errorFile       *os.File
	verbose         bool
	mu              sync.Mutex
}

var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger, initializing a webhook-less one if Init
// was never called. Packages can log from tests without wiring.
func Get() *Logger {
	once.Do(func() {
		logger = NewLogger("", "")
	})
	return logger
}

// NewLogger creates a new Logger instance
func NewLogger(errorWebhook, logsWebhook string) *Logger {
	l := &Logger{
		errorWebhookURL: errorWebhook,
		logsWebhookURL:  logsWebhook,
		verbose:         true,
	}

	logsDir := filepath.Join(".", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Printf("No se pudo crear el directorio de logs: %v\n", err)
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(logsDir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("No se pudo abrir combined.log: %v\n", err)
	}
	l.errorFile, err = os.OpenFile(filepath.Join(logsDir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("No se pudo abrir error.log: %v\n", err)
	}

	// logrus owns the files: combined.log gets everything, error.log gets
	// a copy of error-and-worse via the hook.
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	}

	l.file = logrus.New()
	l.file.SetLevel(logrus.DebugLevel)
	l.file.SetFormatter(formatter)
	if l.logFile != nil {
		l.file.SetOutput(l.logFile)
	} else {
		l.file.SetOutput(io.Discard)
	}
	l.file.AddHook(&errorFileHook{file: l.errorFile, formatter: formatter})

	return l
}

// errorFileHook copies error-and-worse entries into their own file so a
// fast-moving combined log never buries a failure
type errorFileHook struct {
	file      *os.File
	formatter logrus.Formatter
}

func (h *errorFileHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *errorFileHook) Fire(entry *logrus.Entry) error {
	if h.file == nil {
		return nil
	}
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.file.Write(line)
	return err
}

// SetVerbose enables or disables debug-level output. Production runs with
// verbose disabled to keep the automod event path from flooding the logs.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	l.verbose = verbose
	l.mu.Unlock()
}

// log fans one message out to every sink
func (l *Logger) log(level LogLevel, message string, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level == LevelDebug && !l.verbose {
		return
	}

	fmt.Printf("[%s] [%s%s%s] [%s]: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.Color(),
		level.String(),
		colorReset,
		prefix,
		message,
	)

	l.file.WithFields(logrus.Fields{
		"prefix": prefix,
		"nivel":  level.String(),
	}).Log(level.toLogrus(), message)

	go l.sendToWebhook(level, message, prefix)
}

// sendToWebhook mirrors the message to the matching Discord webhook:
// errors to the error hook, the rest to the general one
func (l *Logger) sendToWebhook(level LogLevel, message, prefix string) {
	var webhookURL string
	if level <= LevelError {
		webhookURL = l.errorWebhookURL
	} else {
		webhookURL = l.logsWebhookURL
	}
	if webhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
				"description": fmt.Sprintf("```%s```", message),
				"color":       level.DiscordColor(),
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
				"footer": map[string]string{
					"text": "💫 PancyStudios | PancyGuard Go",
				},
			},
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(webhookURL, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return
	}
	resp.Body.Close()
}

// Close closes the log files
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.errorFile != nil {
		l.errorFile.Close()
	}
}

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix)
}

// Package-level wrappers over the global logger

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}
