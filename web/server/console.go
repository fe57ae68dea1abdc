package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage is one renderer log line streamed to the browser console
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning" or "error"
}

// WebLogger forwards renderer output to the server log and to a render's console stream.
// Sends never block: when the stream falls behind, console lines are dropped but still logged.
type WebLogger struct {
	renderID    string
	logger      *slog.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one render. consoleChan may be nil.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		logger:      slog.Default().With("render", renderID),
		consoleChan: consoleChan,
	}
}

// Printf logs a renderer message at the level its wording implies
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.log(messageLevel(message), message)
}

// Errorf logs at error level
func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.log(slog.LevelError, fmt.Sprintf(format, args...))
}

func (wl *WebLogger) log(level slog.Level, message string) {
	message = strings.TrimRight(message, "\n")
	wl.logger.Log(context.Background(), level, message)

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     levelName(level),
	}:
	default:
	}
}

// messageLevel classifies free-form renderer output
func messageLevel(message string) slog.Level {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed") || strings.Contains(lower, "panic"):
		return slog.LevelError
	case strings.Contains(lower, "cancelled"):
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
