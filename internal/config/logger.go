package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logLevel is shared by every logger built here so a config reload can retune it
var logLevel = new(slog.LevelVar)

// InitLogger initializes the application logger based on configuration
func InitLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	return newLogger(cfg, nil)
}

// InitConsoleLogger builds a logger that writes to w instead of the log file.
// Used by commands that do not own the terminal.
func InitConsoleLogger(cfg *LoggingConfig, w io.Writer) (*slog.Logger, error) {
	return newLogger(cfg, w)
}

func newLogger(cfg *LoggingConfig, console io.Writer) (*slog.Logger, error) {
	SetLogLevel(cfg.Level)

	writer := console
	if writer == nil {
		if cfg.File == "" {
			cfg.File = filepath.Join(GetStateDir(), appName+".log")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writer = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize, // megabytes
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		if cfg.Color && console != nil {
			handler = NewColoredTextHandler(writer, opts)
		} else {
			handler = slog.NewTextHandler(writer, opts)
		}
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}

// SetLogLevel changes the level of all loggers created by InitLogger
func SetLogLevel(level string) {
	logLevel.Set(parseLogLevel(level))
}

var levelStyles = map[slog.Level]lipgloss.Style{
	slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("#767676")),
	slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("#42be65")),
	slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ee5396")),
	slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5252")).Bold(true),
}

// ColoredTextHandler renders records like slog.TextHandler and colors the level
type ColoredTextHandler struct {
	handler slog.Handler
	writer  io.Writer
	mu      *sync.Mutex
	buf     *strings.Builder
}

// NewColoredTextHandler creates a new handler that adds colors for console output
func NewColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredTextHandler {
	buf := &strings.Builder{}
	return &ColoredTextHandler{
		handler: slog.NewTextHandler(buf, opts),
		writer:  w,
		mu:      &sync.Mutex{},
		buf:     buf,
	}
}

// Handle implements slog.Handler
func (h *ColoredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()
	if err := h.handler.Handle(ctx, r); err != nil {
		return err
	}

	line := h.buf.String()
	tag := "level=" + r.Level.String()
	if style, ok := levelStyles[r.Level]; ok {
		line = strings.Replace(line, tag, style.Render(tag), 1)
	}

	_, err := io.WriteString(h.writer, line)
	return err
}

// WithAttrs implements slog.Handler
func (h *ColoredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColoredTextHandler{handler: h.handler.WithAttrs(attrs), writer: h.writer, mu: h.mu, buf: h.buf}
}

// WithGroup implements slog.Handler
func (h *ColoredTextHandler) WithGroup(name string) slog.Handler {
	return &ColoredTextHandler{handler: h.handler.WithGroup(name), writer: h.writer, mu: h.mu, buf: h.buf}
}

// Enabled implements slog.Handler
func (h *ColoredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// parseLogLevel parses a log level string
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
