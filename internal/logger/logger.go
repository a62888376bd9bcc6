// Package logger configures the process-wide slog logger. Both the collector
// and the simulator log through it, so every line names the service it came
// from.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config mirrors config.LogConfig; kept separate so this package does not
// depend on the config loader.
type Config struct {
	Service    string
	Level      string
	Format     string
	OutputPath string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

var root *slog.Logger

// Initialize builds the process logger. With an OutputPath set, lines go to
// stdout and a size-rotated file; otherwise stdout only.
func Initialize(cfg Config) error {
	writer, err := buildWriter(cfg)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	log := slog.New(handler)
	if cfg.Service != "" {
		log = log.With(slog.String("service", cfg.Service))
	}

	root = log
	slog.SetDefault(root)
	return nil
}

func buildWriter(cfg Config) (io.Writer, error) {
	if cfg.OutputPath == "" {
		return os.Stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return nil, err
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.OutputPath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return io.MultiWriter(os.Stdout, rotated), nil
}

// Get returns the configured logger, or slog's default before Initialize.
func Get() *slog.Logger {
	if root == nil {
		return slog.Default()
	}
	return root
}

func parseLevel(level string) slog.Level {
	switch level {
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
