package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Service string
	Mode    string
	// File enables rotation through lumberjack when set.
	File  string
	Level slog.Level
}

// Setup installs a JSON slog handler as the default logger and bridges the
// standard library logger into it.
func Setup(cfg Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if file := strings.TrimSpace(cfg.File); file != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(cfg.Service))}
	if mode := strings.TrimSpace(cfg.Mode); mode != "" {
		attrs = append(attrs, slog.String("mode", mode))
	}
	withAttrs := handler.WithAttrs(attrs)

	logger := slog.New(withAttrs)
	slog.SetDefault(logger)

	bridge := slog.NewLogLogger(withAttrs, slog.LevelInfo)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger
}
