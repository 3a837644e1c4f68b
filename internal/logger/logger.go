package logger

import (
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Init installs a JSON slog handler on stdout as the process default.
func Init(level string) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", "level", strings.ToLower(level))
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, fields map[string]any) {
	slog.Default().Debug(msg, args(fields)...)
}

func Info(msg string, fields map[string]any) {
	slog.Default().Info(msg, args(fields)...)
}

func Warn(msg string, fields map[string]any) {
	slog.Default().Warn(msg, args(fields)...)
}

func Error(msg string, fields map[string]any) {
	slog.Default().Error(msg, args(fields)...)
}

// args flattens fields in key order so output is stable.
func args(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}
