package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New builds a JSON logger tagged with the replica id. Unknown levels map to info.
func New(w io.Writer, level string, replicaID string) *slog.Logger {
	logLevel, ok := logLevelMapping[strings.ToLower(level)]
	if !ok {
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})).With("replica_id", replicaID)
}

// Init installs a stdout logger as the slog default.
func Init(level string, replicaID string) {
	slog.SetDefault(New(os.Stdout, level, replicaID))
}
