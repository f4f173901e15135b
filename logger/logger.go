package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// LogFileEnv overrides the configured outputs with a single log file when set,
// so the routing daemon can be redirected without touching its config.
const LogFileEnv = "VOICEROUTE_LOGFILE"

var (
	globalLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	once         sync.Once
)

type Config struct {
	Level   string   `json:"level" yaml:"level"`     // debug/info/warn/error
	Outputs []string `json:"outputs" yaml:"outputs"` // stderr/stdout/file path
}

func Init(cfg Config) error {
	var initErr error
	once.Do(func() {
		level := slog.LevelInfo
		switch cfg.Level {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		outputs := cfg.Outputs
		if path := os.Getenv(LogFileEnv); path != "" {
			outputs = []string{path}
		}

		var writers []io.Writer
		for _, output := range outputs {
			switch output {
			case "", "stderr":
				writers = append(writers, os.Stderr)
			case "stdout":
				writers = append(writers, os.Stdout)
			default:
				if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
					initErr = err
					return
				}
				file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					initErr = err
					return
				}
				writers = append(writers, file)
			}
		}

		// Faults and lifecycle events go to stderr unless told otherwise.
		if len(writers) == 0 {
			writers = append(writers, os.Stderr)
		}

		globalLogger = slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
			Level: level,
		}))
	})
	return initErr
}

func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

func Logger() *slog.Logger {
	return globalLogger
}
