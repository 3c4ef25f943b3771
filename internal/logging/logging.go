package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/blackwell-systems/movdb-bootstrap/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Apply sets the global logger: console on stdout plus a rotating file under cfg.Dir,
// each filtered at its own level.
func Apply(cfg config.LogConfig) {
	log.Logger = New(cfg, os.Stdout)
}

// New builds a logger writing to console and to the rotating log file.
// If the log directory cannot be created, it logs to console only.
func New(cfg config.LogConfig, console io.Writer) zerolog.Logger {
	consoleLevel := ParseLevel(cfg.ConsoleLevel)
	fileLevel := ParseLevel(cfg.FileLevel)

	zerolog.SetGlobalLevel(min(consoleLevel, fileLevel))

	consoleOutput := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: console, TimeFormat: timeFormat}},
		Level:  consoleLevel,
	}
	logger := zerolog.New(consoleOutput).With().Timestamp().Logger()

	logFilePath := filepath.Join(cfg.Dir, cfg.FileName)
	if err := ensureLogDir(logFilePath); err != nil {
		zerolog.SetGlobalLevel(consoleLevel)
		logger.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return logger
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    maxSizeMB(cfg.FileMaxBytes),
		MaxBackups: cfg.FileBackupCount,
	}

	fileOutput := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        fileWriter,
			TimeFormat: timeFormat,
			NoColor:    true,
		}},
		Level: fileLevel,
	}

	multi := zerolog.MultiLevelWriter(consoleOutput, fileOutput)
	return zerolog.New(multi).With().Timestamp().Logger()
}

// ParseLevel accepts the level names used by the LOG_*_LEVEL variables. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "CRITICAL", "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// maxSizeMB converts a byte budget to lumberjack's megabyte unit, rounding up.
// Zero keeps lumberjack's default.
func maxSizeMB(bytes int) int {
	if bytes <= 0 {
		return 0
	}
	const mb = 1024 * 1024
	return (bytes + mb - 1) / mb
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
