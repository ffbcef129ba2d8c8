// Package logger configures the process-wide zerolog logger used by the API and the admin CLI.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is one of debug, info, warn, error or fatal
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// FileConfig configures the rotating file sink. An empty Path disables it.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Config controls where and how entries are written
type Config struct {
	Level LogLevel
	// Pretty switches stdout to the human-readable console format
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
	File   FileConfig
}

var base zerolog.Logger

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}

// Configure rebuilds the global logger. zerolog's log.Logger is replaced too, so packages
// that log through it share the same sinks.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if cfg.File.Path != "" {
		// file entries stay JSON
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   true,
		})
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	base = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = base
}

// ParseLevel maps level to a zerolog level. Unknown or empty levels mean info.
func ParseLevel(level LogLevel) zerolog.Level {
	switch l, err := zerolog.ParseLevel(string(level)); {
	case err != nil, l == zerolog.NoLevel, l < zerolog.DebugLevel, l > zerolog.FatalLevel:
		return zerolog.InfoLevel
	default:
		return l
	}
}

func Info() *zerolog.Event  { return base.Info() }
func Warn() *zerolog.Event  { return base.Warn() }
func Error() *zerolog.Event { return base.Error() }

// WithField returns a child logger carrying key=value
func WithField(key string, value interface{}) zerolog.Logger {
	return base.With().Interface(key, value).Logger()
}
