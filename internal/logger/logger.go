// Package logger configures the zap logger shared by the appearances
// commands. Library packages take a *zap.Logger option instead of using it.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process logger. It discards everything until Init runs.
var Log = zap.NewNop()

// FileConfig controls the rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns rotation settings for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Setup describes where log entries go.
type Setup struct {
	Level   string     // debug, info, warn or error; empty means info
	Console io.Writer  // nil disables console output
	File    FileConfig // empty Path disables file output
}

// Init logs to stderr, and to logFile as well when it is set. Stdout is
// left to command output.
func Init(level, logFile string) error {
	s := Setup{Level: level, Console: os.Stderr}
	if logFile != "" {
		s.File = DefaultFileConfig(logFile)
	}
	return Apply(s)
}

// Apply replaces Log with a logger built from s.
func Apply(s Setup) error {
	lvl, err := parseLevel(s.Level)
	if err != nil {
		return err
	}

	var cores []zapcore.Core
	if s.Console != nil {
		enc := zapcore.NewConsoleEncoder(encoderConfig(false))
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(s.Console)), lvl))
	}
	if s.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   s.File.Path,
			MaxSize:    s.File.MaxSizeMB,
			MaxBackups: s.File.MaxBackups,
			MaxAge:     s.File.MaxAgeDays,
			Compress:   s.File.Compress,
			LocalTime:  true,
		}
		enc := zapcore.NewConsoleEncoder(encoderConfig(true))
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

// encoderConfig returns the console layout. File entries carry full
// timestamps and callers; terminal entries are short and colored.
func encoderConfig(file bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	if file {
		cfg.CallerKey = "caller"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
	} else {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Named returns a child logger for one component, e.g. "compiler".
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// Info logs a command-level message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a command-level warning.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}
