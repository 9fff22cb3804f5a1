// Package logging builds the command-line logger: a console core teed with
// a JSON core writing to a rotating file.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is the minimum level: debug, info, warn or error. Default info.
	Level string

	// Console receives human-readable output. Default os.Stderr.
	Console io.Writer

	// Color enables coloured level names on the console.
	Color bool

	// File enables JSON file logging when File.Path is set.
	File FileConfig
}

// Logger wraps a zap logger together with the file it writes to.
type Logger struct {
	zap     *zap.Logger
	level   zapcore.Level
	file    *lumberjack.Logger
	console io.Writer
}

// New builds a Logger from opts.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	encCfg := NewConsoleEncoderConfig()
	if !opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(console), level),
	}

	var file *lumberjack.Logger
	if opts.File.Path != "" {
		file = newFileWriter(opts.File)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(NewEncoderConfig()),
			zapcore.AddSync(file),
			level,
		))
	}

	l := NewWithCore(zapcore.NewTee(cores...), level)
	l.file = file
	l.console = console
	return l, nil
}

// NewWithCore wraps an existing core. Tests pass an observer core.
func NewWithCore(core zapcore.Core, level zapcore.Level) *Logger {
	return &Logger{
		zap:     zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		level:   level,
		console: io.Discard,
	}
}

// ParseLevel parses a level name. The empty string is info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return level, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

// Zap returns the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Slog returns a slog logger for the library. With a log file it writes
// JSON lines into the same rotating file; otherwise text to the console.
func (l *Logger) Slog() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(l.level)}
	if l.file != nil {
		return slog.New(slog.NewJSONHandler(l.file, opts))
	}
	return slog.New(slog.NewTextHandler(l.console, opts))
}

func slogLevel(level zapcore.Level) slog.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return slog.LevelDebug
	case level == zapcore.InfoLevel:
		return slog.LevelInfo
	case level == zapcore.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.zap.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.zap.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	c := *l
	c.zap = l.zap.With(fields...)
	return &c
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	err := l.zap.Sync()
	// Syncing a terminal fails with EINVAL or ENOTTY on most platforms.
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return nil
	}
	return err
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	err := l.Sync()
	if l.file != nil {
		err = errors.Join(err, l.file.Close())
	}
	return err
}
