package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig controls log file rotation.
type FileConfig struct {
	// Path of the active log file. Empty disables file logging.
	Path string

	// MaxSizeMB is the size at which the file is rotated. Default 100.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept. Default 5.
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept. Default 30.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// DefaultFileConfig returns the rotation defaults for path.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
		Compress:   true,
	}
}

func (c *FileConfig) applyDefaults() {
	def := DefaultFileConfig(c.Path)
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = def.MaxSizeMB
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = def.MaxBackups
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = def.MaxAgeDays
	}
}

// newFileWriter returns a rotating writer for cfg. The file is opened
// lazily on the first write.
func newFileWriter(cfg FileConfig) *lumberjack.Logger {
	cfg.applyDefaults()
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}
