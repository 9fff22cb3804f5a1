package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"ERROR", zapcore.ErrorLevel, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Error("New() accepted an unknown level")
	}
}

// =============================================================================
// Observer Tests
// =============================================================================

func TestLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core, zapcore.InfoLevel)

	l.Debug("hidden")
	l.With(zap.String("render_id", "abc")).Info("render finished", zap.Int("rows", 150))
	l.Warn("slow")

	if logs.Len() != 2 {
		t.Fatalf("got %d entries, want 2", logs.Len())
	}
	e := logs.All()[0]
	if e.Message != "render finished" || e.Level != zapcore.InfoLevel {
		t.Errorf("entry = %q at %v", e.Message, e.Level)
	}
	ctx := e.ContextMap()
	if ctx["render_id"] != "abc" || ctx["rows"] != int64(150) {
		t.Errorf("context = %v", ctx)
	}
	if logs.FilterMessage("slow").Len() != 1 {
		t.Error("warn entry missing")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   zapcore.Level
		want string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.FatalLevel, "ERROR"},
	}
	for _, tt := range tests {
		if got := slogLevel(tt.in).String(); got != tt.want {
			t.Errorf("slogLevel(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Output Tests
// =============================================================================

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	l, err := New(Options{Level: "debug", Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("hello", zap.String("k", "v"))
	l.Slog().Debug("from library", "row", 3)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	out := console.String()
	for _, want := range []string{"INFO", "hello", `"k": "v"`, "from library", "row=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestNew_FileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "multibrot.log")
	var console bytes.Buffer
	l, err := New(Options{Level: "info", Console: &console, File: FileConfig{Path: path}})
	if err != nil {
		t.Fatal(err)
	}

	l.Info("cli line", zap.Int("workers", 4))
	l.Slog().Info("library line", "rows", 150)
	l.Slog().Debug("filtered")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log file has %d lines, want 2:\n%s", len(lines), data)
	}

	var cli map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &cli); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if cli["message"] != "cli line" || cli["level"] != "info" || cli["workers"] != float64(4) {
		t.Errorf("cli line = %v", cli)
	}

	var lib map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &lib); err != nil {
		t.Fatalf("second line is not JSON: %v", err)
	}
	if lib["msg"] != "library line" || lib["rows"] != float64(150) {
		t.Errorf("library line = %v", lib)
	}

	if strings.Contains(console.String(), "library line") {
		t.Error("library records reached the console")
	}
}

func TestFileConfig_Defaults(t *testing.T) {
	w := newFileWriter(FileConfig{Path: "x.log", MaxBackups: 2})
	if w.MaxSize != 100 || w.MaxBackups != 2 || w.MaxAge != 30 {
		t.Errorf("writer = %+v", w)
	}
}
