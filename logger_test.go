package multibrot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogs routes library logging into a JSON buffer for the test.
func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	return &buf
}

// records decodes one JSON log record per line.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line %q is not JSON: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

// =============================================================================
// Default Logger Tests
// =============================================================================

func TestLogger_DefaultSilent(t *testing.T) {
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("default logger enabled at %v", level)
		}
	}
	h := nopHandler{}
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("row", 1)}).(nopHandler); !ok {
		t.Error("WithAttrs() left the nop handler")
	}
	if _, ok := h.WithGroup("render").(nopHandler); !ok {
		t.Error("WithGroup() left the nop handler")
	}
}

func TestSetLogger_NilRestoresSilence(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)
	SetLogger(nil)

	if err := Render(context.Background(), smallConfig(2), &memSink{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("silenced logger wrote %q", buf.String())
	}
}

// =============================================================================
// Render Logging Tests
// =============================================================================

func TestRender_LogsLifecycle(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	cfg := smallConfig(3)
	if err := Render(context.Background(), cfg, &memSink{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	recs := records(t, buf)
	want := []string{
		"multibrot: render started",
		"multibrot: pipeline starting",
		"multibrot: pipeline stopped",
		"multibrot: render finished",
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d:\n%s", len(recs), len(want), buf)
	}
	for i, msg := range want {
		if recs[i]["msg"] != msg {
			t.Errorf("record %d = %q, want %q", i, recs[i]["msg"], msg)
		}
	}
	if recs[0]["width"] != float64(cfg.Width) || recs[0]["branch_cut"] != "exponent" {
		t.Errorf("start record = %v", recs[0])
	}
	if recs[3]["rows"] != float64(cfg.Height) {
		t.Errorf("finish record = %v", recs[3])
	}
}

func TestRender_InfoHidesPipelineDetail(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)
	if err := Render(context.Background(), smallConfig(2), &memSink{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "pipeline") {
		t.Errorf("debug records at info level:\n%s", buf)
	}
}

func TestRender_LogsFailureAndAbortWarning(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	s := &memSink{failRow: 5, failErr: errors.New("disk full"), abortErr: errors.New("cannot remove")}
	if err := Render(context.Background(), smallConfig(2), s); err == nil {
		t.Fatal("Render() succeeded")
	}

	var failed, warned bool
	for _, rec := range records(t, buf) {
		switch rec["msg"] {
		case "multibrot: render failed":
			failed = rec["stage"] == string(StageSink) && rec["row"] == float64(5)
		case "multibrot: sink abort failed":
			warned = rec["level"] == "WARN"
		}
	}
	if !failed || !warned {
		t.Errorf("failure logged = %v, abort warning = %v:\n%s", failed, warned, buf)
	}
}

func TestLogger_ConcurrentSwap(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = Render(context.Background(), smallConfig(2), &memSink{})
		}()
		go func() {
			defer wg.Done()
			SetLogger(slog.New(slog.DiscardHandler))
			SetLogger(nil)
		}()
	}
	wg.Wait()
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("multibrot: row flushed", "row", 1)
	}
}
