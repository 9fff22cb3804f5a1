package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/history"
	"github.com/gogpu/multibrot/internal/logging"
	"github.com/gogpu/multibrot/internal/preset"
	"github.com/gogpu/multibrot/sink"
)

// errUsage marks command-line errors already reported by the flag set.
var errUsage = errors.New("usage")

// app holds what every subcommand shares: settings, logger and ledger.
type app struct {
	settings preset.Settings
	log      *logging.Logger
	history  *history.Store

	stdout, stderr io.Writer
}

// newApp loads settings for the named subcommand and parses its flags.
// extra registers subcommand-specific flags.
func newApp(ctx context.Context, name string, args []string, stdout, stderr io.Writer, extra func(*flag.FlagSet)) (*app, error) {
	src := scanSources(args)
	s, err := preset.Load(src)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("multibrot "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	s.RegisterFlags(fs)
	fs.String("preset", src.Preset, "YAML preset file")
	fs.String("env", src.EnvFile, "Environment file")
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "multibrot %s: unexpected argument %q\n", name, fs.Arg(0))
		return nil, errUsage
	}

	log, err := logging.New(logging.Options{
		Level:   s.LogLevel,
		Console: stderr,
		Color:   !color.NoColor,
		File:    logging.DefaultFileConfig(s.LogFile),
	})
	if err != nil {
		return nil, err
	}
	multibrot.SetLogger(log.Slog())

	a := &app{settings: s, log: log, stdout: stdout, stderr: stderr}
	if s.HistoryDB != "" {
		a.history, err = history.Open(ctx, s.HistoryDB)
		if err != nil {
			a.close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn("close history", zap.Error(err))
		}
	}
	multibrot.SetLogger(nil)
	_ = a.log.Close()
}

// scanSources finds -env and -preset ahead of flag parsing, since the
// files they name must be applied before the flags themselves.
func scanSources(args []string) preset.Sources {
	src := preset.Sources{EnvFile: ".env"}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "env" && name != "preset" {
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				break
			}
			i++
			value = args[i]
		}
		if name == "env" {
			src.EnvFile = value
		} else {
			src.Preset = value
		}
	}
	return src
}

// outputPath returns the file path for cfg, creating the output directory.
func (a *app) outputPath(cfg multibrot.Config) (string, error) {
	dir := a.settings.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return filepath.Join(dir, outputName(cfg, a.settings.Extension())), nil
}

// outputName encodes the render parameters in a file name.
func outputName(cfg multibrot.Config, ext string) string {
	return fmt.Sprintf("multibrot_%dx%d_c%.4f%+.4fi_s%.2e_e%.2e%+.2ei%s",
		cfg.Width, cfg.Height,
		real(cfg.Center), imag(cfg.Center),
		cfg.Scale,
		real(cfg.Exponent), imag(cfg.Exponent),
		ext)
}

// renderTo renders cfg into the file at path. PPM output streams; every
// other format goes through sink.File.
func renderTo(ctx context.Context, cfg multibrot.Config, path string, opts ...multibrot.RenderOption) error {
	if !strings.EqualFold(filepath.Ext(path), ".ppm") {
		s, err := sink.File(path)
		if err != nil {
			return err
		}
		return multibrot.Render(ctx, cfg, s, opts...)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = multibrot.Render(ctx, cfg, sink.PPM(f), opts...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

// record appends a render to the ledger when it is enabled. Failures are
// logged, never returned: a broken ledger must not fail a render.
func (a *app) record(ctx context.Context, e history.Entry) {
	if a.history == nil {
		return
	}
	if err := a.history.Record(ctx, e); err != nil {
		a.log.Warn("record render", zap.Error(err), zap.Stringer("render_id", e.ID))
	}
}

func configFields(cfg multibrot.Config) []zap.Field {
	return []zap.Field{
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float64("scale", cfg.Scale),
		zap.String("center", fmt.Sprint(cfg.Center)),
		zap.String("exponent", fmt.Sprint(cfg.Exponent)),
		zap.Int("workers", cfg.Workers),
		zap.Int("depth", cfg.Depth),
		zap.Int("bit_depth", int(cfg.BitDepth)),
		zap.Stringer("branch_cut", cfg.BranchCut),
	}
}

func since(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
