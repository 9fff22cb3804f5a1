package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/history"
)

func runRender(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var progress bool
	a, err := newApp(ctx, "render", args, stdout, stderr, func(fs *flag.FlagSet) {
		fs.BoolVar(&progress, "progress", false, "Report rows written on stderr")
	})
	if err != nil {
		return err
	}
	defer a.close()

	cfg, err := a.settings.Config()
	if err != nil {
		return err
	}
	path, err := a.outputPath(cfg)
	if err != nil {
		return err
	}

	id := uuid.New()
	log := a.log.With(zap.Stringer("render_id", id), zap.String("output", path))
	log.Info("render started", configFields(cfg)...)
	fmt.Fprintf(stdout, "Output Filename: %s\n", path)

	var stats multibrot.Stats
	opts := []multibrot.RenderOption{multibrot.WithStats(&stats)}
	if progress {
		opts = append(opts, multibrot.WithProgress(progressReporter(stderr)))
	}

	start := time.Now()
	err = renderTo(ctx, cfg, path, opts...)
	d := since(start)

	e := history.NewEntry(cfg, path, start, d, err)
	e.ID = id
	a.record(ctx, e)

	if err != nil {
		log.Error("render failed", zap.Error(err), zap.Duration("duration", d))
		return err
	}
	log.Info("render finished",
		zap.Duration("duration", d),
		zap.Int("rows", stats.Rows),
		zap.Int64("bytes", stats.Bytes),
		zap.Int("peak_pending", stats.PeakPending),
	)
	return nil
}

// progressReporter prints whole-percent steps on one terminal line.
func progressReporter(w io.Writer) func(done, total int) {
	last := -1
	return func(done, total int) {
		pct := done * 100 / total
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(w, "\rrows %d/%d (%d%%)", done, total, pct)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
