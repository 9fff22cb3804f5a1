package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/history"
	"github.com/gogpu/multibrot/sink"
)

type benchOptions struct {
	count int
	step  float64
	save  bool
}

// runBench renders count images, stepping the imaginary part of the
// exponent by step from its configured value, and times each render.
func runBench(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts := benchOptions{count: 3, step: 0.001}
	a, err := newApp(ctx, "bench", args, stdout, stderr, func(fs *flag.FlagSet) {
		fs.IntVar(&opts.count, "count", opts.count, "Number of renders")
		fs.Float64Var(&opts.step, "step", opts.step, "Exponent imaginary step between renders")
		fs.BoolVar(&opts.save, "save", opts.save, "Write each image to the output directory")
	})
	if err != nil {
		return err
	}
	defer a.close()

	if opts.count < 1 {
		return fmt.Errorf("bench: count must be at least 1, got %d", opts.count)
	}
	base, err := a.settings.Config()
	if err != nil {
		return err
	}

	times := make([]time.Duration, 0, opts.count)
	for i := range opts.count {
		cfg := base
		cfg.Exponent = complex(real(base.Exponent), imag(base.Exponent)+float64(i)*opts.step)

		d, err := a.benchOne(ctx, cfg, opts.save)
		if err != nil {
			return err
		}
		times = append(times, d)
		fmt.Fprintf(stdout, "Time: %.2f seconds\n", d.Seconds())
	}

	printBenchSummary(stdout, base, times)
	return nil
}

func (a *app) benchOne(ctx context.Context, cfg multibrot.Config, save bool) (time.Duration, error) {
	id := uuid.New()
	log := a.log.With(zap.Stringer("render_id", id))

	path := ""
	if save {
		var err error
		if path, err = a.outputPath(cfg); err != nil {
			return 0, err
		}
	}

	start := time.Now()
	var err error
	if save {
		err = renderTo(ctx, cfg, path)
	} else {
		err = multibrot.Render(ctx, cfg, sink.Discard())
	}
	d := time.Since(start)

	e := history.NewEntry(cfg, path, start, d, err)
	e.ID = id
	a.record(ctx, e)

	if err != nil {
		log.Error("bench render failed", zap.Error(err))
		return d, err
	}
	log.Debug("bench render", zap.Duration("duration", d), zap.String("exponent", fmt.Sprint(cfg.Exponent)))
	return d, nil
}

type benchSummary struct {
	min, mean, max time.Duration
	mpixels        float64
}

func summarize(cfg multibrot.Config, times []time.Duration) benchSummary {
	var total time.Duration
	for _, d := range times {
		total += d
	}
	s := benchSummary{
		min:  slices.Min(times),
		max:  slices.Max(times),
		mean: total / time.Duration(len(times)),
	}
	if s.mean > 0 {
		s.mpixels = float64(cfg.Width*cfg.Height) / s.mean.Seconds() / 1e6
	}
	return s
}

func printBenchSummary(w io.Writer, cfg multibrot.Config, times []time.Duration) {
	s := summarize(cfg, times)
	p := message.NewPrinter(language.English)

	color.New(color.FgCyan, color.Bold).Fprintln(w,
		p.Sprintf("%d renders of %d×%d (%d pixels, %d workers)",
			len(times), cfg.Width, cfg.Height, cfg.Width*cfg.Height, cfg.Workers))
	p.Fprintf(w, "  min   %8.3fs\n", s.min.Seconds())
	p.Fprintf(w, "  mean  %8.3fs\n", s.mean.Seconds())
	p.Fprintf(w, "  max   %8.3fs\n", s.max.Seconds())
	color.New(color.FgGreen).Fprintln(w, p.Sprintf("  rate  %8.2f Mpixel/s", s.mpixels))
}
