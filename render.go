package multibrot

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/multibrot/internal/palette"
	"github.com/gogpu/multibrot/internal/parallel"
	"github.com/gogpu/multibrot/internal/scanline"
)

// Render computes the image described by cfg and delivers it to sink.
//
// cfg is validated before anything else; an invalid cfg returns a
// *RenderError at StageConfig wrapping a *ConfigError, and sink is not
// touched. Otherwise Render runs cfg.Workers row workers and one writer, and
// returns nil once Finish succeeded. Any other failure, including
// cancellation of ctx, returns a *RenderError naming the stage and, when
// known, the row. After a failure the sink never receives another row and,
// if it implements Aborter, is asked to discard the incomplete image.
//
// The rows delivered to sink are identical for every worker count.
func Render(ctx context.Context, cfg Config, sink Sink, opts ...RenderOption) error {
	o := defaultRenderOptions(cfg)
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	stats := Stats{}
	defer func() {
		if o.stats != nil {
			stats.Duration = time.Since(start)
			*o.stats = stats
		}
	}()

	if sink == nil {
		return &RenderError{Stage: StageConfig, Row: -1, Err: ErrNilSink}
	}
	if err := cfg.Validate(); err != nil {
		return &RenderError{Stage: StageConfig, Row: -1, Err: err}
	}

	log := Logger()
	log.Info("multibrot: render started",
		"width", cfg.Width,
		"height", cfg.Height,
		"scale", cfg.Scale,
		"center", cfg.Center,
		"exponent", cfg.Exponent,
		"workers", cfg.Workers,
		"depth", cfg.Depth,
		"bit_depth", int(cfg.BitDepth),
		"branch_cut", cfg.BranchCut.String(),
	)

	if err := sink.Begin(cfg.Header()); err != nil {
		return abort(sink, &RenderError{Stage: StageSink, Row: -1, Err: err})
	}

	rows := scanline.New(cfg.mapper(), cfg.evaluator(), palette.Depth(cfg.BitDepth), cfg.Width)
	buffers := parallel.NewRowBufferPool(rows.RowBytes())
	pool := parallel.NewWorkerPool(cfg.Workers, buffers, rows.RenderInto)
	jobs := parallel.NewJobSource(cfg.Height, cfg.Workers)
	results := make(chan parallel.RowResult, o.resultBuffer)

	writer := parallel.NewWriter(parallel.WriterConfig{
		Height:   cfg.Height,
		RowBytes: rows.RowBytes(),
		Emit: func(_ int, data []byte) error {
			if err := sink.WriteRow(data); err != nil {
				return err
			}
			stats.Rows++
			stats.Bytes += int64(len(data))
			return nil
		},
		Release:  buffers.Put,
		Progress: o.progress,
	})

	log.Debug("multibrot: pipeline starting",
		"workers", pool.Workers(),
		"row_bytes", rows.RowBytes(),
		"result_buffer", o.resultBuffer,
	)

	g, gctx := errgroup.WithContext(ctx)
	pool.Start(gctx, g, jobs, results)
	g.Go(func() error {
		return writer.Run(gctx, results)
	})
	err := g.Wait()

	stats.PeakPending = writer.PeakPending()
	stats.RowsPerWorker = pool.Rendered()
	log.Debug("multibrot: pipeline stopped",
		"rows_per_worker", stats.RowsPerWorker,
		"peak_pending", stats.PeakPending,
	)

	if err != nil {
		return abort(sink, pipelineError(err))
	}
	if err := sink.Finish(); err != nil {
		return abort(sink, &RenderError{Stage: StageSink, Row: -1, Err: err})
	}

	log.Info("multibrot: render finished",
		"rows", stats.Rows,
		"bytes", stats.Bytes,
		"duration", time.Since(start),
	)
	return nil
}

// abort asks sink to discard its incomplete image and returns rerr.
func abort(sink Sink, rerr *RenderError) error {
	log := Logger()
	log.Info("multibrot: render failed", "stage", string(rerr.Stage), "row", rerr.Row, "error", rerr.Err)

	a, ok := sink.(Aborter)
	if !ok {
		return rerr
	}
	if err := a.Abort(); err != nil {
		log.Warn("multibrot: sink abort failed", "error", err)
	}
	return rerr
}
