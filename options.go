package multibrot

import "time"

// RenderOption configures a single Render call.
//
// Example:
//
//	var stats multibrot.Stats
//	err := multibrot.Render(ctx, cfg, out,
//	    multibrot.WithStats(&stats),
//	    multibrot.WithProgress(func(done, total int) { bar.Set(done) }),
//	)
type RenderOption func(*renderOptions)

// renderOptions holds the optional settings of one render.
type renderOptions struct {
	progress     func(done, total int)
	stats        *Stats
	resultBuffer int
}

// defaultRenderOptions returns the options used when none are given.
func defaultRenderOptions(cfg Config) renderOptions {
	return renderOptions{
		resultBuffer: cfg.Height, // workers never block on hand-off
	}
}

// WithProgress registers fn to be called after each row reaches the sink.
// fn runs on the writer goroutine and should return quickly.
func WithProgress(fn func(done, total int)) RenderOption {
	return func(o *renderOptions) {
		o.progress = fn
	}
}

// WithStats makes Render fill s before it returns, on success and failure.
func WithStats(s *Stats) RenderOption {
	return func(o *renderOptions) {
		o.stats = s
	}
}

// WithResultBuffer sets the capacity of the channel between workers and the
// writer. Values below 1 are ignored.
func WithResultBuffer(n int) RenderOption {
	return func(o *renderOptions) {
		if n >= 1 {
			o.resultBuffer = n
		}
	}
}

// Stats describes a finished render.
type Stats struct {
	// Rows is the number of rows delivered to the sink.
	Rows int

	// Bytes is the number of pixel bytes delivered to the sink.
	Bytes int64

	// PeakPending is the largest number of finished rows held back
	// waiting for an earlier row.
	PeakPending int

	// RowsPerWorker counts the rows each worker rendered.
	RowsPerWorker []int64

	// Duration is the wall time of the render, sink included.
	Duration time.Duration
}
