package parallel

import "context"

// Reassembler restores row order. It holds rows that arrived ahead of the
// next row to emit and releases them as soon as the gap before them closes.
//
// Invariant: every slot below Next is empty, and a slot is filled at most
// once.
//
// Thread safety: Reassembler is NOT safe for concurrent use; it belongs to
// the single writer goroutine.
type Reassembler struct {
	rows    [][]byte
	next    int
	pending int
	peak    int
}

// NewReassembler creates a Reassembler for height rows.
func NewReassembler(height int) *Reassembler {
	return &Reassembler{rows: make([][]byte, height)}
}

// Put stores a row. It fails if the row index is out of range, or if the row
// is already buffered or was already emitted.
func (r *Reassembler) Put(res RowResult) error {
	if res.Row < 0 || res.Row >= len(r.rows) {
		return &Error{Stage: StageWriter, Row: res.Row, Err: ErrRowOutOfRange}
	}
	if res.Row < r.next || r.rows[res.Row] != nil {
		return &Error{Stage: StageWriter, Row: res.Row, Err: ErrDuplicateRow}
	}
	if res.Data == nil {
		res.Data = []byte{}
	}
	r.rows[res.Row] = res.Data
	r.pending++
	r.peak = max(r.peak, r.pending)
	return nil
}

// Pop removes and returns the row at Next if it has arrived.
func (r *Reassembler) Pop() (row int, data []byte, ok bool) {
	if r.next >= len(r.rows) || r.rows[r.next] == nil {
		return r.next, nil, false
	}
	row, data = r.next, r.rows[r.next]
	r.rows[row] = nil
	r.pending--
	r.next++
	return row, data, true
}

// Flush emits every buffered row starting at Next until the first gap.
// Each emitted slot is cleared and passed to release after emit returns,
// whether emit succeeded or not. It returns the number of rows emitted.
func (r *Reassembler) Flush(emit func(row int, data []byte) error, release func([]byte)) (int, error) {
	n := 0
	for {
		row, data, ok := r.Pop()
		if !ok {
			return n, nil
		}
		err := emit(row, data)
		if release != nil {
			release(data)
		}
		if err != nil {
			return n, &Error{Stage: StageSink, Row: row, Err: err}
		}
		n++
	}
}

// Discard releases every buffered row without emitting it.
func (r *Reassembler) Discard(release func([]byte)) {
	for i := r.next; i < len(r.rows); i++ {
		if r.rows[i] == nil {
			continue
		}
		if release != nil {
			release(r.rows[i])
		}
		r.rows[i] = nil
	}
	r.pending = 0
}

// Next returns the index of the next row to emit.
func (r *Reassembler) Next() int {
	return r.next
}

// Done reports whether every row has been emitted.
func (r *Reassembler) Done() bool {
	return r.next == len(r.rows)
}

// Pending returns the number of rows buffered ahead of Next.
func (r *Reassembler) Pending() int {
	return r.pending
}

// Peak returns the largest Pending value observed.
func (r *Reassembler) Peak() int {
	return r.peak
}

// WriterConfig configures a Writer.
type WriterConfig struct {
	// Height is the number of rows to emit.
	Height int

	// RowBytes, when positive, is the required length of every row.
	RowBytes int

	// Emit receives rows in ascending order. It must not retain data.
	Emit func(row int, data []byte) error

	// Release, if set, receives each row buffer after it was emitted.
	Release func([]byte)

	// Progress, if set, is called after each emitted row.
	Progress func(emitted, total int)
}

// Writer is the single consumer of the result channel.
type Writer struct {
	cfg WriterConfig
	ra  *Reassembler
}

// NewWriter creates a Writer.
func NewWriter(cfg WriterConfig) *Writer {
	return &Writer{cfg: cfg, ra: NewReassembler(cfg.Height)}
}

// Run receives results until all Height rows have been emitted in order.
// It returns early on context cancellation, on a closed result channel,
// on a protocol violation or on the first emit error; buffered rows are
// released without being emitted, so no partial row ever reaches Emit.
func (w *Writer) Run(ctx context.Context, results <-chan RowResult) error {
	for !w.ra.Done() {
		var (
			res RowResult
			ok  bool
		)
		select {
		case <-ctx.Done():
			w.ra.Discard(w.cfg.Release)
			return ctx.Err()
		case res, ok = <-results:
		}
		if !ok {
			w.ra.Discard(w.cfg.Release)
			return &Error{Stage: StageWriter, Row: w.ra.Next(), Err: ErrResultSinkClosed}
		}

		if w.cfg.RowBytes > 0 && len(res.Data) != w.cfg.RowBytes {
			w.ra.Discard(w.cfg.Release)
			return &Error{Stage: StageWriter, Row: res.Row, Err: ErrRowSize}
		}
		if err := w.ra.Put(res); err != nil {
			w.ra.Discard(w.cfg.Release)
			return err
		}

		if err := w.flush(ctx); err != nil {
			w.ra.Discard(w.cfg.Release)
			return err
		}
	}
	return nil
}

// flush emits the rows that are ready. Cancellation is checked before every
// row, so a cancelled render stops at a row boundary.
func (w *Writer) flush(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, data, ok := w.ra.Pop()
		if !ok {
			return nil
		}
		err := w.cfg.Emit(row, data)
		if w.cfg.Release != nil {
			w.cfg.Release(data)
		}
		if err != nil {
			return &Error{Stage: StageSink, Row: row, Err: err}
		}
		if w.cfg.Progress != nil {
			w.cfg.Progress(row+1, w.cfg.Height)
		}
	}
}

// Emitted returns the number of rows emitted so far.
// It must not be called concurrently with Run.
func (w *Writer) Emitted() int {
	return w.ra.Next()
}

// PeakPending returns the largest number of rows buffered at once.
// It must not be called concurrently with Run.
func (w *Writer) PeakPending() int {
	return w.ra.Peak()
}
