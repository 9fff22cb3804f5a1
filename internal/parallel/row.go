// Package parallel provides the row-parallel rendering pipeline for multibrot.
//
// Rows are the unit of work. The pipeline is:
//
//	job source -> WorkerPool (T workers) -> result channel -> Writer -> emit
//
// The job source is a buffered channel pre-loaded with every row index and
// one Stop job per worker, so workers terminate without coordinating with
// each other. Workers finish rows out of order; the Writer buffers them in a
// Reassembler and emits them strictly top to bottom.
//
// Row buffers have a single owner at any instant: the worker that rendered
// them, then the channel, then the Writer, which returns them to the
// RowBufferPool right after they are emitted.
package parallel

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrDuplicateRow is returned when a row arrives at the writer twice.
	ErrDuplicateRow = errors.New("parallel: row delivered twice")

	// ErrRowOutOfRange is returned when a row index is outside [0, height).
	ErrRowOutOfRange = errors.New("parallel: row index out of range")

	// ErrJobSourceClosed is returned when the job source closes before a
	// worker received its Stop job.
	ErrJobSourceClosed = errors.New("parallel: job source closed unexpectedly")

	// ErrResultSinkClosed is returned when the result channel closes before
	// every row reached the writer.
	ErrResultSinkClosed = errors.New("parallel: result channel closed unexpectedly")

	// ErrRowSize is returned when a row buffer has the wrong length.
	ErrRowSize = errors.New("parallel: row buffer has wrong size")
)

// stopRow marks the termination job.
const stopRow = -1

// RowJob asks a worker to render one row.
type RowJob struct {
	// Row is the row index, or stopRow for the termination job.
	Row int
}

// Stop is the termination job. Each worker exits after receiving one.
var Stop = RowJob{Row: stopRow}

// IsStop reports whether j is the termination job.
func (j RowJob) IsStop() bool {
	return j.Row < 0
}

// RowResult is a rendered row handed from a worker to the writer.
// Ownership of Data moves with the value.
type RowResult struct {
	Row  int
	Data []byte
}

// Stage names the pipeline step that failed.
type Stage string

// Pipeline stages.
const (
	StageWorker Stage = "worker"
	StageWriter Stage = "writer"
	StageSink   Stage = "sink"
)

// Error describes a pipeline failure at a stage, with the row when known.
type Error struct {
	Stage Stage
	Row   int // -1 when no row is involved
	Err   error
}

func (e *Error) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("parallel: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("parallel: %s: row %d: %v", e.Stage, e.Row, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewJobSource returns the shared job channel for a render of height rows
// and the given number of workers. It holds every row index in ascending
// order followed by one Stop job per worker, and is closed.
func NewJobSource(height, workers int) <-chan RowJob {
	jobs := make(chan RowJob, height+workers)
	for row := range height {
		jobs <- RowJob{Row: row}
	}
	for range workers {
		jobs <- Stop
	}
	close(jobs)
	return jobs
}
