package multibrot

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/multibrot/internal/parallel"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("multibrot: invalid config")

	// ErrNilSink is returned when Render is called without a sink.
	ErrNilSink = errors.New("multibrot: nil sink")
)

// ConfigError reports an invalid Config field. Render returns it, wrapped in
// a *RenderError, before any worker starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("multibrot: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Stage names the part of a render that failed.
type Stage string

// Render stages.
const (
	StageConfig Stage = "config"
	StagePool   Stage = "pool"
	StageWorker Stage = "worker"
	StageWriter Stage = "writer"
	StageSink   Stage = "sink"
	StageCancel Stage = "cancel"
)

// RenderError is the failure reason returned by Render. Any RenderError
// means the image is incomplete and the sink was asked to discard it.
type RenderError struct {
	Stage Stage
	Row   int // -1 when no row is involved
	Err   error
}

func (e *RenderError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("multibrot: render failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("multibrot: render failed at %s, row %d: %v", e.Stage, e.Row, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// pipelineError converts an error from the row pipeline into a *RenderError.
func pipelineError(err error) *RenderError {
	var pe *parallel.Error
	switch {
	case errors.As(err, &pe):
		return &RenderError{Stage: Stage(pe.Stage), Row: pe.Row, Err: pe.Err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &RenderError{Stage: StageCancel, Row: -1, Err: err}
	default:
		return &RenderError{Stage: StagePool, Row: -1, Err: err}
	}
}
