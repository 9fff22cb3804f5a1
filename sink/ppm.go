package sink

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gogpu/multibrot"
)

// PPMSink streams a binary PPM (P6) image. Unlike the other sinks it writes
// each row as it arrives, so memory use stays at one buffered block.
//
// 16-bit images use maxval 65535 with big-endian samples, which is the row
// layout produced by the renderer.
type PPMSink struct {
	protocol

	w *bufio.Writer
}

// PPM returns a sink writing to w. Closing w is up to the caller.
func PPM(w io.Writer) *PPMSink {
	return &PPMSink{w: bufio.NewWriter(w)}
}

// Begin writes the PPM header.
func (s *PPMSink) Begin(h multibrot.Header) error {
	if err := s.begin(h); err != nil {
		return err
	}
	maxval := 255
	if h.BitDepth == multibrot.BitDepth16 {
		maxval = 65535
	}
	if _, err := fmt.Fprintf(s.w, "P6\n%d %d\n%d\n", h.Width, h.Height, maxval); err != nil {
		return fmt.Errorf("sink: write PPM header: %w", err)
	}
	return nil
}

// WriteRow writes the next row.
func (s *PPMSink) WriteRow(row []byte) error {
	if _, err := s.row(len(row)); err != nil {
		return err
	}
	if _, err := s.w.Write(row); err != nil {
		return fmt.Errorf("sink: write PPM row: %w", err)
	}
	return nil
}

// Finish flushes buffered output.
func (s *PPMSink) Finish() error {
	if err := s.finish(); err != nil {
		return err
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("sink: flush PPM: %w", err)
	}
	return nil
}
