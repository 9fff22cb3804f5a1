package sink

import (
	"bytes"
	stdimage "image"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/image"
)

// MemorySink keeps a copy of every row.
type MemorySink struct {
	protocol

	data [][]byte
}

// Memory returns an empty MemorySink.
func Memory() *MemorySink {
	return &MemorySink{}
}

// Begin records the header.
func (s *MemorySink) Begin(h multibrot.Header) error {
	if err := s.begin(h); err != nil {
		return err
	}
	s.data = make([][]byte, 0, h.Height)
	return nil
}

// WriteRow copies row.
func (s *MemorySink) WriteRow(row []byte) error {
	if _, err := s.row(len(row)); err != nil {
		return err
	}
	s.data = append(s.data, bytes.Clone(row))
	return nil
}

// Finish completes the image.
func (s *MemorySink) Finish() error {
	return s.finish()
}

// Abort drops the rows received so far.
func (s *MemorySink) Abort() error {
	if s.abort() {
		s.data = nil
	}
	return nil
}

// Header returns the header passed to Begin.
func (s *MemorySink) Header() multibrot.Header {
	return s.header
}

// Rows returns the rows received so far, in order.
func (s *MemorySink) Rows() [][]byte {
	return s.data
}

// Finished reports whether Finish succeeded.
func (s *MemorySink) Finished() bool {
	return s.finished
}

// Image returns the finished image as *image.NRGBA or *image.NRGBA64.
// It returns nil before Finish.
func (s *MemorySink) Image() stdimage.Image {
	if !s.finished {
		return nil
	}
	format, err := image.FormatForDepth(int(s.header.BitDepth))
	if err != nil {
		return nil
	}
	buf, err := image.NewImageBuf(s.header.Width, s.header.Height, format)
	if err != nil {
		return nil
	}
	for y, row := range s.data {
		_ = buf.SetRow(y, row)
	}
	return buf.ToStdImage()
}
