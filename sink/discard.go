package sink

import "github.com/gogpu/multibrot"

// DiscardSink checks the protocol and drops every row.
type DiscardSink struct {
	protocol

	bytes int64
}

// Discard returns a sink that keeps nothing. Benchmarks use it to time the
// pipeline without encoding.
func Discard() *DiscardSink {
	return &DiscardSink{}
}

func (s *DiscardSink) Begin(h multibrot.Header) error {
	return s.begin(h)
}

func (s *DiscardSink) WriteRow(row []byte) error {
	if _, err := s.row(len(row)); err != nil {
		return err
	}
	s.bytes += int64(len(row))
	return nil
}

func (s *DiscardSink) Finish() error {
	return s.finish()
}

// Rows returns the number of rows received.
func (s *DiscardSink) Rows() int {
	return s.rows
}

// Bytes returns the number of bytes received.
func (s *DiscardSink) Bytes() int64 {
	return s.bytes
}
