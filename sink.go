package multibrot

// Header describes the image a Sink is about to receive.
type Header struct {
	Width, Height int
	BitDepth      BitDepth
	Channels      int
}

// BytesPerPixel returns the encoded size of one pixel.
func (h Header) BytesPerPixel() int {
	return h.Channels * int(h.BitDepth) / 8
}

// RowBytes returns the encoded size of one row.
func (h Header) RowBytes() int {
	return h.Width * h.BytesPerPixel()
}

// Sink receives a rendered image row by row.
//
// Render calls Begin once, then WriteRow exactly Height times with rows in
// ascending order, then Finish once. A row holds Width pixels of Channels
// samples; 16-bit samples are big-endian. WriteRow must not retain row after
// returning.
//
// Sink methods are called from a single goroutine at a time.
type Sink interface {
	Begin(h Header) error
	WriteRow(row []byte) error
	Finish() error
}

// Aborter is implemented by sinks that can discard an incomplete image.
// Render calls Abort after any failure once Begin has been called,
// including a failing Begin or Finish.
type Aborter interface {
	Abort() error
}
