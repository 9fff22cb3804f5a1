// Package sink provides multibrot.Sink implementations.
//
// Every sink enforces the row protocol: Begin once, exactly Height rows of
// Header.RowBytes bytes each, then Finish once. Calls out of order return an
// error wrapping ErrProtocol.
//
//	out, err := sink.File("Output/fractal.png")
//	if err != nil {
//	    return err
//	}
//	err = multibrot.Render(ctx, cfg, out)
//
// File sinks implement multibrot.Aborter: a failed render leaves no file
// behind.
package sink

import (
	"errors"
	"fmt"

	"github.com/gogpu/multibrot"
)

var (
	// ErrProtocol is returned when sink methods are called out of order or
	// with rows of the wrong size.
	ErrProtocol = errors.New("sink: protocol violation")

	// ErrHeader is returned by Begin for an unusable header.
	ErrHeader = errors.New("sink: invalid header")
)

// protocol tracks the Begin / WriteRow / Finish sequence of one image.
type protocol struct {
	header   multibrot.Header
	begun    bool
	rows     int
	finished bool
	aborted  bool
}

func (p *protocol) begin(h multibrot.Header) error {
	if p.begun {
		return fmt.Errorf("%w: Begin called twice", ErrProtocol)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrHeader, h.Width, h.Height)
	}
	if !h.BitDepth.IsValid() {
		return fmt.Errorf("%w: %d bits per channel", ErrHeader, h.BitDepth)
	}
	if h.Channels != 3 {
		return fmt.Errorf("%w: %d channels, want 3", ErrHeader, h.Channels)
	}
	p.header = h
	p.begun = true
	return nil
}

// row checks that one more row of n bytes may be written and returns its
// index.
func (p *protocol) row(n int) (int, error) {
	switch {
	case !p.begun:
		return 0, fmt.Errorf("%w: WriteRow before Begin", ErrProtocol)
	case p.finished || p.aborted:
		return 0, fmt.Errorf("%w: WriteRow after Finish or Abort", ErrProtocol)
	case p.rows >= p.header.Height:
		return 0, fmt.Errorf("%w: more than %d rows", ErrProtocol, p.header.Height)
	case n != p.header.RowBytes():
		return 0, fmt.Errorf("%w: row %d is %d bytes, want %d", ErrProtocol, p.rows, n, p.header.RowBytes())
	}
	p.rows++
	return p.rows - 1, nil
}

func (p *protocol) finish() error {
	switch {
	case !p.begun:
		return fmt.Errorf("%w: Finish before Begin", ErrProtocol)
	case p.finished:
		return fmt.Errorf("%w: Finish called twice", ErrProtocol)
	case p.aborted:
		return fmt.Errorf("%w: Finish after Abort", ErrProtocol)
	case p.rows != p.header.Height:
		return fmt.Errorf("%w: %d of %d rows written", ErrProtocol, p.rows, p.header.Height)
	}
	p.finished = true
	return nil
}

// abort marks the image discarded. It reports whether there was anything
// left to discard.
func (p *protocol) abort() bool {
	if p.finished || p.aborted {
		return false
	}
	p.aborted = true
	return true
}
