// Package scanline renders one image row: every pixel is mapped onto the
// complex plane, evaluated for escape time and encoded as color bytes.
package scanline

import (
	"fmt"

	"github.com/gogpu/multibrot/internal/escape"
	"github.com/gogpu/multibrot/internal/palette"
	"github.com/gogpu/multibrot/internal/plane"
)

// Renderer produces color rows for one image. It holds no mutable state, so
// concurrent calls for different rows are safe.
type Renderer struct {
	mapper plane.Mapper
	eval   *escape.Evaluator
	depth  palette.Depth
	width  int
}

// New returns a Renderer for rows of width pixels.
func New(m plane.Mapper, e *escape.Evaluator, d palette.Depth, width int) *Renderer {
	return &Renderer{
		mapper: m,
		eval:   e,
		depth:  d,
		width:  width,
	}
}

// Width returns the number of pixels per row.
func (r *Renderer) Width() int {
	return r.width
}

// RowBytes returns the size of one encoded row.
func (r *Renderer) RowBytes() int {
	return r.depth.RowBytes(r.width)
}

// Row renders row y into a newly allocated buffer.
func (r *Renderer) Row(y int) []byte {
	buf := make([]byte, r.RowBytes())
	r.fill(buf, y)
	return buf
}

// RenderInto renders row y into dst, left to right.
// dst must be exactly RowBytes long.
func (r *Renderer) RenderInto(y int, dst []byte) error {
	if len(dst) != r.RowBytes() {
		return fmt.Errorf("scanline: row %d: buffer is %d bytes, want %d", y, len(dst), r.RowBytes())
	}
	r.fill(dst, y)
	return nil
}

func (r *Renderer) fill(dst []byte, y int) {
	off := 0
	for x := range r.width {
		re, im := r.mapper.Point(x, y)
		off += palette.Put(dst[off:], r.eval.Eval(re, im), r.depth)
	}
}
