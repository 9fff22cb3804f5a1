// Package palette converts normalized escape values into RGB pixel bytes.
//
// Values v in [0, 1) run from the bright endpoint at v = 0 towards dark blue;
// v >= 1 (points inside the set) is always black. Each channel is a base
// level minus v times a channel coefficient. At 8 bits per channel the
// bytes are the high bytes of the 16-bit encoding, so the two depths render
// the same gradient.
package palette

// Depth is the number of bits per color channel.
type Depth uint8

const (
	// Depth8 stores one byte per channel, 3 bytes per pixel.
	Depth8 Depth = 8

	// Depth16 stores two bytes per channel, high byte first, 6 bytes per pixel.
	Depth16 Depth = 16
)

// Channels is the number of color channels per pixel.
const Channels = 3

// IsValid reports whether d is a supported depth.
func (d Depth) IsValid() bool {
	return d == Depth8 || d == Depth16
}

// BytesPerPixel returns the encoded size of one pixel.
func (d Depth) BytesPerPixel() int {
	return Channels * int(d) / 8
}

// RowBytes returns the encoded size of a row of width pixels.
func (d Depth) RowBytes(width int) int {
	return width * d.BytesPerPixel()
}

// ramp is one byte lane of the gradient: base - v*coef.
type ramp struct {
	base uint8
	coef uint8
}

func (r ramp) at(v float64) uint8 {
	//nolint:gosec // G115: v is in [0,1), so v*coef < base+1
	return r.base - uint8(v*float64(r.coef))
}

// lanes16 holds the six byte lanes of a 16-bit pixel: R hi/lo, G hi/lo, B hi/lo.
var lanes16 = [6]ramp{
	{0xDD, 0xAA}, {0xFF, 0xFF},
	{0xFF, 0xFF}, {0xFF, 0xFF},
	{0xFF, 0x77}, {0xFF, 0xFF},
}

// lanes8 holds the high-byte lanes of lanes16.
var lanes8 = [3]ramp{lanes16[0], lanes16[2], lanes16[4]}

// RGB16 is a pixel color with 16-bit channels.
type RGB16 struct {
	R, G, B uint16
}

// Black is the color of points inside the set.
var Black = RGB16{}

// Color returns the 16-bit color for escape value v.
func Color(v float64) RGB16 {
	var b [6]byte
	Put(b[:], v, Depth16)
	return RGB16{
		R: uint16(b[0])<<8 | uint16(b[1]),
		G: uint16(b[2])<<8 | uint16(b[3]),
		B: uint16(b[4])<<8 | uint16(b[5]),
	}
}

// Put writes the pixel for escape value v at depth d into dst and returns
// the number of bytes written. dst must hold d.BytesPerPixel() bytes.
//
// NaN and values >= 1 encode as black; negative values clamp to 0.
func Put(dst []byte, v float64, d Depth) int {
	n := d.BytesPerPixel()
	dst = dst[:n]

	if !(v < 1) {
		clear(dst)
		return n
	}
	if v < 0 {
		v = 0
	}

	if d == Depth16 {
		for i, l := range lanes16 {
			dst[i] = l.at(v)
		}
		return n
	}
	for i, l := range lanes8 {
		dst[i] = l.at(v)
	}
	return n
}
