// Package plane maps raster pixel coordinates onto the complex plane.
//
// The raster origin (0,0) is the top-left pixel. X grows to the right and
// increases the real part; Y grows downwards and decreases the imaginary part,
// so the image shows the plane in its usual orientation.
package plane

// Mapper converts pixel coordinates of a width×height raster into complex
// points. A Mapper is an immutable value and is safe for concurrent use.
type Mapper struct {
	cornerR float64
	cornerI float64
	scale   float64
}

// New returns a Mapper for a raster of the given size centered on center,
// where scale is the distance in plane units between neighbouring pixels.
//
// The top-left corner is center - scale*(width/2, -height/2).
func New(center complex128, scale float64, width, height int) Mapper {
	return Mapper{
		cornerR: real(center) - scale*float64(width)/2,
		cornerI: imag(center) + scale*float64(height)/2,
		scale:   scale,
	}
}

// Corner returns the complex point of pixel (0,0).
func (m Mapper) Corner() complex128 {
	return complex(m.cornerR, m.cornerI)
}

// Scale returns the plane distance between neighbouring pixels.
func (m Mapper) Scale() float64 {
	return m.scale
}

// Point returns the real and imaginary parts of pixel (x, y).
func (m Mapper) Point(x, y int) (re, im float64) {
	return m.cornerR + m.scale*float64(x), m.cornerI - m.scale*float64(y)
}

// Complex returns pixel (x, y) as a complex128.
func (m Mapper) Complex(x, y int) complex128 {
	re, im := m.Point(x, y)
	return complex(re, im)
}
