package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrRowSize is returned when a row has the wrong number of bytes.
	ErrRowSize = errors.New("image: row size does not match width")

	// ErrOutOfBounds is returned when a row index is outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf holds a whole image as tightly packed rows.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations (SetRow, Clear) require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new image buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row.
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.stride]
}

// SetRow copies row into row y.
func (b *ImageBuf) SetRow(y int, row []byte) error {
	dst := b.RowBytes(y)
	if dst == nil {
		return ErrOutOfBounds
	}
	if len(row) != len(dst) {
		return ErrRowSize
	}
	copy(dst, row)
	return nil
}

// Pixel returns the channels of pixel (x, y) scaled to 16 bits.
// Returns zeros if the coordinates are out of bounds.
func (b *ImageBuf) Pixel(x, y int) (r, g, bl uint16) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0
	}
	off := y*b.stride + x*b.format.BytesPerPixel()
	p := b.data[off:]
	if b.format == FormatRGB16 {
		return uint16(p[0])<<8 | uint16(p[1]),
			uint16(p[2])<<8 | uint16(p[3]),
			uint16(p[4])<<8 | uint16(p[5])
	}
	return uint16(p[0]) * 0x101, uint16(p[1]) * 0x101, uint16(p[2]) * 0x101
}

// Clear sets all pixels to black.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}
