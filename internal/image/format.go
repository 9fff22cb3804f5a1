// Package image accumulates rendered rows into whole images and encodes
// them as PNG, TIFF or BMP.
package image

import "fmt"

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatRGB8 is 24-bit RGB (3 bytes per pixel).
	FormatRGB8 Format = iota

	// FormatRGB16 is 48-bit RGB, each channel big-endian (6 bytes per pixel).
	FormatRGB16

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// Channels is the number of color channels.
	Channels int

	// BitsPerChannel is the number of bits per color channel.
	BitsPerChannel int
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatRGB8: {
		BytesPerPixel:  3,
		Channels:       3,
		BitsPerChannel: 8,
	},
	FormatRGB16: {
		BytesPerPixel:  6,
		Channels:       3,
		BitsPerChannel: 16,
	},
}

// FormatForDepth returns the RGB format with the given bits per channel.
func FormatForDepth(bits int) (Format, error) {
	switch bits {
	case 8:
		return FormatRGB8, nil
	case 16:
		return FormatRGB16, nil
	default:
		return 0, fmt.Errorf("%w: %d bits per channel", ErrInvalidFormat, bits)
	}
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// Channels returns the number of color channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// BitsPerChannel returns the number of bits per color channel.
func (f Format) BitsPerChannel() int {
	return f.Info().BitsPerChannel
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGB8:
		return "RGB8"
	case FormatRGB16:
		return "RGB16"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
