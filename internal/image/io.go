package image

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown file encoding.
var ErrUnsupportedFormat = errors.New("image: unsupported format")

// Encoding is an image file format.
type Encoding uint8

const (
	// EncodingPNG writes PNG at 8 or 16 bits per channel.
	EncodingPNG Encoding = iota

	// EncodingTIFF writes Deflate-compressed TIFF at 8 or 16 bits per channel.
	EncodingTIFF

	// EncodingBMP writes 24-bit BMP. 16-bit images keep their high bytes.
	EncodingBMP
)

// String returns the lower-case name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingPNG:
		return "png"
	case EncodingTIFF:
		return "tiff"
	case EncodingBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Extension returns the file extension for e, including the dot.
func (e Encoding) Extension() string {
	switch e {
	case EncodingTIFF:
		return ".tif"
	case EncodingBMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// ParseEncoding parses an encoding name such as "png" or "tif".
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return EncodingPNG, nil
	case "tif", "tiff":
		return EncodingTIFF, nil
	case "bmp":
		return EncodingBMP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// EncodingFromPath picks the encoding from the file extension of path.
func EncodingFromPath(path string) (Encoding, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseEncoding(ext)
}

// Encode writes the image to w.
func (b *ImageBuf) Encode(w io.Writer, enc Encoding) error {
	var err error
	switch enc {
	case EncodingPNG:
		err = png.Encode(w, b.ToStdImage())
	case EncodingTIFF:
		err = tiff.Encode(w, b.ToStdImage(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case EncodingBMP:
		err = bmp.Encode(w, b.ToNRGBA())
	default:
		return fmt.Errorf("%w: encoding %d", ErrUnsupportedFormat, enc)
	}
	if err != nil {
		return fmt.Errorf("image: encode %s: %w", enc, err)
	}
	return nil
}

// Save writes the image to path, choosing the encoding from its extension.
func (b *ImageBuf) Save(path string) error {
	enc, err := EncodingFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := b.Encode(f, enc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load decodes a PNG, TIFF or BMP file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc, err := EncodingFromPath(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch enc {
	case EncodingTIFF:
		img, err = tiff.Decode(f)
	case EncodingBMP:
		img, err = bmp.Decode(f)
	default:
		img, err = png.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("image: decode %s: %w", enc, err)
	}
	return img, nil
}

// ToStdImage converts the ImageBuf to a standard library image.Image.
// Returns *image.NRGBA for RGB8 and *image.NRGBA64 for RGB16, both opaque.
func (b *ImageBuf) ToStdImage() image.Image {
	if b.format == FormatRGB16 {
		return b.toNRGBA64()
	}
	return b.ToNRGBA()
}

// ToNRGBA converts the image to 8 bits per channel.
func (b *ImageBuf) ToNRGBA() *image.NRGBA {
	rect := image.Rect(0, 0, b.width, b.height)
	nrgba := image.NewNRGBA(rect)

	// Byte stride between channels of the source: the high byte of each
	// 16-bit channel comes first.
	step := b.format.BytesPerPixel() / 3
	for y := range b.height {
		row := b.RowBytes(y)
		dstStart := y * nrgba.Stride
		for x := range b.width {
			srcOff := x * 3 * step
			dstOff := dstStart + x*4
			nrgba.Pix[dstOff] = row[srcOff]
			nrgba.Pix[dstOff+1] = row[srcOff+step]
			nrgba.Pix[dstOff+2] = row[srcOff+2*step]
			nrgba.Pix[dstOff+3] = 255 // Opaque
		}
	}
	return nrgba
}

// toNRGBA64 expands RGB16 rows into NRGBA64, which is also big-endian.
func (b *ImageBuf) toNRGBA64() *image.NRGBA64 {
	rect := image.Rect(0, 0, b.width, b.height)
	img := image.NewNRGBA64(rect)
	for y := range b.height {
		row := b.RowBytes(y)
		dstStart := y * img.Stride
		for x := range b.width {
			srcOff := x * 6
			dstOff := dstStart + x*8
			copy(img.Pix[dstOff:dstOff+6], row[srcOff:srcOff+6])
			img.Pix[dstOff+6] = 0xFF
			img.Pix[dstOff+7] = 0xFF
		}
	}
	return img
}
