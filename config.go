package multibrot

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/gogpu/multibrot/internal/escape"
	"github.com/gogpu/multibrot/internal/palette"
	"github.com/gogpu/multibrot/internal/plane"
)

// MinDimension is the smallest accepted image width or height.
const MinDimension = 100

// BitDepth is the number of bits per color channel.
type BitDepth int

const (
	// BitDepth8 stores 3 bytes per pixel.
	BitDepth8 BitDepth = 8

	// BitDepth16 stores 6 bytes per pixel, each channel big-endian.
	BitDepth16 BitDepth = 16
)

// IsValid reports whether d is 8 or 16.
func (d BitDepth) IsValid() bool {
	return d == BitDepth8 || d == BitDepth16
}

// BytesPerPixel returns the encoded size of one pixel.
func (d BitDepth) BytesPerPixel() int {
	return palette.Depth(d).BytesPerPixel()
}

// BranchCut selects how the argument of the orbit value is placed on a
// branch before each complex power.
type BranchCut uint8

const (
	// ExponentRelative keeps the argument in (-b-π, π-b] for exponent a+bi.
	ExponentRelative BranchCut = iota

	// OriginRelative keeps the argument within π of the point's own initial
	// argument.
	OriginRelative
)

// String returns "exponent" or "origin".
func (c BranchCut) String() string {
	return c.escape().String()
}

// IsValid reports whether c is a known policy.
func (c BranchCut) IsValid() bool {
	return c == ExponentRelative || c == OriginRelative
}

func (c BranchCut) escape() escape.BranchCut {
	switch c {
	case ExponentRelative:
		return escape.ExponentRelative
	case OriginRelative:
		return escape.OriginRelative
	default:
		return escape.BranchCut(c)
	}
}

// ParseBranchCut parses a policy name as written by String.
func ParseBranchCut(s string) (BranchCut, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exponent", "exponent-relative", "a":
		return ExponentRelative, nil
	case "origin", "origin-relative", "b":
		return OriginRelative, nil
	default:
		return 0, &ConfigError{Field: "BranchCut", Reason: fmt.Sprintf("unknown policy %q", s)}
	}
}

// Config describes one render. It is a plain value: Render copies it and
// never modifies it, so one Config may be shared by concurrent renders.
type Config struct {
	// Width and Height are the image size in pixels.
	Width, Height int

	// Scale is the distance in the complex plane between adjacent pixels.
	Scale float64

	// Center is the point at the middle of the image.
	Center complex128

	// Exponent is the power a+bi of the recursion.
	Exponent complex128

	// Workers is the number of row workers.
	Workers int

	// Depth is the maximum number of iterations per pixel.
	Depth int

	// BitDepth is 8 or 16 bits per channel.
	BitDepth BitDepth

	// BranchCut selects the argument branch policy.
	BranchCut BranchCut

	// Shape is the exponent applied to the normalized escape value,
	// in (0, 1]. 1 leaves the value unchanged.
	Shape float64
}

// DefaultConfig returns the standard 1920x1080 view of the Mandelbrot set.
func DefaultConfig() Config {
	return Config{
		Width:     1920,
		Height:    1080,
		Scale:     0.002,
		Center:    complex(-0.5, 0),
		Exponent:  complex(2, 0),
		Workers:   4,
		Depth:     escape.DefaultDepth,
		BitDepth:  BitDepth16,
		BranchCut: ExponentRelative,
		Shape:     escape.DefaultShape,
	}
}

// Validate checks every field. It returns a *ConfigError for the first
// invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width < MinDimension:
		return &ConfigError{Field: "Width", Reason: fmt.Sprintf("%d is below the minimum %d", c.Width, MinDimension)}
	case c.Height < MinDimension:
		return &ConfigError{Field: "Height", Reason: fmt.Sprintf("%d is below the minimum %d", c.Height, MinDimension)}
	case !(c.Scale > 0) || math.IsInf(c.Scale, 0):
		return &ConfigError{Field: "Scale", Reason: fmt.Sprintf("%g is not a positive finite number", c.Scale)}
	case !finite(c.Center):
		return &ConfigError{Field: "Center", Reason: "must be finite"}
	case !finite(c.Exponent):
		return &ConfigError{Field: "Exponent", Reason: "must be finite"}
	case c.Exponent == 0:
		return &ConfigError{Field: "Exponent", Reason: "must not be zero"}
	case c.Workers < 1:
		return &ConfigError{Field: "Workers", Reason: fmt.Sprintf("%d, need at least 1", c.Workers)}
	case c.Depth < 1:
		return &ConfigError{Field: "Depth", Reason: fmt.Sprintf("%d, need at least 1", c.Depth)}
	case !c.BitDepth.IsValid():
		return &ConfigError{Field: "BitDepth", Reason: fmt.Sprintf("%d, want 8 or 16", c.BitDepth)}
	case !c.BranchCut.IsValid():
		return &ConfigError{Field: "BranchCut", Reason: fmt.Sprintf("unknown policy %d", c.BranchCut)}
	case !(c.Shape > 0 && c.Shape <= 1):
		return &ConfigError{Field: "Shape", Reason: fmt.Sprintf("%g is outside (0, 1]", c.Shape)}
	}
	return nil
}

// Corner returns the complex point of the top-left pixel.
func (c Config) Corner() complex128 {
	return c.mapper().Corner()
}

func (c Config) mapper() plane.Mapper {
	return plane.New(c.Center, c.Scale, c.Width, c.Height)
}

// Header returns the image header a Sink receives for this Config.
func (c Config) Header() Header {
	return Header{
		Width:    c.Width,
		Height:   c.Height,
		BitDepth: c.BitDepth,
		Channels: palette.Channels,
	}
}

// RowBytes returns the size of one encoded row.
func (c Config) RowBytes() int {
	return c.Width * c.BitDepth.BytesPerPixel()
}

func (c Config) evaluator() *escape.Evaluator {
	return escape.New(escape.Params{
		Exponent: c.Exponent,
		Depth:    c.Depth,
		Cut:      c.BranchCut.escape(),
		Shape:    c.Shape,
	})
}

func finite(z complex128) bool {
	return !cmplx.IsNaN(z) && !cmplx.IsInf(z)
}
