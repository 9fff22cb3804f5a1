package image

import (
	"errors"
	"testing"
)

func TestFormat_Info(t *testing.T) {
	tests := []struct {
		format Format
		bpp    int
		bits   int
		name   string
	}{
		{FormatRGB8, 3, 8, "RGB8"},
		{FormatRGB16, 6, 16, "RGB16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.format.BitsPerChannel(); got != tt.bits {
				t.Errorf("BitsPerChannel() = %d, want %d", got, tt.bits)
			}
			if got := tt.format.Channels(); got != 3 {
				t.Errorf("Channels() = %d, want 3", got)
			}
			if got := tt.format.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if !tt.format.IsValid() {
				t.Error("IsValid() = false")
			}
			if got := tt.format.ImageBytes(10, 4); got != 40*tt.bpp {
				t.Errorf("ImageBytes(10, 4) = %d, want %d", got, 40*tt.bpp)
			}
		})
	}
}

func TestFormat_Invalid(t *testing.T) {
	f := Format(200)
	if f.IsValid() {
		t.Error("Format(200).IsValid() = true")
	}
	if f.BytesPerPixel() != 0 || f.String() != "Unknown" {
		t.Errorf("Format(200): BytesPerPixel = %d, String = %q", f.BytesPerPixel(), f.String())
	}
}

func TestFormatForDepth(t *testing.T) {
	if f, err := FormatForDepth(8); err != nil || f != FormatRGB8 {
		t.Errorf("FormatForDepth(8) = %v, %v", f, err)
	}
	if f, err := FormatForDepth(16); err != nil || f != FormatRGB16 {
		t.Errorf("FormatForDepth(16) = %v, %v", f, err)
	}
	if _, err := FormatForDepth(12); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("FormatForDepth(12) error = %v, want ErrInvalidFormat", err)
	}
}
