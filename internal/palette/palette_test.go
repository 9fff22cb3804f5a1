package palette

import (
	"bytes"
	"math"
	"testing"
)

func TestDepth_BytesPerPixel(t *testing.T) {
	tests := []struct {
		depth Depth
		want  int
	}{
		{Depth8, 3},
		{Depth16, 6},
	}
	for _, tt := range tests {
		if got := tt.depth.BytesPerPixel(); got != tt.want {
			t.Errorf("Depth(%d).BytesPerPixel() = %d, want %d", tt.depth, got, tt.want)
		}
		if got := tt.depth.RowBytes(200); got != 200*tt.want {
			t.Errorf("Depth(%d).RowBytes(200) = %d, want %d", tt.depth, got, 200*tt.want)
		}
	}
}

func TestDepth_IsValid(t *testing.T) {
	for _, d := range []Depth{0, 1, 4, 12, 32} {
		if d.IsValid() {
			t.Errorf("Depth(%d).IsValid() = true, want false", d)
		}
	}
	if !Depth8.IsValid() || !Depth16.IsValid() {
		t.Error("Depth8 and Depth16 must be valid")
	}
}

func TestPut_InsideIsBlack(t *testing.T) {
	for _, d := range []Depth{Depth8, Depth16} {
		for _, v := range []float64{1, 1.5, math.Inf(1), math.NaN()} {
			dst := bytes.Repeat([]byte{0xAB}, d.BytesPerPixel())
			n := Put(dst, v, d)
			if n != d.BytesPerPixel() {
				t.Errorf("Put(%v, %d) wrote %d bytes, want %d", v, d, n, d.BytesPerPixel())
			}
			if !bytes.Equal(dst, make([]byte, n)) {
				t.Errorf("Put(%v, %d) = % x, want black", v, d, dst)
			}
		}
	}
}

func TestPut_BrightestEndpoint(t *testing.T) {
	tests := []struct {
		depth Depth
		want  []byte
	}{
		{Depth8, []byte{0xDD, 0xFF, 0xFF}},
		{Depth16, []byte{0xDD, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		dst := make([]byte, tt.depth.BytesPerPixel())
		Put(dst, 0, tt.depth)
		if !bytes.Equal(dst, tt.want) {
			t.Errorf("Put(0, %d) = % x, want % x", tt.depth, dst, tt.want)
		}
	}
}

func TestPut_NegativeClampsToZero(t *testing.T) {
	a := make([]byte, 6)
	b := make([]byte, 6)
	Put(a, -0.5, Depth16)
	Put(b, 0, Depth16)
	if !bytes.Equal(a, b) {
		t.Errorf("Put(-0.5) = % x, want % x", a, b)
	}
}

func TestPut_Midpoint(t *testing.T) {
	dst := make([]byte, 6)
	Put(dst, 0.5, Depth16)
	want := []byte{0xDD - 0x55, 0xFF - 0x7F, 0xFF - 0x7F, 0xFF - 0x7F, 0xFF - 0x3B, 0xFF - 0x7F}
	if !bytes.Equal(dst, want) {
		t.Errorf("Put(0.5, 16) = % x, want % x", dst, want)
	}
}

func TestPut_DepthConsistent(t *testing.T) {
	wide := make([]byte, 6)
	narrow := make([]byte, 3)
	for v := 0.0; v < 1; v += 0.013 {
		Put(wide, v, Depth16)
		Put(narrow, v, Depth8)
		if narrow[0] != wide[0] || narrow[1] != wide[2] || narrow[2] != wide[4] {
			t.Fatalf("v=%v: 8-bit % x is not the high bytes of 16-bit % x", v, narrow, wide)
		}
	}
}

func TestPut_DarkensMonotonically(t *testing.T) {
	prev := Color(0)
	for v := 0.05; v < 1; v += 0.05 {
		c := Color(v)
		if c.R > prev.R || c.G > prev.G || c.B > prev.B {
			t.Fatalf("Color(%v) = %+v brighter than previous %+v", v, c, prev)
		}
		prev = c
	}
}

func TestColor(t *testing.T) {
	if got := Color(1); got != Black {
		t.Errorf("Color(1) = %+v, want Black", got)
	}
	if got, want := Color(0), (RGB16{R: 0xDDFF, G: 0xFFFF, B: 0xFFFF}); got != want {
		t.Errorf("Color(0) = %+v, want %+v", got, want)
	}
}

func BenchmarkPut16(b *testing.B) {
	dst := make([]byte, 6)
	for b.Loop() {
		Put(dst, 0.37, Depth16)
	}
}
