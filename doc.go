// Package multibrot renders generalized Mandelbrot ("Multibrot") escape-time
// fractals.
//
// # Overview
//
// The recursion is Z(0) = c, Z(N+1) = Z(N)^(a+bi) + c for a complex exponent
// a+bi. Each pixel is mapped onto the complex plane, iterated until it
// escapes or the depth is exhausted, and painted with a smooth gradient.
// Rows are computed in parallel and delivered to a [Sink] strictly top to
// bottom.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/multibrot"
//	    "github.com/gogpu/multibrot/sink"
//	)
//
//	cfg := multibrot.DefaultConfig()
//	cfg.Width, cfg.Height = 800, 600
//	cfg.Exponent = complex(3, 0.2)
//
//	out, err := sink.File("fractal.png")
//	if err != nil {
//	    return err
//	}
//	if err := multibrot.Render(ctx, cfg, out); err != nil {
//	    return err
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Config, Render, Sink, render options
//   - Internal: plane (pixel mapping), escape (iteration), palette (color),
//     scanline (one row), parallel (worker pool and reassembly writer),
//     image (pixel buffers and encoders)
//   - Sinks: sink (file, streaming PPM, memory, discard)
//
// # Coordinate System
//
// Uses standard image coordinates:
//   - Origin (0,0) at top-left
//   - X increases right, moving along the real axis
//   - Y increases down, moving towards negative imaginary values
//
// # Concurrency
//
// A render uses Config.Workers row workers plus one writer goroutine. The
// output is byte-identical for any worker count.
package multibrot

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
