package preset

import "flag"

// RegisterFlags binds the render parameters to fs. Current values become
// the flag defaults, so flags override every earlier layer. The one-letter
// aliases follow the classic mandel command line.
func (s *Settings) RegisterFlags(fs *flag.FlagSet) {
	intVar(fs, &s.Width, "Width in pixels", "width", "w")
	intVar(fs, &s.Height, "Height in pixels", "height", "h")
	floatVar(fs, &s.Scale, "Plane units per pixel", "scale", "s")
	floatVar(fs, &s.CenterRe, "Real part of the image center", "re", "r")
	floatVar(fs, &s.CenterIm, "Imaginary part of the image center", "im", "i")
	floatVar(fs, &s.ExpRe, "Real part of the exponent", "exp-re", "a")
	floatVar(fs, &s.ExpIm, "Imaginary part of the exponent", "exp-im", "b")

	fs.IntVar(&s.Workers, "workers", s.Workers, "Number of worker goroutines")
	fs.IntVar(&s.Depth, "depth", s.Depth, "Maximum iterations per pixel")
	fs.IntVar(&s.BitDepth, "bits", s.BitDepth, "Bits per channel: 8 or 16")
	fs.StringVar(&s.BranchCut, "cut", s.BranchCut, "Branch cut: exponent or origin")
	fs.Float64Var(&s.Shape, "shape", s.Shape, "Color shaping exponent in (0, 1]")
	fs.StringVar(&s.Format, "format", s.Format, "Output format: png, tif, bmp or ppm")
	fs.StringVar(&s.OutputDir, "out", s.OutputDir, "Output directory")
	fs.StringVar(&s.HistoryDB, "history", s.HistoryDB, "History database; empty disables it")
	fs.StringVar(&s.LogFile, "log", s.LogFile, "JSON log file; empty disables it")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "Log level: debug, info, warn or error")
}

func intVar(fs *flag.FlagSet, p *int, usage string, names ...string) {
	for _, name := range names {
		fs.IntVar(p, name, *p, usage)
	}
}

func floatVar(fs *flag.FlagSet, p *float64, usage string, names ...string) {
	for _, name := range names {
		fs.Float64Var(p, name, *p, usage)
	}
}
