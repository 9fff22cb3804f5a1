// Package preset assembles the command-line settings from layered sources:
// built-in defaults, a .env file, MULTIBROT_* environment variables, a YAML
// preset file and finally command-line flags, each overriding the last.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/history"
)

// DefaultOutputDir is where rendered images are written.
const DefaultOutputDir = "Output"

// Settings is everything the command line can configure.
type Settings struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Scale     float64 `yaml:"scale"`
	CenterRe  float64 `yaml:"center_re"`
	CenterIm  float64 `yaml:"center_im"`
	ExpRe     float64 `yaml:"exponent_re"`
	ExpIm     float64 `yaml:"exponent_im"`
	Workers   int     `yaml:"workers"`
	Depth     int     `yaml:"depth"`
	BitDepth  int     `yaml:"bit_depth"`
	BranchCut string  `yaml:"branch_cut"`
	Shape     float64 `yaml:"shape"`

	// Format is the output extension without the dot: png, tif, bmp or ppm.
	Format    string `yaml:"format"`
	OutputDir string `yaml:"output_dir"`

	// HistoryDB is the ledger path. Empty disables the ledger.
	HistoryDB string `yaml:"history_db"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Settings {
	cfg := multibrot.DefaultConfig()
	return Settings{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Scale:     cfg.Scale,
		CenterRe:  real(cfg.Center),
		CenterIm:  imag(cfg.Center),
		ExpRe:     real(cfg.Exponent),
		ExpIm:     imag(cfg.Exponent),
		Workers:   cfg.Workers,
		Depth:     cfg.Depth,
		BitDepth:  int(cfg.BitDepth),
		BranchCut: cfg.BranchCut.String(),
		Shape:     cfg.Shape,
		Format:    "png",
		OutputDir: DefaultOutputDir,
		HistoryDB: history.DefaultPath,
		LogLevel:  "info",
	}
}

// Sources names the optional files Load reads.
type Sources struct {
	// EnvFile is loaded into the process environment without overriding
	// variables that are already set. A missing file is not an error.
	EnvFile string

	// Preset is a YAML file applied over the environment. Empty skips it.
	Preset string
}

// Load applies defaults, the env file, the environment and the preset file
// in that order.
func Load(src Sources) (Settings, error) {
	s := Default()

	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return s, fmt.Errorf("preset: load %s: %w", src.EnvFile, err)
		}
	}
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return s, err
	}
	if src.Preset != "" {
		if err := s.ApplyFile(src.Preset); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ApplyFile overlays the YAML preset at path. Keys absent from the file
// keep their current values; unknown keys are an error.
func (s *Settings) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	if err := s.ApplyYAML(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("preset: %s: %w", path, err)
	}
	return nil
}

// ApplyYAML overlays a YAML document read from r.
func (s *Settings) ApplyYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Config converts the render parameters to a validated multibrot.Config.
func (s Settings) Config() (multibrot.Config, error) {
	cut, err := multibrot.ParseBranchCut(s.BranchCut)
	if err != nil {
		return multibrot.Config{}, err
	}
	cfg := multibrot.Config{
		Width:     s.Width,
		Height:    s.Height,
		Scale:     s.Scale,
		Center:    complex(s.CenterRe, s.CenterIm),
		Exponent:  complex(s.ExpRe, s.ExpIm),
		Workers:   s.Workers,
		Depth:     s.Depth,
		BitDepth:  multibrot.BitDepth(s.BitDepth),
		BranchCut: cut,
		Shape:     s.Shape,
	}
	if err := cfg.Validate(); err != nil {
		return multibrot.Config{}, err
	}
	return cfg, nil
}

// Extension returns the output file extension including the dot.
func (s Settings) Extension() string {
	return "." + strings.TrimPrefix(strings.ToLower(s.Format), ".")
}
