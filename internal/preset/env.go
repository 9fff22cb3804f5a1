package preset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable Settings reads.
const EnvPrefix = "MULTIBROT_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays MULTIBROT_* variables read through lookup. Empty values
// are ignored. Every malformed value is reported.
func (s *Settings) ApplyEnv(lookup LookupFunc) error {
	r := envReader{lookup: lookup}

	r.int("WIDTH", &s.Width)
	r.int("HEIGHT", &s.Height)
	r.float("SCALE", &s.Scale)
	r.float("CENTER_RE", &s.CenterRe)
	r.float("CENTER_IM", &s.CenterIm)
	r.float("EXP_RE", &s.ExpRe)
	r.float("EXP_IM", &s.ExpIm)
	r.int("WORKERS", &s.Workers)
	r.int("DEPTH", &s.Depth)
	r.int("BIT_DEPTH", &s.BitDepth)
	r.string("BRANCH_CUT", &s.BranchCut)
	r.float("SHAPE", &s.Shape)
	r.string("FORMAT", &s.Format)
	r.string("OUTPUT_DIR", &s.OutputDir)
	r.string("HISTORY_DB", &s.HistoryDB)
	r.string("LOG_FILE", &s.LogFile)
	r.string("LOG_LEVEL", &s.LogLevel)

	return errors.Join(r.errs...)
}

type envReader struct {
	lookup LookupFunc
	errs   []error
}

func (r *envReader) get(name string) (string, bool) {
	v, ok := r.lookup(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *envReader) string(name string, dst *string) {
	if v, ok := r.get(name); ok {
		*dst = v
	}
}

func (r *envReader) int(name string, dst *int) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("preset: %s%s=%q is not an integer", EnvPrefix, name, v))
		return
	}
	*dst = n
}

func (r *envReader) float(name string, dst *float64) {
	v, ok := r.get(name)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("preset: %s%s=%q is not a number", EnvPrefix, name, v))
		return
	}
	*dst = f
}
