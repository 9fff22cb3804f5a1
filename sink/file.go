package sink

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/multibrot"
	"github.com/gogpu/multibrot/internal/image"
)

// ErrUnsupportedFormat is returned by File for an unknown file extension.
var ErrUnsupportedFormat = image.ErrUnsupportedFormat

// FileSink collects rows in memory and writes an image file on Finish.
//
// The file is encoded into a temporary file next to the target and renamed
// into place only after encoding succeeded, so the target path never holds
// a partial image. Abort removes the temporary file.
type FileSink struct {
	protocol

	path string
	enc  image.Encoding
	buf  *image.ImageBuf
	tmp  *os.File
}

// File returns a sink writing to path. The encoding follows the extension:
// .png, .tif, .tiff or .bmp. The parent directory must exist by Begin.
func File(path string) (*FileSink, error) {
	enc, err := image.EncodingFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{path: filepath.Clean(path), enc: enc}, nil
}

// Path returns the final file path.
func (s *FileSink) Path() string {
	return s.path
}

// Begin allocates the image and creates the temporary file.
func (s *FileSink) Begin(h multibrot.Header) error {
	if err := s.begin(h); err != nil {
		return err
	}

	format, err := image.FormatForDepth(int(h.BitDepth))
	if err != nil {
		return err
	}
	buf, err := image.GetFromDefault(h.Width, h.Height, format)
	if err != nil {
		return fmt.Errorf("sink: allocate image: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		image.PutToDefault(buf)
		return fmt.Errorf("sink: create temporary file: %w", err)
	}
	s.buf = buf
	s.tmp = tmp
	return nil
}

// WriteRow stores the next row.
func (s *FileSink) WriteRow(row []byte) error {
	if s.begun && s.buf == nil {
		return fmt.Errorf("%w: image was not allocated", ErrProtocol)
	}
	y, err := s.row(len(row))
	if err != nil {
		return err
	}
	return s.buf.SetRow(y, row)
}

// Finish encodes the image and moves it to its final path.
func (s *FileSink) Finish() error {
	if s.begun && s.tmp == nil {
		return fmt.Errorf("%w: image was not allocated", ErrProtocol)
	}
	if err := s.finish(); err != nil {
		return err
	}

	w := bufio.NewWriterSize(s.tmp, 1<<16)
	err := s.buf.Encode(w, s.enc)
	if err == nil {
		err = w.Flush()
	}
	if cerr := s.tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(s.tmp.Name(), s.path)
	}
	if err != nil {
		_ = os.Remove(s.tmp.Name())
	}
	s.release()
	if err != nil {
		return fmt.Errorf("sink: write %s: %w", s.path, err)
	}
	return nil
}

// Abort discards the image and removes the temporary file. It is a no-op
// after a successful Finish.
func (s *FileSink) Abort() error {
	if !s.abort() || s.tmp == nil {
		return nil
	}
	cerr := s.tmp.Close()
	rerr := os.Remove(s.tmp.Name())
	s.release()
	if errors.Is(cerr, os.ErrClosed) {
		cerr = nil
	}
	if errors.Is(rerr, os.ErrNotExist) {
		rerr = nil
	}
	return errors.Join(cerr, rerr)
}

func (s *FileSink) release() {
	image.PutToDefault(s.buf)
	s.buf = nil
}
