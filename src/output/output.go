// Package output writes captured regions to disk. The format follows the
// file extension: .png (default), .jpg/.jpeg or .pdf.
package output

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultJpegQuality = 90

// Format is an on-disk image format.
type Format int

const (
	PNG Format = iota
	JPEG
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case PDF:
		return "pdf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the format from path's extension. Unknown or missing
// extensions are PNG.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG
	case ".pdf":
		return PDF
	}
	return PNG
}

// Saver writes images. It satisfies action.FileSink.
type Saver struct {
	// Dir anchors relative paths and receives generated names.
	Dir         string
	JPEGQuality int
	// Now is used for generated file names.
	Now func() time.Time
}

// DefaultName is the file name used when only a directory is known.
func DefaultName(t time.Time) string {
	return "regionshot-" + t.Format("2006-01-02_15-04-05") + ".png"
}

// Resolve turns a user-supplied path into the final destination. An empty
// path or an existing directory gets a generated file name.
func (s Saver) Resolve(path string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if path == "" {
		return filepath.Join(s.Dir, DefaultName(now()))
	}
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, path)
	}
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return filepath.Join(path, DefaultName(now()))
	}
	return path
}

// Save writes img to path and returns the path written.
func (s Saver) Save(ctx context.Context, img image.Image, path string) (string, error) {
	dest := s.Resolve(path)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", filepath.Dir(dest), err)
	}

	format := FormatFor(dest)
	var err error
	if format == PDF {
		err = writePDF(dest, img)
	} else {
		err = writeFile(dest, func(w io.Writer) error { return s.encode(w, img, format) })
	}
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", dest, err)
	}
	log.Printf("OUTPUT: saved %s (%s, %dx%d)", dest, format, img.Bounds().Dx(), img.Bounds().Dy())
	return dest, nil
}

func (s Saver) encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case JPEG:
		q := s.JPEGQuality
		if q <= 0 {
			q = defaultJpegQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	default:
		return png.Encode(w, img)
	}
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
