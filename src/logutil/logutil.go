package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultLogFile = "regionshot.log"
	maxSizeBytes   = 10 * 1024 * 1024 // 10 MB
	maxArchives    = 3
)

// Setup enables file logging with basic size-based rotation (10MB, max 3 archives).
// When disabled, logs are discarded so stdout stays clean for --json output.
// verbose additionally copies every line to stderr.
func Setup(enableFileLogging bool, path string, verbose bool) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var out []io.Writer
	if verbose {
		out = append(out, os.Stderr)
	}
	if enableFileLogging {
		if w, err := Open(path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			out = append(out, w)
		}
	}

	switch len(out) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(out[0])
	default:
		log.SetOutput(io.MultiWriter(out...))
	}
}

// RotatingWriter appends to a file and rotates it to .1..3 once it would
// grow past the size limit.
type RotatingWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	f       *os.File
}

// Open creates the log directory if needed and opens path for appending.
func Open(path string) (*RotatingWriter, error) {
	return open(path, maxSizeBytes)
}

func open(path string, maxSize int64) (*RotatingWriter, error) {
	if path == "" {
		path = DefaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	rotateIfNeeded(path, maxSize)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, err
	}
	return &RotatingWriter{path: path, maxSize: maxSize, f: f}, nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	// naive rotation check per write
	if st, err := w.f.Stat(); err == nil && st.Size() > 0 && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		rotate(w.path)
		nf, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

func rotateIfNeeded(path string, maxSize int64) {
	if st, err := os.Stat(path); err == nil && st.Size() > maxSize {
		rotate(path)
	}
}

// rotate shifts .1 -> .2 -> .3 (oldest discarded) and moves the current file to .1.
func rotate(path string) {
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }
