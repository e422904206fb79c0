// Package lastregion persists the most recently dispatched region so the
// next run can reuse it with --last-region.
package lastregion

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"region-shot/src/geometry"
	"region-shot/src/regionspec"
)

// FileName is the cache file holding the region text.
const FileName = "regionshot-last-region.txt"

// ErrNoLastRegion means nothing has been recorded yet.
var ErrNoLastRegion = errors.New("no last region recorded")

// Store keeps the region text in a single file. It satisfies
// action.RegionRecorder.
type Store struct {
	Path string
}

// Default returns the store in the user cache directory.
func Default() (*Store, error) {
	path, err := xdg.CacheFile(filepath.Join("regionshot", FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return &Store{Path: path}, nil
}

// Write records r using absolute pixel values only.
func (s *Store) Write(r geometry.Rect) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(regionspec.Format(r)+"\n"), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// Read loads the recorded region as a spec, still to be resolved against
// the current canvas.
func (s *Store) Read() (regionspec.Spec, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return regionspec.Spec{}, ErrNoLastRegion
	}
	if err != nil {
		return regionspec.Spec{}, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return regionspec.Spec{}, ErrNoLastRegion
	}
	spec, err := regionspec.Parse(text)
	if err != nil {
		return regionspec.Spec{}, fmt.Errorf("corrupt last region in %s: %w", s.Path, err)
	}
	return spec, nil
}
