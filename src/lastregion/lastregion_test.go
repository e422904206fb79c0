package lastregion

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"region-shot/src/geometry"
	"region-shot/src/regionspec"
)

func TestWriteAndRead(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "cache", FileName)}
	bounds := geometry.Bounds{Width: 3440, Height: 1440}

	for _, r := range []geometry.Rect{
		{TopLeft: geometry.Point{X: 42, Y: 24}, Width: 800, Height: 600},
		{TopLeft: geometry.Point{X: 900, Y: 400}, Width: 800, Height: 150},
	} {
		if err := s.Write(r); err != nil {
			t.Fatal(err)
		}
		spec, err := s.Read()
		if err != nil {
			t.Fatal(err)
		}
		if spec.Width.Relative || spec.X.Relative {
			t.Errorf("Expected absolute values only, got %+v", spec)
		}
		if got := spec.Resolve(bounds); got != r {
			t.Errorf("Expected %v, got %v", r, got)
		}
	}
	data, _ := os.ReadFile(s.Path)
	if string(data) != "800x150+900+400\n" {
		t.Errorf("Unexpected file contents %q", data)
	}
}

func TestReadMissing(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), FileName)}
	if _, err := s.Read(); !errors.Is(err, ErrNoLastRegion) {
		t.Errorf("Expected ErrNoLastRegion, got %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), FileName)}
	if err := os.WriteFile(s.Path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := s.Read()
	var pe *regionspec.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("Expected ParseError, got %v", err)
	}
}
