package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveFrameFlipsRows(t *testing.T) {
	dir := t.TempDir()
	shots := NewScreenshots(dir, "frame")

	// 2x2 buffer, bottom row red, top row green, as GL would read it.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 255, 0, 255, 0, 255, 0, 255,
	}

	path, err := shots.SaveFrame(pixels, 2, 2)
	if err != nil {
		t.Fatalf("SaveFrame: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("got path %q, want file in %q", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), "frame_") {
		t.Errorf("got %q, want frame_ prefix", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open capture: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode capture: %v", err)
	}
	// The GL top row (green) becomes the image top row.
	r, g, _, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0xffff {
		t.Errorf("got top-left (%d, %d), want green", r, g)
	}
	r, g, _, _ = img.At(0, 1).RGBA()
	if r != 0xffff || g != 0 {
		t.Errorf("got bottom-left (%d, %d), want red", r, g)
	}
}

func TestSaveFrameSizeMismatch(t *testing.T) {
	shots := NewScreenshots(t.TempDir(), "frame")

	if _, err := shots.SaveFrame(make([]byte, 3), 2, 2); err == nil {
		t.Error("expected error for short pixel buffer")
	}
}

func TestSaveFrameCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures", "nested")
	shots := NewScreenshots(dir, "frame")

	pixels := make([]byte, 4)
	if _, err := shots.SaveFrame(pixels, 1, 1); err != nil {
		t.Fatalf("SaveFrame: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d files, want 1", len(entries))
	}
}
