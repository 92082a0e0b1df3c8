// Package debug provides capture utilities for the running viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes timestamped PNG captures of the framebuffer.
type Screenshots struct {
	dir    string
	prefix string
}

// NewScreenshots creates a capture writer. Files land in dir, or the
// working directory when dir is empty.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{dir: dir, prefix: prefix}
}

// SaveFrame writes an RGBA framebuffer read as a PNG and returns the
// file path. The rows arrive bottom-up from GL and are flipped here.
func (s *Screenshots) SaveFrame(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("framebuffer size mismatch: want %d bytes, got %d",
			width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	path := s.path()
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return "", fmt.Errorf("create screenshot dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}
	return path, nil
}

func (s *Screenshots) path() string {
	name := fmt.Sprintf("%s_%s.png", s.prefix, time.Now().Format("2006-01-02_15-04-05"))
	if s.dir == "" {
		return name
	}
	return filepath.Join(s.dir, name)
}
