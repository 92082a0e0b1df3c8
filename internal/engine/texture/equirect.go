// Package texture loads equirectangular panorama sources and prepares them
// for GL upload.
package texture

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	// Register the source formats the viewer accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// MaxDimension caps texture width and height. Sources beyond it are scaled
// down before upload; 8192 is within the guaranteed texture size of every
// GL 4.1 implementation.
const MaxDimension = 8192

// LoadFile reads and decodes an equirectangular image from disk. TGA is
// routed by extension since the format has no leading magic to sniff.
func LoadFile(path string) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open panorama: %w", err)
		}
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return downscale(img), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open panorama: %w", err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes a panorama from r, converts it to RGBA and scales it down
// to MaxDimension if needed.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return downscale(ToRGBA(img)), nil
}

// ToRGBA converts any image to *image.RGBA. An image that already is RGBA
// comes back unchanged.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// downscale returns img shrunk so both dimensions fit MaxDimension, or img
// itself when it already fits. Aspect ratio is preserved.
func downscale(img *image.RGBA) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= MaxDimension && h <= MaxDimension {
		return img
	}

	scale := float64(MaxDimension) / float64(w)
	if s := float64(MaxDimension) / float64(h); s < scale {
		scale = s
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
