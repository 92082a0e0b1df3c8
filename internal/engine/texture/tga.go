package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types. Panorama render tools emit true-color only.
const (
	tgaTypeTrueColor = 2
	tgaTypeRLE       = 10
)

const tgaHeaderSize = 18

// tgaHeader holds the header fields the decoder needs.
type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	depth       int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("tga header truncated")
	}
	h := tgaHeader{
		idLength:  int(data[0]),
		imageType: data[2],
		width:     int(data[12]) | int(data[13])<<8,
		height:    int(data[14]) | int(data[15])<<8,
		depth:     int(data[16]),
		// Descriptor bit 5 means rows already run top to bottom.
		topToBottom: data[17]&0x20 != 0,
	}
	if data[1] != 0 {
		return tgaHeader{}, fmt.Errorf("color-mapped tga not supported")
	}
	if h.imageType != tgaTypeTrueColor && h.imageType != tgaTypeRLE {
		return tgaHeader{}, fmt.Errorf("unsupported tga type %d", h.imageType)
	}
	if h.depth != 24 && h.depth != 32 {
		return tgaHeader{}, fmt.Errorf("unsupported tga depth %d", h.depth)
	}
	return h, nil
}

// DecodeTGA decodes an in-memory TGA file. Uncompressed and RLE true-color
// images at 24 or 32 bits are supported.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga id field truncated")
	}
	pixels := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	if h.imageType == tgaTypeTrueColor {
		err = decodeTGARaw(img, pixels, h)
	} else {
		err = decodeTGARLE(img, pixels, h)
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

// setTGAPixel writes pixel n in file order, flipping bottom-up images to
// the usual top-down layout.
func setTGAPixel(img *image.RGBA, h tgaHeader, n int, c color.RGBA) {
	x := n % h.width
	y := n / h.width
	if !h.topToBottom {
		y = h.height - 1 - y
	}
	img.SetRGBA(x, y, c)
}

// tgaColor reads one BGR(A) pixel.
func tgaColor(data []byte, depth int) color.RGBA {
	c := color.RGBA{R: data[2], G: data[1], B: data[0], A: 255}
	if depth == 32 {
		c.A = data[3]
	}
	return c
}

func decodeTGARaw(img *image.RGBA, pixels []byte, h tgaHeader) error {
	bpp := h.depth / 8
	total := h.width * h.height
	if len(pixels) < total*bpp {
		return fmt.Errorf("tga pixel data truncated")
	}
	for n := 0; n < total; n++ {
		setTGAPixel(img, h, n, tgaColor(pixels[n*bpp:], h.depth))
	}
	return nil
}

func decodeTGARLE(img *image.RGBA, pixels []byte, h tgaHeader) error {
	bpp := h.depth / 8
	total := h.width * h.height

	n, i := 0, 0
	for n < total && i < len(pixels) {
		packet := pixels[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated count times.
			if i+bpp > len(pixels) {
				return fmt.Errorf("tga run packet truncated")
			}
			c := tgaColor(pixels[i:], h.depth)
			i += bpp
			for ; count > 0 && n < total; count-- {
				setTGAPixel(img, h, n, c)
				n++
			}
		} else {
			// Raw packet: count literal pixels follow.
			for ; count > 0 && n < total; count-- {
				if i+bpp > len(pixels) {
					return fmt.Errorf("tga raw packet truncated")
				}
				setTGAPixel(img, h, n, tgaColor(pixels[i:], h.depth))
				i += bpp
				n++
			}
		}
	}
	if n < total {
		return fmt.Errorf("tga pixel data truncated")
	}
	return nil
}
