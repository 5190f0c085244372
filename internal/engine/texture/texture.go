// Package texture decodes image files into RGBA pixel buffers for upload.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Decode decodes PNG, JPEG or BMP data. BMP is picked by the extension of
// name, everything else by content sniffing.
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".bmp") {
		img, err := bmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return img, nil
}

// Load reads and decodes an image file.
func Load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, path)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img, false), nil
}

// ToRGBA converts img to a tightly packed RGBA image whose bounds start at
// the origin. flipY mirrors rows so the first row is the bottom of the
// image, as glTexImage2D expects.
func ToRGBA(img image.Image, flipY bool) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))

	if !flipY {
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		return rgba
	}

	for y := 0; y < h; y++ {
		dstY := h - 1 - y
		for x := 0; x < w; x++ {
			rgba.Set(x, dstY, color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
	return rgba
}
