package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

// twoRows returns a 2x2 image with a red top row and a blue bottom row.
func twoRows() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.SetRGBA(0, 0, red)
	img.SetRGBA(1, 0, red)
	img.SetRGBA(0, 1, blue)
	img.SetRGBA(1, 1, blue)
	return img
}

func TestDecodeFormats(t *testing.T) {
	src := twoRows()

	var pngBuf, bmpBuf, jpgBuf bytes.Buffer
	if err := png.Encode(&pngBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(&jpgBuf, src, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"hull.png", pngBuf.Bytes()},
		{"hull.BMP", bmpBuf.Bytes()},
		{"hull.jpg", jpgBuf.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.data, tt.name)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
				t.Errorf("bounds = %v", img.Bounds())
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image"), "x.png"); err == nil {
		t.Error("expected error for garbage PNG")
	}
	if _, err := Decode([]byte("not an image"), "x.bmp"); err == nil {
		t.Error("expected error for garbage BMP")
	}
}

func TestToRGBAFlip(t *testing.T) {
	src := twoRows()

	same := ToRGBA(src, false)
	if got := same.RGBAAt(0, 0); got.R != 255 {
		t.Errorf("unflipped top-left = %v, want red", got)
	}

	flipped := ToRGBA(src, true)
	if got := flipped.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("flipped top-left = %v, want blue", got)
	}
	if got := flipped.RGBAAt(1, 1); got.R != 255 {
		t.Errorf("flipped bottom-right = %v, want red", got)
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := twoRows().SubImage(image.Rect(0, 1, 2, 2))
	out := ToRGBA(src, false)
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("expected origin-based bounds, got %v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("expected blue row, got %v", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, twoRows()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(img.Pix) != 2*2*4 {
		t.Errorf("expected tightly packed pixels, got %d bytes", len(img.Pix))
	}
}
