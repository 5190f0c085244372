package renderer

import "testing"

func TestLuma(t *testing.T) {
	tests := []struct {
		c    [3]float32
		want float32
	}{
		{[3]float32{0, 0, 0}, 0},
		{[3]float32{1, 1, 1}, 1},
		{[3]float32{1, 0, 0}, 0.299},
		{[3]float32{0, 1, 0}, 0.587},
	}
	for _, tt := range tests {
		got := Luma(tt.c)
		if d := got - tt.want; d > 1e-6 || d < -1e-6 {
			t.Errorf("Luma(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestDitherFactor(t *testing.T) {
	black := [3]float32{}
	white := [3]float32{1, 1, 1}
	grey := [3]float32{0.45, 0.45, 0.45}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if f := DitherFactor(x, y, black); f != 0.92 {
				t.Errorf("black at (%d,%d) = %v, want 0.92", x, y, f)
			}
		}
	}

	// Only the 1.0 threshold can catch white, depending on rounding.
	darkened := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if DitherFactor(x, y, white) != 1 {
				darkened++
			}
		}
	}
	if darkened > 1 {
		t.Errorf("white darkened at %d cells, want at most one", darkened)
	}

	// 0.45 sits under the nine thresholds from 0.5 up.
	darkened = 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if DitherFactor(x, y, grey) != 1 {
				darkened++
			}
		}
	}
	if darkened != 9 {
		t.Errorf("grey darkened at %d cells, want 9", darkened)
	}
}

func TestDitherFactorTiles(t *testing.T) {
	c := [3]float32{0.3, 0.3, 0.3}
	for y := -8; y < 8; y++ {
		for x := -8; x < 8; x++ {
			if DitherFactor(x, y, c) != DitherFactor(x+4, y+4, c) {
				t.Fatalf("pattern does not repeat every 4 pixels at (%d,%d)", x, y)
			}
		}
	}
}

func TestSetDitherToggles(t *testing.T) {
	r := &Renderer{config: Config{Dither: true}}

	r.SetDither(!r.Dither())
	if r.Dither() {
		t.Fatal("dither still on after toggle")
	}
	r.SetDither(!r.Dither())
	if !r.Dither() {
		t.Error("dither off after second toggle")
	}
}
