package renderer

// bayerLimits is the 4x4 ordered-dither threshold matrix, indexed x + y*4.
var bayerLimits = [16]float32{
	0.0625, 0.5625, 0.1875, 0.6875,
	0.8125, 0.3125, 0.9375, 0.4375,
	0.25, 0.75, 0.125, 0.625,
	1.0, 0.5, 0.875, 0.375,
}

// ditherDarken scales pixels whose luma falls under their threshold.
const ditherDarken float32 = 0.92

// Luma returns the Rec. 601 brightness of an RGB color.
func Luma(c [3]float32) float32 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

// DitherFactor returns the multiplier the dither pass applies to the pixel
// at window coordinate (x, y) with color c. It mirrors dither.frag.
func DitherFactor(x, y int, c [3]float32) float32 {
	x, y = ((x%4)+4)%4, ((y%4)+4)%4
	if Luma(c) < bayerLimits[x+y*4] {
		return ditherDarken
	}
	return 1
}
