package ripples

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// texture is a background image prepared for sampling: straight-alpha
// channels in [0, 1], row 0 at the top.
type texture struct {
	w, h   int
	pix    []float32
	repeat bool
}

// newTexture converts img for sampling. Power-of-two images tile; others
// clamp at the edge.
func newTexture(img image.Image) *texture {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	t := &texture{
		w:      b.Dx(),
		h:      b.Dy(),
		pix:    make([]float32, len(nrgba.Pix)),
		repeat: isPowerOfTwo(b.Dx()) && isPowerOfTwo(b.Dy()),
	}
	for y := 0; y < t.h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+t.w*4]
		dst := t.pix[y*t.w*4 : (y+1)*t.w*4]
		for i, c := range src {
			dst[i] = float32(c) / 255
		}
	}
	return t
}

// transparentTexture is the fallback used when no image is available.
func transparentTexture() *texture {
	return &texture{w: 1, h: 1, pix: make([]float32, 4)}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// wrap maps texel index i into [0, n) by tiling or edge clamping.
func (t *texture) wrap(i, n int) int {
	if t.repeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	return clampCoord(i, 0, n-1)
}

// sample returns the bilinearly filtered color at texture coordinate (u, v),
// v growing downwards.
func (t *texture) sample(u, v float64) [4]float32 {
	x := u*float64(t.w) - 0.5
	y := v*float64(t.h) - 0.5
	fx, fy := math.Floor(x), math.Floor(y)
	x0, y0 := int(fx), int(fy)
	tx, ty := float32(x-fx), float32(y-fy)

	xa, xb := t.wrap(x0, t.w), t.wrap(x0+1, t.w)
	ya, yb := t.wrap(y0, t.h), t.wrap(y0+1, t.h)

	var out [4]float32
	for c := 0; c < 4; c++ {
		c00 := t.pix[(ya*t.w+xa)*4+c]
		c10 := t.pix[(ya*t.w+xb)*4+c]
		c01 := t.pix[(yb*t.w+xa)*4+c]
		c11 := t.pix[(yb*t.w+xb)*4+c]
		top := c00 + (c10-c00)*tx
		bottom := c01 + (c11-c01)*tx
		out[c] = top + (bottom-top)*ty
	}
	return out
}
