package ripples

import (
	"image"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RenderParams are the arguments of the refraction compositor.
type RenderParams struct {
	Geometry    Geometry
	Perturbance float64
	// Delta is the size of one simulation texel in texture coordinates.
	Delta [2]float32
	// Linear selects bilinear height sampling; nearest otherwise.
	Linear bool
}

// composite renders the refracted background into dst. Every output pixel
// depends only on field and bg, so rows are split into bands rendered in
// parallel.
func composite(dst *image.RGBA, field FieldView, bg *texture, p RenderParams) error {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > h {
		workers = h
	}
	per := (h + workers - 1) / workers

	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += per {
		y0 := y0
		y1 := min(y0+per, h)
		g.Go(func() error {
			compositeRows(dst, field, bg, p, y0, y1)
			return nil
		})
	}
	return g.Wait()
}

func compositeRows(dst *image.RGBA, field FieldView, bg *texture, p RenderParams, y0, y1 int) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	geo := p.Geometry
	ext := geo.Extent()
	dx, dy := float64(p.Delta[0]), float64(p.Delta[1])
	sampleHeight := field.nearestHeight
	if p.Linear {
		sampleHeight = field.linearHeight
	}

	for py := y0; py < y1; py++ {
		fy := (float64(py) + 0.5) / h
		clipY := 1 - 2*fy
		rv := clipY*geo.ContainerRatio[1]*0.5 + 0.5
		bgV := geo.TopLeft[1] + ext[1]*fy
		row := dst.Pix[py*dst.Stride:]

		for px := 0; px < b.Dx(); px++ {
			fx := (float64(px) + 0.5) / w
			clipX := 2*fx - 1
			ru := clipX*geo.ContainerRatio[0]*0.5 + 0.5
			bgU := geo.TopLeft[0] + ext[0]*fx

			height := sampleHeight(ru, rv)
			heightX := sampleHeight(ru+dx, rv)
			heightY := sampleHeight(ru, rv+dy)

			// -normalize(cross((0, hY-h, dy), (dx, hX-h, 0))).xz
			nx := dy * (heightX - height)
			ny := dx * dy
			nz := dx * (heightY - height)
			inv := 1 / math.Sqrt(nx*nx+ny*ny+nz*nz)
			ox, oy := nx*inv, nz*inv

			spec := math.Max(0, ox*specularLightX+oy*specularLightY)
			spec = math.Pow(spec, specularExponent)

			// the ripple texture's v axis points up, the image's down
			c := bg.sample(bgU+ox*p.Perturbance, bgV-oy*p.Perturbance)
			s := float32(spec)
			r := clamp01(c[0] + s)
			gg := clamp01(c[1] + s)
			bb := clamp01(c[2] + s)
			a := clamp01(c[3] + s)

			i := px * 4
			row[i+0] = uint8(r*a*255 + 0.5)
			row[i+1] = uint8(gg*a*255 + 0.5)
			row[i+2] = uint8(bb*a*255 + 0.5)
			row[i+3] = uint8(a*255 + 0.5)
		}
	}
}

// clearTarget makes dst fully transparent.
func clearTarget(dst *image.RGBA) {
	if dst == nil {
		return
	}
	clear(dst.Pix)
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalize2(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	return x / l, y / l
}

// nearestHeight samples the height channel at texture coordinate (u, v)
// without filtering.
func (v FieldView) nearestHeight(u, t float64) float64 {
	res := float64(v.Resolution)
	return float64(v.Height(int(math.Floor(u*res)), int(math.Floor(t*res))))
}

// linearHeight samples the height channel at texture coordinate (u, v) with
// bilinear filtering and edge clamping.
func (v FieldView) linearHeight(u, t float64) float64 {
	res := float64(v.Resolution)
	x := u*res - 0.5
	y := t*res - 0.5
	fx, fy := math.Floor(x), math.Floor(y)
	x0, y0 := int(fx), int(fy)
	tx, ty := x-fx, y-fy
	h00 := float64(v.Height(x0, y0))
	h10 := float64(v.Height(x0+1, y0))
	h01 := float64(v.Height(x0, y0+1))
	h11 := float64(v.Height(x0+1, y0+1))
	bottom := h00 + (h10-h00)*tx
	top := h01 + (h11-h01)*tx
	return bottom + (top-bottom)*ty
}
