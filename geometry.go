package ripples

import "math"

// Rect is an axis-aligned box in page coordinates.
type Rect struct {
	X, Y, W, H float64
}

// GeometryInput is everything the background geometry resolver depends on.
type GeometryInput struct {
	// Element is the element's client box: page offset and inner size.
	Element Rect
	// Viewport is the scroll offset and window size. Only used with
	// AttachFixed.
	Viewport Rect
	// ImageW and ImageH are the background image's natural size.
	ImageW, ImageH float64

	Position   Position
	Size       Size
	Attachment Attachment
}

// Geometry maps element-local coordinates onto background image texture
// coordinates. TopLeft and BottomRight are the image-space rectangle visible
// through the element, in units of the rendered background size with y
// growing downwards.
type Geometry struct {
	TopLeft     [2]float64
	BottomRight [2]float64
	// ContainerRatio is the element size divided by its longest side.
	ContainerRatio [2]float64
	// BackgroundSize and BackgroundOrigin are the rendered background box in
	// page pixels.
	BackgroundSize   [2]float64
	BackgroundOrigin [2]float64
}

// Origin is the image-space coordinate of the element's top-left corner.
func (g Geometry) Origin() [2]float64 { return g.TopLeft }

// Extent is the image-space size of the element.
func (g Geometry) Extent() [2]float64 {
	return [2]float64{g.BottomRight[0] - g.TopLeft[0], g.BottomRight[1] - g.TopLeft[1]}
}

// ResolveGeometry replicates CSS background placement for in. It returns
// ErrGeometryUnavailable when the image or element has no area or the
// placement degenerates.
func ResolveGeometry(in GeometryInput) (Geometry, error) {
	el := in.Element
	if in.ImageW <= 0 || in.ImageH <= 0 || el.W <= 0 || el.H <= 0 {
		return Geometry{}, ErrGeometryUnavailable
	}
	container := el
	if in.Attachment == AttachFixed {
		container = in.Viewport
	}

	bgW, bgH := backgroundSize(in.Size, container, in.ImageW, in.ImageH)
	if !finitePositive(bgW) || !finitePositive(bgH) {
		return Geometry{}, ErrGeometryUnavailable
	}

	bgX := container.X + in.Position.X.Resolve(container.W-bgW)
	bgY := container.Y + in.Position.Y.Resolve(container.H-bgH)

	var g Geometry
	g.BackgroundSize = [2]float64{bgW, bgH}
	g.BackgroundOrigin = [2]float64{bgX, bgY}
	g.TopLeft = [2]float64{(el.X - bgX) / bgW, (el.Y - bgY) / bgH}
	g.BottomRight = [2]float64{g.TopLeft[0] + el.W/bgW, g.TopLeft[1] + el.H/bgH}
	longest := math.Max(el.W, el.H)
	g.ContainerRatio = [2]float64{el.W / longest, el.H / longest}
	return g, nil
}

// backgroundSize resolves background-size against the container.
func backgroundSize(size Size, container Rect, imgW, imgH float64) (float64, float64) {
	switch size.Mode {
	case SizeCover:
		scale := math.Max(container.W/imgW, container.H/imgH)
		return imgW * scale, imgH * scale
	case SizeContain:
		scale := math.Min(container.W/imgW, container.H/imgH)
		return imgW * scale, imgH * scale
	}
	w, h := size.Width, size.Height
	switch {
	case w.Auto && h.Auto:
		return imgW, imgH
	case w.Auto:
		bh := h.Resolve(container.H)
		return imgW * (bh / imgH), bh
	case h.Auto:
		bw := w.Resolve(container.W)
		return bw, imgH * (bw / imgW)
	}
	return w.Resolve(container.W), h.Resolve(container.H)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
