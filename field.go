package ripples

// pingPong selects which of two buffers is read (current) and which is
// written (next). A pass never reads and writes the same buffer.
type pingPong struct {
	cur int
}

func (p *pingPong) current() int { return p.cur }
func (p *pingPong) next() int    { return p.cur ^ 1 }
func (p *pingPong) swap()        { p.cur ^= 1 }

// rippleField is the double-buffered simulation state: two equal square
// grids of 4-channel texels (height, velocity, reserved, reserved).
type rippleField struct {
	resolution int
	bufs       [2][]float32
	pp         pingPong
}

// newRippleField allocates a zeroed field of resolution x resolution texels.
func newRippleField(resolution int) (*rippleField, error) {
	if resolution < minResolution {
		return nil, ErrInvalidResolution
	}
	size := resolution * resolution * texelChannels
	return &rippleField{
		resolution: resolution,
		bufs:       [2][]float32{make([]float32, size), make([]float32, size)},
	}, nil
}

func (f *rippleField) currentBuf() []float32 { return f.bufs[f.pp.current()] }
func (f *rippleField) nextBuf() []float32    { return f.bufs[f.pp.next()] }
func (f *rippleField) swap()                 { f.pp.swap() }

// view exposes the current buffer read-only by convention.
func (f *rippleField) view() FieldView {
	return FieldView{Resolution: f.resolution, Texels: f.currentBuf()}
}

// FieldView is a snapshot of the current simulation buffer, row-major with
// row 0 at texture coordinate v=0 (the bottom of the surface) and four
// channels per texel.
type FieldView struct {
	Resolution int
	Texels     []float32
}

// At returns channel ch of texel (x, y), clamping coordinates to the grid
// edge.
func (v FieldView) At(x, y, ch int) float32 {
	last := v.Resolution - 1
	x = clampCoord(x, 0, last)
	y = clampCoord(y, 0, last)
	return v.Texels[(y*v.Resolution+x)*texelChannels+ch]
}

// Height returns the height channel of texel (x, y).
func (v FieldView) Height(x, y int) float32 { return v.At(x, y, chanHeight) }

// Velocity returns the velocity channel of texel (x, y).
func (v FieldView) Velocity(x, y int) float32 { return v.At(x, y, chanVelocity) }

// Energy returns the sum of squared heights.
func (v FieldView) Energy() float64 {
	var sum float64
	for i := chanHeight; i < len(v.Texels); i += texelChannels {
		h := float64(v.Texels[i])
		sum += h * h
	}
	return sum
}

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
