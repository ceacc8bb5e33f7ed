package ripples

import "math"

// DropParams are the arguments of the drop injection kernel. Center is in
// longest-side-normalized surface space [-1, 1]; Radius is in texture
// coordinate units.
type DropParams struct {
	Center   [2]float32
	Radius   float32
	Strength float32
}

// UpdateParams are the arguments of the propagation kernel. Delta is the
// size of one texel in texture coordinates.
type UpdateParams struct {
	Delta [2]float32
}

func texelDelta(resolution int) [2]float32 {
	d := 1 / float32(resolution)
	return [2]float32{d, d}
}

// dropRows runs the drop kernel over rows [y0, y1), reading src and writing
// dst. Only the height channel changes.
func dropRows(src, dst []float32, res int, p DropParams, y0, y1 int) {
	cx := p.Center[0]*0.5 + 0.5
	cy := p.Center[1]*0.5 + 0.5
	inv := 1 / float32(res)
	for y := y0; y < y1; y++ {
		row := y * res * texelChannels
		copy(dst[row:row+res*texelChannels], src[row:row+res*texelChannels])
		if p.Radius <= 0 || p.Strength == 0 {
			continue
		}
		v := (float32(y) + 0.5) * inv
		dy := cy - v
		for x := 0; x < res; x++ {
			u := (float32(x) + 0.5) * inv
			dx := cx - u
			dist := float32(math.Sqrt(float64(dx*dx+dy*dy))) / p.Radius
			drop := 1 - dist
			if drop <= 0 {
				continue
			}
			falloff := 0.5 - 0.5*float32(math.Cos(math.Pi*float64(drop)))
			dst[row+x*texelChannels+chanHeight] += p.Strength * falloff
		}
	}
}

// updateRows advances rows [y0, y1) by one timestep. Neighbor sampling clamps
// at the grid edge.
func updateRows(src, dst []float32, res int, y0, y1 int) {
	last := res - 1
	stride := res * texelChannels
	for y := y0; y < y1; y++ {
		row := y * stride
		up := clampCoord(y+1, 0, last) * stride
		down := clampCoord(y-1, 0, last) * stride
		for x := 0; x < res; x++ {
			i := row + x*texelChannels
			left := row + clampCoord(x-1, 0, last)*texelChannels
			right := row + clampCoord(x+1, 0, last)*texelChannels
			col := x * texelChannels

			h := src[i+chanHeight]
			avg := (src[left] + src[right] + src[down+col] + src[up+col]) * 0.25
			vel := src[i+chanVelocity]
			vel += (avg - h) * waveSpeed32
			vel *= waveDamp32

			dst[i+chanHeight] = h + vel
			dst[i+chanVelocity] = vel
			dst[i+2] = src[i+2]
			dst[i+3] = src[i+3]
		}
	}
}
