package ripples

import "github.com/x448/float16"

// quantizeHalf rounds every value in buf through IEEE 754 binary16 so a
// float32 grid behaves like a half-float render target.
func quantizeHalf(buf []float32) {
	for i, v := range buf {
		buf[i] = float16.Fromfloat32(v).Float32()
	}
}
