package ripples

import (
	"math"
	"testing"
)

func quantized(v float32) float32 {
	buf := []float32{v}
	quantizeHalf(buf)
	return buf[0]
}

func TestQuantizeHalf(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{-2, -2},
		{0.25, 0.25},
		{65504, 65504},
		{0.1, 0.0999755859375},
		{1e6, float32(math.Inf(1))},
		{-1e6, float32(math.Inf(-1))},
		{5.9604645e-08, 5.9604645e-08},
		{1e-10, 0},
	}
	for _, tt := range tests {
		if got := quantized(tt.in); got != tt.want {
			t.Errorf("quantizeHalf(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := quantized(float32(math.NaN())); !math.IsNaN(float64(got)) {
		t.Errorf("quantizeHalf(NaN) = %v, want NaN", got)
	}
}

func TestQuantizeHalfIsIdempotent(t *testing.T) {
	buf := []float32{0.1, -0.3333, 123.456, 1e-5}
	quantizeHalf(buf)
	once := append([]float32(nil), buf...)
	quantizeHalf(buf)
	for i := range buf {
		if buf[i] != once[i] {
			t.Errorf("value %d changed on second pass: %v -> %v", i, once[i], buf[i])
		}
	}
}
