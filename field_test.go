package ripples

import "testing"

func TestPingPongAlternates(t *testing.T) {
	var p pingPong
	for i := 0; i < 4; i++ {
		cur, next := p.current(), p.next()
		if cur == next {
			t.Fatalf("step %d: current and next both %d", i, cur)
		}
		p.swap()
		if p.current() != next {
			t.Fatalf("step %d: current after swap = %d, want %d", i, p.current(), next)
		}
	}
}

func TestNewRippleField(t *testing.T) {
	tests := []struct {
		resolution int
		wantErr    bool
	}{
		{-1, true},
		{0, true},
		{1, true},
		{2, false},
		{256, false},
	}
	for _, tt := range tests {
		f, err := newRippleField(tt.resolution)
		if (err != nil) != tt.wantErr {
			t.Errorf("newRippleField(%d) err = %v, wantErr %v", tt.resolution, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		want := tt.resolution * tt.resolution * texelChannels
		for i, buf := range f.bufs {
			if len(buf) != want {
				t.Errorf("newRippleField(%d): buffer %d has %d values, want %d", tt.resolution, i, len(buf), want)
			}
			for _, v := range buf {
				if v != 0 {
					t.Fatalf("newRippleField(%d): buffer %d not zeroed", tt.resolution, i)
				}
			}
		}
	}
}

func TestFieldSwapExposesWrittenBuffer(t *testing.T) {
	f, err := newRippleField(2)
	if err != nil {
		t.Fatal(err)
	}
	f.nextBuf()[chanHeight] = 3
	if got := f.view().Height(0, 0); got != 0 {
		t.Fatalf("height before swap = %v, want 0", got)
	}
	f.swap()
	if got := f.view().Height(0, 0); got != 3 {
		t.Fatalf("height after swap = %v, want 3", got)
	}
}

func TestFieldViewClampsCoordinates(t *testing.T) {
	v := FieldView{Resolution: 2, Texels: make([]float32, 2*2*texelChannels)}
	for i := 0; i < 4; i++ {
		v.Texels[i*texelChannels+chanHeight] = float32(i + 1)
	}
	tests := []struct {
		x, y int
		want float32
	}{
		{0, 0, 1},
		{1, 0, 2},
		{0, 1, 3},
		{1, 1, 4},
		{-5, 0, 1},
		{9, -1, 2},
		{-1, 7, 3},
		{3, 3, 4},
	}
	for _, tt := range tests {
		if got := v.Height(tt.x, tt.y); got != tt.want {
			t.Errorf("Height(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if got, want := v.Energy(), 1.0+4+9+16; got != want {
		t.Errorf("Energy() = %v, want %v", got, want)
	}
}
