package ripples

import (
	"errors"
	"math"
	"testing"
)

const geoEpsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < geoEpsilon }

func TestResolveGeometryCoverContain(t *testing.T) {
	containers := []Rect{
		{W: 800, H: 600},
		{X: 30, Y: 40, W: 320, H: 900},
		{W: 100, H: 100},
	}
	images := [][2]float64{{1920, 1080}, {64, 64}, {300, 1200}}
	for _, c := range containers {
		for _, img := range images {
			in := GeometryInput{
				Element:  c,
				ImageW:   img[0],
				ImageH:   img[1],
				Position: Position{X: Percent(50), Y: Percent(50)},
			}

			in.Size = Size{Mode: SizeCover}
			g, err := ResolveGeometry(in)
			if err != nil {
				t.Fatalf("cover %v on %v: %v", img, c, err)
			}
			bw, bh := g.BackgroundSize[0], g.BackgroundSize[1]
			if bw < c.W-geoEpsilon || bh < c.H-geoEpsilon {
				t.Errorf("cover %v on %v = %vx%v, smaller than container", img, c, bw, bh)
			}
			if !near(bw, c.W) && !near(bh, c.H) {
				t.Errorf("cover %v on %v = %vx%v, no side matches container", img, c, bw, bh)
			}
			if !near(bw/bh, img[0]/img[1]) {
				t.Errorf("cover %v on %v changed aspect ratio", img, c)
			}

			in.Size = Size{Mode: SizeContain}
			g, err = ResolveGeometry(in)
			if err != nil {
				t.Fatalf("contain %v on %v: %v", img, c, err)
			}
			bw, bh = g.BackgroundSize[0], g.BackgroundSize[1]
			if bw > c.W+geoEpsilon || bh > c.H+geoEpsilon {
				t.Errorf("contain %v on %v = %vx%v, larger than container", img, c, bw, bh)
			}
			if !near(bw, c.W) && !near(bh, c.H) {
				t.Errorf("contain %v on %v = %vx%v, no side matches container", img, c, bw, bh)
			}
		}
	}
}

func TestResolveGeometryFullCoverage(t *testing.T) {
	g, err := ResolveGeometry(GeometryInput{
		Element:  Rect{X: 15, Y: 25, W: 640, H: 480},
		ImageW:   123,
		ImageH:   77,
		Position: Position{X: Percent(50), Y: Percent(50)},
		Size:     Size{Width: Percent(100), Height: Percent(100)},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := Geometry{
		TopLeft:          [2]float64{0, 0},
		BottomRight:      [2]float64{1, 1},
		ContainerRatio:   [2]float64{1, 0.75},
		BackgroundSize:   [2]float64{640, 480},
		BackgroundOrigin: [2]float64{15, 25},
	}
	if g != want {
		t.Errorf("ResolveGeometry = %+v, want %+v", g, want)
	}
}

func TestResolveGeometryPlacement(t *testing.T) {
	el := Rect{X: 0, Y: 0, W: 100, H: 50}
	tests := []struct {
		name     string
		pos      Position
		size     Size
		imgW     float64
		imgH     float64
		wantTL   [2]float64
		wantBR   [2]float64
		wantSize [2]float64
	}{
		{
			name:     "natural size at origin",
			pos:      Position{X: Percent(0), Y: Percent(0)},
			size:     Size{Width: Auto, Height: Auto},
			imgW:     200,
			imgH:     100,
			wantTL:   [2]float64{0, 0},
			wantBR:   [2]float64{0.5, 0.5},
			wantSize: [2]float64{200, 100},
		},
		{
			name:     "right aligned percentage",
			pos:      Position{X: Percent(100), Y: Percent(0)},
			size:     Size{Width: Pixels(200), Height: Pixels(100)},
			imgW:     10,
			imgH:     10,
			wantTL:   [2]float64{0.5, 0},
			wantBR:   [2]float64{1, 0.5},
			wantSize: [2]float64{200, 100},
		},
		{
			name:     "pixel offset",
			pos:      Position{X: Pixels(10), Y: Pixels(-25)},
			size:     Size{Width: Pixels(100), Height: Pixels(100)},
			imgW:     10,
			imgH:     10,
			wantTL:   [2]float64{-0.1, 0.25},
			wantBR:   [2]float64{0.9, 0.75},
			wantSize: [2]float64{100, 100},
		},
		{
			name:     "auto width follows height",
			pos:      Position{X: Percent(0), Y: Percent(0)},
			size:     Size{Width: Auto, Height: Pixels(100)},
			imgW:     200,
			imgH:     50,
			wantTL:   [2]float64{0, 0},
			wantBR:   [2]float64{0.25, 0.5},
			wantSize: [2]float64{400, 100},
		},
		{
			name:     "auto height follows width",
			pos:      Position{X: Percent(0), Y: Percent(0)},
			size:     Size{Width: Percent(50), Height: Auto},
			imgW:     100,
			imgH:     200,
			wantTL:   [2]float64{0, 0},
			wantBR:   [2]float64{2, 0.5},
			wantSize: [2]float64{50, 100},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ResolveGeometry(GeometryInput{
				Element:  el,
				ImageW:   tt.imgW,
				ImageH:   tt.imgH,
				Position: tt.pos,
				Size:     tt.size,
			})
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 2; i++ {
				if !near(g.TopLeft[i], tt.wantTL[i]) || !near(g.BottomRight[i], tt.wantBR[i]) {
					t.Fatalf("rect = %v..%v, want %v..%v", g.TopLeft, g.BottomRight, tt.wantTL, tt.wantBR)
				}
				if !near(g.BackgroundSize[i], tt.wantSize[i]) {
					t.Fatalf("BackgroundSize = %v, want %v", g.BackgroundSize, tt.wantSize)
				}
			}
		})
	}
}

func TestResolveGeometryFixedAttachment(t *testing.T) {
	in := GeometryInput{
		Element:    Rect{X: 100, Y: 300, W: 200, H: 100},
		Viewport:   Rect{X: 0, Y: 200, W: 400, H: 400},
		ImageW:     50,
		ImageH:     50,
		Position:   Position{X: Percent(0), Y: Percent(0)},
		Size:       Size{Width: Percent(100), Height: Percent(100)},
		Attachment: AttachFixed,
	}
	g, err := ResolveGeometry(in)
	if err != nil {
		t.Fatal(err)
	}
	if g.BackgroundSize != [2]float64{400, 400} {
		t.Errorf("BackgroundSize = %v, want viewport size", g.BackgroundSize)
	}
	if !near(g.TopLeft[0], 0.25) || !near(g.TopLeft[1], 0.25) {
		t.Errorf("TopLeft = %v, want [0.25 0.25]", g.TopLeft)
	}
	if !near(g.BottomRight[0], 0.75) || !near(g.BottomRight[1], 0.5) {
		t.Errorf("BottomRight = %v, want [0.75 0.5]", g.BottomRight)
	}

	in.Attachment = AttachScroll
	g, err = ResolveGeometry(in)
	if err != nil {
		t.Fatal(err)
	}
	if g.TopLeft != [2]float64{0, 0} || g.BottomRight != [2]float64{1, 1} {
		t.Errorf("scroll attachment rect = %v..%v, want element-relative", g.TopLeft, g.BottomRight)
	}
}

func TestResolveGeometryUnavailable(t *testing.T) {
	base := GeometryInput{
		Element: Rect{W: 10, H: 10},
		ImageW:  10,
		ImageH:  10,
		Size:    Size{Width: Auto, Height: Auto},
	}
	tests := []struct {
		name string
		edit func(*GeometryInput)
	}{
		{"zero image width", func(in *GeometryInput) { in.ImageW = 0 }},
		{"zero image height", func(in *GeometryInput) { in.ImageH = 0 }},
		{"zero element width", func(in *GeometryInput) { in.Element.W = 0 }},
		{"zero element height", func(in *GeometryInput) { in.Element.H = 0 }},
		{"zero explicit size", func(in *GeometryInput) { in.Size = Size{Width: Pixels(0), Height: Pixels(5)} }},
		{"empty fixed viewport", func(in *GeometryInput) {
			in.Attachment = AttachFixed
			in.Size = Size{Mode: SizeCover}
		}},
	}
	for _, tt := range tests {
		in := base
		tt.edit(&in)
		if _, err := ResolveGeometry(in); !errors.Is(err, ErrGeometryUnavailable) {
			t.Errorf("%s: err = %v, want ErrGeometryUnavailable", tt.name, err)
		}
	}
}
