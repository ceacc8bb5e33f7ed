package ripples

import "testing"

func borderedElement() *Element {
	el := NewElement(10, 20, 40, 40)
	el.BorderLeft, el.BorderTop = 2, 3
	return el
}

func TestHandlePointerMatchesDrop(t *testing.T) {
	tests := []struct {
		name     string
		kind     PointerKind
		points   []PagePoint
		radius   float64
		strength float64
	}{
		{"move", PointerMove, []PagePoint{{X: 27, Y: 48}}, 20, 0.01},
		{"down", PointerDown, []PagePoint{{X: 27, Y: 48}}, 30, 0.14},
		{"touch start", TouchStart, []PagePoint{{X: 20, Y: 30}, {X: 45, Y: 55}}, 20, 0.01},
		{"touch move", TouchMove, []PagePoint{{X: 40, Y: 25}}, 20, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viaPointer := newTestEffect(t, borderedElement(), WithResolution(16))
			viaDrop := newTestEffect(t, borderedElement(), WithResolution(16))

			viaPointer.HandlePointer(PointerEvent{Kind: tt.kind, Points: tt.points})
			for _, p := range tt.points {
				if err := viaDrop.Drop(p.X-12, p.Y-23, tt.radius, tt.strength); err != nil {
					t.Fatal(err)
				}
			}
			got, want := fieldCopy(t, viaPointer), fieldCopy(t, viaDrop)
			if !sameField(got, want) {
				t.Error("pointer event field differs from the equivalent drops")
			}
			if want.Energy() == 0 {
				t.Error("equivalent drops left the field flat")
			}
		})
	}
}

func TestHandlePointerGating(t *testing.T) {
	down := PointerEvent{Kind: PointerDown, Points: []PagePoint{{X: 30, Y: 40}}}
	tests := []struct {
		name  string
		setup func(*testing.T, *Effect)
	}{
		{"not interactive", func(t *testing.T, fx *Effect) {
			if err := fx.Set("interactive", false); err != nil {
				t.Fatal(err)
			}
		}},
		{"paused", func(_ *testing.T, fx *Effect) { fx.Pause() }},
		{"hidden", func(_ *testing.T, fx *Effect) { fx.Hide() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTestEffect(t, borderedElement(), WithResolution(16))
			tt.setup(t, fx)
			fx.HandlePointer(down)
			v := fieldCopy(t, fx)
			if e := v.Energy(); e != 0 {
				t.Errorf("field energy = %v after a gated pointer event, want 0", e)
			}
		})
	}

	fx := newTestEffect(t, borderedElement(), WithResolution(16), WithInteractive(false))
	if err := fx.Set("interactive", true); err != nil {
		t.Fatal(err)
	}
	fx.HandlePointer(down)
	if v := fieldCopy(t, fx); v.Energy() == 0 {
		t.Error("pointer event ignored after re-enabling interaction")
	}
}
