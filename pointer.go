package ripples

// PointerKind identifies the host input event a PointerEvent came from.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerDown
	TouchStart
	TouchMove
)

// PagePoint is a pointer position in page coordinates.
type PagePoint struct {
	X, Y float64
}

// PointerEvent is a pointer or touch event. Mouse events carry one point;
// touch events carry every changed touch.
type PointerEvent struct {
	Kind   PointerKind
	Points []PagePoint
}

// HandlePointer turns a host pointer event into drops. Events are ignored
// unless the effect is visible, running and interactive. Mouse moves and
// touches leave small drops; presses leave larger, stronger ones.
func (e *Effect) HandlePointer(ev PointerEvent) {
	if e.destroyed || !e.visible || !e.running || !e.cfg.Interactive {
		return
	}
	radius, strength := e.cfg.DropRadius, mouseMoveStrength
	switch ev.Kind {
	case PointerDown:
		radius, strength = e.cfg.DropRadius*pressRadiusScale, mouseDownStrength
	}
	for _, p := range ev.Points {
		e.dropAtPointer(p, radius, strength)
	}
}

// dropAtPointer converts a page point to client-box coordinates and drops.
func (e *Effect) dropAtPointer(p PagePoint, radius, strength float64) {
	ox, oy := e.surface.Offset()
	bl, bt := e.surface.Borders()
	_ = e.Drop(p.X-ox-bl, p.Y-oy-bt, radius, strength)
}
