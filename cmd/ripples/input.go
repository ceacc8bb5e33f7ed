package main

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/archer102125220/ripples"
)

const (
	mouseDownStrength  = 0.14
	perturbanceStep    = 0.01
	keyboardDropRadius = 2.0
)

// dispatchPointer forwards mouse and touch input to the effect. The element
// fills the window, so window coordinates are page coordinates.
func (g *Game) dispatchPointer() {
	cx, cy := ebiten.CursorPosition()
	if cx != g.lastCursorX || cy != g.lastCursorY {
		if g.lastCursorX >= 0 {
			g.fx.HandlePointer(pointerEvent(ripples.PointerMove, cx, cy))
		}
		g.lastCursorX, g.lastCursorY = cx, cy
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.fx.HandlePointer(pointerEvent(ripples.PointerDown, cx, cy))
	}

	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		delete(g.touches, id)
	}
	started := inpututil.AppendJustPressedTouchIDs(nil)
	for _, id := range started {
		g.touches[id] = touchPoint(id)
	}
	if len(started) > 0 {
		g.fx.HandlePointer(touchEvent(ripples.TouchStart, started))
	}

	if moved := movedTouches(g.touches, ebiten.AppendTouchIDs(nil), touchPoint); len(moved) > 0 {
		g.fx.HandlePointer(touchEvent(ripples.TouchMove, moved))
	}
}

// movedTouches records the position of every held touch in known and
// returns those that changed position since the last call. A touch seen for
// the first time is recorded, not reported.
func movedTouches(known map[ebiten.TouchID]image.Point, held []ebiten.TouchID, pos func(ebiten.TouchID) image.Point) []ebiten.TouchID {
	var moved []ebiten.TouchID
	for _, id := range held {
		p := pos(id)
		if last, ok := known[id]; ok && last != p {
			moved = append(moved, id)
		}
		known[id] = p
	}
	return moved
}

func touchPoint(id ebiten.TouchID) image.Point {
	x, y := ebiten.TouchPosition(id)
	return image.Pt(x, y)
}

func pointerEvent(kind ripples.PointerKind, x, y int) ripples.PointerEvent {
	return ripples.PointerEvent{
		Kind:   kind,
		Points: []ripples.PagePoint{{X: float64(x), Y: float64(y)}},
	}
}

func touchEvent(kind ripples.PointerKind, ids []ebiten.TouchID) ripples.PointerEvent {
	ev := ripples.PointerEvent{Kind: kind, Points: make([]ripples.PagePoint, 0, len(ids))}
	for _, id := range ids {
		p := touchPoint(id)
		ev.Points = append(ev.Points, ripples.PagePoint{X: float64(p.X), Y: float64(p.Y)})
	}
	return ev
}

// handleControls maps keys onto the effect's public operations:
// P pause/play, H hide/show, Space center drop, +/- perturbance,
// Escape destroy.
func (g *Game) handleControls() {
	state := g.fx.State()
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if state.Running {
			g.fx.Pause()
		} else {
			g.fx.Play()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if state.Visible {
			g.fx.Hide()
		} else {
			g.fx.Show()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		cfg := g.fx.Config()
		_ = g.fx.Drop(g.element.Width/2, g.element.Height/2, cfg.DropRadius*keyboardDropRadius, mouseDownStrength)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustPerturbance(perturbanceStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustPerturbance(-perturbanceStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.fx.Destroy()
	}
}

// adjustPerturbance nudges the refraction strength, never below zero.
func (g *Game) adjustPerturbance(delta float64) {
	p := g.fx.Config().Perturbance + delta
	if p < 0 {
		p = 0
	}
	_ = g.fx.Set("perturbance", p)
}
