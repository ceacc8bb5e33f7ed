package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw presents the composited ripple frame, or the element's plain
// background while the effect is hidden.
func (g *Game) Draw(screen *ebiten.Image) {
	state := g.fx.State()
	switch {
	case state.Destroyed:
	case state.Visible:
		g.drawEffect(screen)
	default:
		g.drawPlainBackground(screen)
	}

	if *debugFlag {
		cfg := g.fx.Config()
		msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nTick: %.2f ms\nRunning: %v  Visible: %v\nPerturbance: %.2f (+/-)",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.lastTickDuration.Seconds()*1000,
			state.Running, state.Visible, cfg.Perturbance)
		ebitenutil.DebugPrint(screen, msg)
	}
}

func (g *Game) drawEffect(screen *ebiten.Image) {
	out := g.fx.Output()
	if out == nil {
		return
	}
	b := out.Bounds()
	if b.Empty() {
		return
	}
	if g.target != nil && g.target.Bounds().Size() != b.Size() {
		g.target.Deallocate()
		g.target = nil
	}
	if g.target == nil {
		g.target = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.target.WritePixels(out.Pix)
	screen.DrawImage(g.target, nil)
}

// drawPlainBackground renders the background the way the page would without
// the effect: the image placed by the resolved background geometry.
func (g *Game) drawPlainBackground(screen *ebiten.Image) {
	if g.background == nil {
		decoded := g.decoded.Load()
		if decoded == nil {
			return
		}
		g.background = ebiten.NewImageFromImage(*decoded)
	}
	geo, err := g.fx.Geometry()
	if err != nil {
		return
	}
	bw, bh := g.background.Bounds().Dx(), g.background.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(geo.BackgroundSize[0]/float64(bw), geo.BackgroundSize[1]/float64(bh))
	op.GeoM.Translate(geo.BackgroundOrigin[0]-g.element.X, geo.BackgroundOrigin[1]-g.element.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.background, op)
}

// Layout makes the logical screen follow the window; the element is resized
// on the next Update.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.layoutW, g.layoutH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
