package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/archer102125220/ripples"
)

// Game hosts one ripple effect over a window-sized element.
type Game struct {
	element *ripples.Element
	fx      *ripples.Effect

	// target receives the composited frame; background is the plain image
	// drawn while the effect is hidden.
	target     *ebiten.Image
	background *ebiten.Image
	loader     *ripples.HTTPLoader
	decoded    atomic.Pointer[image.Image]

	lastCursorX, lastCursorY int
	touches                  map[ebiten.TouchID]image.Point
	layoutW, layoutH         int
	lastTickDuration         time.Duration

	autoDrops         bool
	autoDropsDeadline time.Time
	autoDropsStop     func()
	autoRand          *rand.Rand
}

// newGame builds the element and attaches the effect to it.
func newGame() (*Game, error) {
	if *imageFlag == "" {
		return nil, errors.New("no background image; pass -image")
	}
	g := &Game{
		lastCursorX: -1,
		lastCursorY: -1,
		loader:      ripples.DefaultLoader(),
		touches:     make(map[ebiten.TouchID]image.Point),
	}
	g.element = ripples.NewElement(0, 0, float64(*widthFlag), float64(*heightFlag))
	g.element.StylesheetImage = fmt.Sprintf(`url("%s")`, *imageFlag)
	g.element.BackgroundSize = *bgSizeFlag
	g.element.BackgroundPosition = *bgPositionFlag
	g.element.BackgroundAttachment = *bgAttachmentFlag

	fx, err := ripples.New(g.element,
		ripples.WithResolution(*resolutionFlag),
		ripples.WithDropRadius(*dropRadiusFlag),
		ripples.WithPerturbance(*perturbanceFlag),
		ripples.WithInteractive(*interactiveFlag),
		ripples.WithCrossOrigin(*crossOriginFlag),
		ripples.WithDevice(ripples.OpenDevice(*openCLFlag)),
		ripples.WithLoader(ripples.LoaderFunc(g.loadAndKeep)),
	)
	if err != nil {
		return nil, err
	}
	g.fx = fx

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := fx.AwaitImage(ctx); err != nil {
		log.Printf("Background image unavailable, rendering transparent: %v", err)
	}
	return g, nil
}

// loadAndKeep loads through the game's loader and keeps the decoded image
// so the plain background can be drawn while the effect is hidden.
func (g *Game) loadAndKeep(ctx context.Context, src, crossOrigin string) (image.Image, error) {
	img, err := g.loader.Load(ctx, src, crossOrigin)
	if err != nil {
		return nil, err
	}
	g.decoded.Store(&img)
	return img, nil
}

// Update handles input, tracks the window size and advances the effect.
func (g *Game) Update() error {
	if g.layoutW > 0 && g.layoutH > 0 {
		g.resize(g.layoutW, g.layoutH)
	}
	g.handleControls()
	if g.fx.State().Destroyed {
		return ebiten.Termination
	}
	g.dispatchPointer()
	g.runAutoDrops()

	start := time.Now()
	if !g.fx.Tick() {
		return ebiten.Termination
	}
	g.lastTickDuration = time.Since(start)
	return nil
}

// resize follows the window size; only the output target changes, the
// simulation grid keeps its resolution.
func (g *Game) resize(w, h int) {
	if int(g.element.Width) == w && int(g.element.Height) == h {
		return
	}
	g.element.Width, g.element.Height = float64(w), float64(h)
	g.element.View = ripples.Rect{W: float64(w), H: float64(h)}
	g.fx.UpdateSize()
}

// enableAutoDrops drops random ripples until duration elapses, then calls
// stop.
func (g *Game) enableAutoDrops(duration time.Duration, stop func()) {
	g.autoDrops = true
	g.autoDropsDeadline = time.Now().Add(duration)
	g.autoDropsStop = stop
	g.autoRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (g *Game) runAutoDrops() {
	if !g.autoDrops {
		return
	}
	if time.Now().After(g.autoDropsDeadline) {
		g.autoDrops = false
		if g.autoDropsStop != nil {
			g.autoDropsStop()
		}
		return
	}
	cfg := g.fx.Config()
	x := g.autoRand.Float64() * g.element.Width
	y := g.autoRand.Float64() * g.element.Height
	_ = g.fx.Drop(x, y, cfg.DropRadius, mouseDownStrength)
}

func (g *Game) close() {
	if g.autoDropsStop != nil {
		g.autoDropsStop()
	}
	g.fx.Destroy()
}
