package ripples

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Tick runs one frame: apply finished image loads, then, while visible,
// follow the surface size, resolve the background geometry, propagate
// (unless paused) and composite.
// It reports false once the effect is destroyed, at which point the host
// should stop scheduling ticks.
func (e *Effect) Tick() bool {
	if e.destroyed {
		return false
	}
	e.drainLoads()
	if !e.visible {
		return true
	}

	e.UpdateSize()
	geo, geoErr := e.Geometry()
	if e.running {
		if err := e.device.Update(UpdateParams{Delta: e.delta}); err != nil {
			e.log.Warn("ripples: propagation failed", "err", err)
		}
	}
	e.render(geo, geoErr)
	return true
}

// Geometry resolves the current background placement. Layout and styles may
// change at any time, so nothing is cached between calls.
func (e *Effect) Geometry() (Geometry, error) {
	if e.destroyed || !e.hasImage {
		return Geometry{}, ErrGeometryUnavailable
	}
	bg := e.surface.Background()
	pos, err := ParsePosition(bg.Position)
	if err != nil {
		return Geometry{}, errors.Join(ErrGeometryUnavailable, err)
	}
	size, err := ParseSize(bg.Size)
	if err != nil {
		return Geometry{}, errors.Join(ErrGeometryUnavailable, err)
	}
	return ResolveGeometry(GeometryInput{
		Element:    clientBox(e.surface),
		Viewport:   e.surface.Viewport(),
		ImageW:     e.imgW,
		ImageH:     e.imgH,
		Position:   pos,
		Size:       size,
		Attachment: ParseAttachment(bg.Attachment),
	})
}

// render composites the current field into the output target, or clears it
// when there is nothing to map the distortion onto.
func (e *Effect) render(geo Geometry, geoErr error) {
	if geoErr != nil {
		e.log.Debug("ripples: skipping composite", "err", geoErr)
		clearTarget(e.out)
		return
	}
	field, err := e.device.Field()
	if err != nil {
		e.log.Warn("ripples: reading field", "err", err)
		clearTarget(e.out)
		return
	}
	err = composite(e.out, field, e.bg, RenderParams{
		Geometry:    geo,
		Perturbance: e.cfg.Perturbance,
		Delta:       e.delta,
		Linear:      e.profile.Linear,
	})
	if err != nil {
		e.log.Warn("ripples: composite failed", "err", err)
		clearTarget(e.out)
	}
}

// loadImage starts loading the configured image, falling back to the URL in
// the element's original background-image. A source that is already loaded
// or loading is not fetched again.
func (e *Effect) loadImage() {
	src := e.cfg.ImageURL
	if src == "" {
		src = ExtractURL(e.originalComputed)
	}
	if src == "" {
		src = ExtractURL(e.surface.Background().Image)
	}
	if src == e.imageSource {
		return
	}
	e.imageSource = src
	e.loadGen++
	if src == "" {
		e.pending = false
		e.setTransparent()
		return
	}

	mode := e.cfg.CrossOrigin
	if isDataURI(src) {
		mode = ""
	}
	gen := e.loadGen
	e.pending = true
	e.log.Info("ripples: loading image", "src", shortSource(src))
	go func() {
		img, err := e.loader.Load(e.ctx, src, mode)
		select {
		case e.loads <- loadResult{gen: gen, src: src, img: img, err: err}:
		case <-e.ctx.Done():
		}
	}()
}

// drainLoads applies finished loads without blocking.
func (e *Effect) drainLoads() {
	for {
		select {
		case r := <-e.loads:
			e.applyLoad(r)
		default:
			return
		}
	}
}

// AwaitImage blocks until the most recently requested image has loaded or
// failed, and applies it. It returns the load error, if any; the effect has
// already fallen back to a transparent background in that case.
func (e *Effect) AwaitImage(ctx context.Context) error {
	for !e.destroyed && e.pending {
		select {
		case r := <-e.loads:
			if err := e.applyLoad(r); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// applyLoad installs a finished load unless a newer one superseded it.
func (e *Effect) applyLoad(r loadResult) error {
	if r.gen != e.loadGen || e.destroyed {
		return nil
	}
	e.pending = false
	if r.err != nil {
		if !errors.Is(r.err, ErrImageLoad) {
			r.err = fmt.Errorf("%w: %s: %w", ErrImageLoad, shortSource(r.src), r.err)
		}
		e.log.Warn("ripples: image load failed, using transparent background", "src", shortSource(r.src), "err", r.err)
		e.setTransparent()
		return r.err
	}
	e.setImage(r.img)
	e.log.Info("ripples: image ready", "src", shortSource(r.src), "width", e.imgW, "height", e.imgH)
	return nil
}

func (e *Effect) setImage(img image.Image) {
	b := img.Bounds()
	if b.Empty() {
		e.setTransparent()
		return
	}
	e.bg = newTexture(img)
	e.imgW, e.imgH = float64(b.Dx()), float64(b.Dy())
	e.hasImage = true
	if e.visible {
		e.hideCSSBackground()
	}
}

func (e *Effect) setTransparent() {
	e.bg = transparentTexture()
	e.imgW, e.imgH = 0, 0
	e.hasImage = false
}
