package ripples

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"reflect"
)

// Lifecycle is the visible/running/destroyed state of an effect.
type Lifecycle struct {
	Visible   bool
	Running   bool
	Destroyed bool
}

// loadResult is a finished image load posted back to the frame thread.
type loadResult struct {
	gen uint64
	src string
	img image.Image
	err error
}

// Effect is one ripple effect attached to a host surface. Its methods must
// be called from a single goroutine (the host's frame/event thread). After
// Destroy every method is a silent no-op.
type Effect struct {
	surface Surface
	device  Device
	loader  ImageLoader
	log     *slog.Logger
	profile Profile
	cfg     Config
	delta   [2]float32

	visible   bool
	running   bool
	destroyed bool

	out      *image.RGBA
	bg       *texture
	imgW     float64
	imgH     float64
	hasImage bool

	imageSource      string
	originalInline   string
	originalComputed string

	ctx     context.Context
	cancel  context.CancelFunc
	loads   chan loadResult
	loadGen uint64
	pending bool
}

// New attaches an effect to surface. It fails with a *CapabilityError when
// the device has no usable floating-point pixel format; no partial instance
// is left behind.
func New(surface Surface, opts ...Option) (*Effect, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		o.device = NewCPUDevice(CPUProfile())
	}
	if o.loader == nil {
		o.loader = DefaultLoader()
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	profile := o.device.Profile()
	if err := profile.check(); err != nil {
		o.device.Close()
		return nil, err
	}
	if err := o.device.Allocate(o.config.Resolution); err != nil {
		o.device.Close()
		return nil, fmt.Errorf("allocating %dx%d ripple field: %w", o.config.Resolution, o.config.Resolution, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Effect{
		surface:          surface,
		device:           o.device,
		loader:           o.loader,
		log:              o.logger,
		profile:          profile,
		cfg:              o.config,
		delta:            texelDelta(o.config.Resolution),
		visible:          true,
		running:          true,
		bg:               transparentTexture(),
		originalInline:   surface.InlineBackgroundImage(),
		originalComputed: surface.Background().Image,
		ctx:              ctx,
		cancel:           cancel,
		loads:            make(chan loadResult, 4),
	}
	e.log.Info("ripples: effect created",
		"device", profile.Name, "format", profile.Format.String(), "resolution", o.config.Resolution)
	e.UpdateSize()
	e.loadImage()
	return e, nil
}

// State returns the lifecycle flags.
func (e *Effect) State() Lifecycle {
	return Lifecycle{Visible: e.visible, Running: e.running, Destroyed: e.destroyed}
}

// Config returns a copy of the current configuration.
func (e *Effect) Config() Config { return e.cfg }

// Profile returns the capability profile of the effect's device.
func (e *Effect) Profile() Profile { return e.profile }

// Output is the render target, sized to the surface's client box. It is nil
// after Destroy.
func (e *Effect) Output() *image.RGBA { return e.out }

// Field returns the current simulation buffer.
func (e *Effect) Field() (FieldView, error) {
	if e.destroyed {
		return FieldView{}, ErrDeviceClosed
	}
	return e.device.Field()
}

// Drop injects a ripple at surface-local pixel (x, y). radius is in pixels;
// strength is a signed impulse.
func (e *Effect) Drop(x, y, radius, strength float64) error {
	if e.destroyed {
		return nil
	}
	w, h := e.surface.InnerSize()
	longest := math.Max(w, h)
	if longest <= 0 {
		return nil
	}
	p := DropParams{
		Center: [2]float32{
			float32((2*x - w) / longest),
			float32((h - 2*y) / longest),
		},
		Radius:   float32(radius / longest),
		Strength: float32(strength),
	}
	if err := e.device.Drop(p); err != nil {
		e.log.Warn("ripples: drop failed", "err", err)
		return err
	}
	return nil
}

// Show makes the effect visible again and re-suppresses the element's own
// background.
func (e *Effect) Show() {
	if e.destroyed {
		return
	}
	e.visible = true
	if e.hasImage {
		e.hideCSSBackground()
	}
}

// Hide stops rendering and restores the element's original background.
func (e *Effect) Hide() {
	if e.destroyed {
		return
	}
	e.visible = false
	e.restoreCSSBackground()
	clearTarget(e.out)
}

// Pause freezes propagation. Drops and compositing continue.
func (e *Effect) Pause() {
	if e.destroyed {
		return
	}
	e.running = false
}

// Play resumes propagation.
func (e *Effect) Play() {
	if e.destroyed {
		return
	}
	e.running = true
}

// Set updates one runtime parameter: dropRadius, perturbance, interactive,
// crossOrigin or imageUrl. Setting imageUrl starts loading the new image;
// the old one keeps rendering until it arrives.
func (e *Effect) Set(name string, value any) error {
	if e.destroyed {
		return nil
	}
	switch name {
	case "dropRadius":
		v, ok := toFloat(value)
		if !ok || v <= 0 || math.IsInf(v, 1) {
			return &SetError{Name: name, Value: value}
		}
		e.cfg.DropRadius = v
	case "perturbance":
		v, ok := toFloat(value)
		if !ok || math.IsInf(v, 0) {
			return &SetError{Name: name, Value: value}
		}
		e.cfg.Perturbance = v
	case "interactive":
		v, ok := value.(bool)
		if !ok {
			return &SetError{Name: name, Value: value}
		}
		e.cfg.Interactive = v
	case "crossOrigin":
		v, ok := value.(string)
		if !ok {
			return &SetError{Name: name, Value: value}
		}
		e.cfg.CrossOrigin = v
	case "imageUrl":
		v, ok := value.(string)
		if !ok {
			return &SetError{Name: name, Value: value}
		}
		e.cfg.ImageURL = v
		e.loadImage()
	default:
		return &SetError{Name: name, Value: value}
	}
	return nil
}

// Destroy detaches the effect for good: pending loads are cancelled, the
// original background is restored and device resources are released.
func (e *Effect) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.visible = false
	e.running = false
	e.cancel()
	e.restoreCSSBackground()
	if err := e.device.Close(); err != nil {
		e.log.Warn("ripples: releasing device", "err", err)
	}
	e.out = nil
	e.bg = nil
	e.log.Info("ripples: effect destroyed")
}

// UpdateSize resizes the output target to the surface's client box. The
// simulation grid keeps its resolution.
func (e *Effect) UpdateSize() {
	if e.destroyed {
		return
	}
	w, h := e.surface.InnerSize()
	iw, ih := max(int(math.Round(w)), 0), max(int(math.Round(h)), 0)
	if e.out != nil && e.out.Bounds().Dx() == iw && e.out.Bounds().Dy() == ih {
		return
	}
	e.out = image.NewRGBA(image.Rect(0, 0, iw, ih))
}

// hideCSSBackground records the element's inline background-image and
// replaces it with `none` while the effect renders the image itself.
func (e *Effect) hideCSSBackground() {
	inline := e.surface.InlineBackgroundImage()
	if inline == "none" {
		return
	}
	e.originalInline = inline
	e.originalComputed = e.surface.Background().Image
	e.surface.SetBackgroundImage("none")
}

// restoreCSSBackground puts the recorded inline value back verbatim.
func (e *Effect) restoreCSSBackground() {
	e.surface.SetBackgroundImage(e.originalInline)
}

// toFloat converts any integer or floating-point value, named numeric types
// included. NaN is reported as not a number.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return 0, false
	}
	var f float64
	switch {
	case rv.CanFloat():
		f = rv.Float()
	case rv.CanInt():
		f = float64(rv.Int())
	case rv.CanUint():
		f = float64(rv.Uint())
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
