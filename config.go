package ripples

import "log/slog"

// Simulation, interaction and rendering constants. The wave constants define
// how fast ripples travel and how long they persist before dying out.
const (
	defaultResolution  = 256
	defaultDropRadius  = 20.0
	defaultPerturbance = 0.03

	waveSpeed32 = float32(2.0)
	waveDamp32  = float32(0.995)

	texelChannels = 4
	chanHeight    = 0
	chanVelocity  = 1

	mouseMoveStrength  = 0.01
	mouseDownStrength  = 0.14
	pressRadiusScale   = 1.5
	minResolution      = 2
	specularExponent   = 4
	crossOriginWithJar = "use-credentials"
)

// specularLightX and specularLightY form the normalized direction of the
// fake glare light, normalize(-0.6, 1.0).
var specularLightX, specularLightY = normalize2(-0.6, 1.0)

// Config holds the mutable runtime parameters of an effect together with the
// construction-only resolution.
type Config struct {
	ImageURL    string
	DropRadius  float64
	Perturbance float64
	Resolution  int
	Interactive bool
	CrossOrigin string
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		DropRadius:  defaultDropRadius,
		Perturbance: defaultPerturbance,
		Resolution:  defaultResolution,
		Interactive: true,
	}
}

// Option configures an Effect during creation.
//
// Example:
//
//	fx, err := ripples.New(el,
//	    ripples.WithResolution(512),
//	    ripples.WithPerturbance(0.04),
//	)
type Option func(*options)

type options struct {
	config Config
	device Device
	loader ImageLoader
	logger *slog.Logger
}

func defaultOptions() options {
	return options{config: DefaultConfig()}
}

// WithImageURL overrides the image detected from the surface's background.
func WithImageURL(url string) Option {
	return func(o *options) { o.config.ImageURL = url }
}

// WithDropRadius sets the pointer drop radius in pixels.
func WithDropRadius(radius float64) Option {
	return func(o *options) { o.config.DropRadius = radius }
}

// WithPerturbance sets the refraction strength.
func WithPerturbance(p float64) Option {
	return func(o *options) { o.config.Perturbance = p }
}

// WithResolution sets the side of the square simulation grid. It cannot be
// changed after construction.
func WithResolution(resolution int) Option {
	return func(o *options) { o.config.Resolution = resolution }
}

// WithInteractive gates pointer-driven drops.
func WithInteractive(interactive bool) Option {
	return func(o *options) { o.config.Interactive = interactive }
}

// WithCrossOrigin sets the credential mode used when fetching the image.
// "use-credentials" sends cookies from the loader's jar; anything else is
// anonymous.
func WithCrossOrigin(mode string) Option {
	return func(o *options) { o.config.CrossOrigin = mode }
}

// WithConfig replaces the whole configuration at once.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithDevice injects the data-parallel device running the kernels.
// The effect takes ownership and closes it on Destroy.
func WithDevice(d Device) Option {
	return func(o *options) { o.device = d }
}

// WithLoader injects the image loader collaborator.
func WithLoader(l ImageLoader) Option {
	return func(o *options) { o.loader = l }
}

// WithLogger sets a per-effect logger. Without it the package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
