package ripples

// PixelFormat is the numeric format a device stores simulation texels in.
type PixelFormat int

const (
	// FormatNone means no floating-point render target is available.
	FormatNone PixelFormat = iota
	FormatFloat32
	FormatFloat16
)

func (f PixelFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatFloat16:
		return "float16"
	default:
		return "none"
	}
}

// Profile is what a device reports about itself before an effect is built
// on it.
type Profile struct {
	Name   string
	Format PixelFormat
	// Linear reports whether smoothed (bilinear) sampling of the simulation
	// texture is available. Without it sampling is nearest-texel.
	Linear bool
}

// check returns a CapabilityError when the profile cannot host the
// simulation.
func (p Profile) check() error {
	if p.Format == FormatNone {
		return &CapabilityError{
			Device: p.Name,
			Reason: "no float or half-float pixel format usable as texture and render target",
		}
	}
	return nil
}
