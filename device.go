package ripples

// Device runs the simulation kernels over a double-buffered field it owns.
// Every kernel reads the current buffer, writes the next and swaps, so no
// pass observes values written by the same pass.
type Device interface {
	// Profile reports the device's pixel format and sampling support.
	Profile() Profile
	// Allocate creates the two grids. It is called once per device.
	Allocate(resolution int) error
	// Drop adds a raised-cosine height impulse.
	Drop(p DropParams) error
	// Update advances the wave field one timestep.
	Update(p UpdateParams) error
	// Field returns the current buffer. The view is valid until the next
	// kernel call.
	Field() (FieldView, error)
	// Close releases device resources. It is safe to call more than once.
	Close() error
}

// OpenDevice returns the OpenCL device when preferOpenCL is set and one can
// be opened, and the CPU device otherwise.
func OpenDevice(preferOpenCL bool) Device {
	log := Logger()
	if preferOpenCL {
		d, err := NewOpenCLDevice()
		if err == nil {
			log.Info("ripples: OpenCL device enabled", "device", d.Profile().Name)
			return d
		}
		log.Warn("ripples: OpenCL unavailable, falling back to CPU", "err", err)
	}
	return NewCPUDevice(CPUProfile())
}
