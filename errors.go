package ripples

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad is wrapped by every image fetch or decode failure.
	ErrImageLoad = errors.New("ripples: image load failed")

	// ErrGeometryUnavailable reports that the background placement cannot be
	// resolved yet, typically because the image has not loaded or the element
	// has no area. Compositing is skipped and retried on the next tick.
	ErrGeometryUnavailable = errors.New("ripples: background geometry unavailable")

	// ErrInvalidResolution is returned for a simulation grid smaller than 2x2.
	ErrInvalidResolution = errors.New("ripples: invalid resolution")

	// ErrDeviceClosed is returned by kernels invoked after Close.
	ErrDeviceClosed = errors.New("ripples: device closed")
)

// CapabilityError reports that the device lacks a floating-point pixel format
// usable both as texture input and render target.
type CapabilityError struct {
	Device string
	Reason string
}

func (e *CapabilityError) Error() string {
	if e.Device == "" {
		return "ripples: unsupported device: " + e.Reason
	}
	return fmt.Sprintf("ripples: unsupported device %q: %s", e.Device, e.Reason)
}

// SetError reports a rejected Set call.
type SetError struct {
	Name  string
	Value any
}

func (e *SetError) Error() string {
	return fmt.Sprintf("ripples: cannot set %q to %v (%T)", e.Name, e.Value, e.Value)
}
