//go:build !opencl

package ripples

import "errors"

// NewOpenCLDevice reports that OpenCL support was not compiled in.
func NewOpenCLDevice() (Device, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}
