package main

import "flag"

// Command-line flags for the demo host. Effect parameters mirror the
// library's configuration options and defaults.
var (
	// imageFlag is the background image path, URL or data URI.
	imageFlag = flag.String("image", "", "background image (path, http(s) URL or data URI)")

	resolutionFlag  = flag.Int("resolution", 256, "side of the square simulation grid")
	dropRadiusFlag  = flag.Float64("drop-radius", 20, "pointer drop radius in pixels")
	perturbanceFlag = flag.Float64("perturbance", 0.03, "refraction strength")
	interactiveFlag = flag.Bool("interactive", true, "drop ripples on pointer movement")
	crossOriginFlag = flag.String("cross-origin", "", "credential mode for image fetches (\"use-credentials\" sends cookies)")

	// Element background style, in CSS syntax.
	bgSizeFlag       = flag.String("bg-size", "cover", "background-size of the host element")
	bgPositionFlag   = flag.String("bg-position", "50% 50%", "background-position of the host element")
	bgAttachmentFlag = flag.String("bg-attachment", "scroll", "background-attachment of the host element")

	widthFlag  = flag.Int("width", 960, "initial window width")
	heightFlag = flag.Int("height", 540, "initial window height")

	// openCLFlag runs the simulation kernels on OpenCL when compiled in.
	openCLFlag = flag.Bool("opencl", false, "run the simulation on OpenCL (requires -tags opencl)")

	// debugFlag enables the FPS overlay and library debug logging.
	debugFlag = flag.Bool("debug", false, "show FPS overlay and log engine diagnostics")

	// recordDefaultPGO drops random ripples while capturing default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "drop random ripples for 15s while capturing default.pgo")
)
