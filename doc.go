// Package ripples renders an interactive water-ripple distortion over a
// rectangular surface showing a background image.
//
// A square height/velocity field is advanced every frame by data-parallel
// kernels on a [Device] (a CPU worker pool by default, OpenCL with the
// `opencl` build tag). The refraction compositor samples the field's slope
// and reads the background image at a perturbed coordinate, using a
// geometry resolver that reproduces CSS background placement
// (background-position, background-size, background-attachment) so the
// distortion lines up with the image as the host renders it.
//
// A host drives an [Effect] from one goroutine:
//
//	el := ripples.NewElement(0, 0, 640, 480)
//	el.StylesheetImage = `url("sea.jpg")`
//	el.BackgroundSize = "cover"
//	fx, err := ripples.New(el, ripples.WithResolution(512))
//	if err != nil {
//	    return err
//	}
//	defer fx.Destroy()
//	for fx.Tick() {
//	    present(fx.Output())
//	}
//
// Pointer input is fed through [Effect.HandlePointer]; drops can also be
// placed directly with [Effect.Drop].
package ripples
