// Package zoom converts wheel, pinch and keyboard input into field-of-view
// changes (perspective) or zoom-factor changes (orthographic) on a single
// camera, clamped to the mode's bounds.
package zoom

import (
	"math"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/camera"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

// DefaultSpeed is the zoom speed exponent: one dolly step scales the field
// of view by 0.95^Speed.
const DefaultSpeed = 1.0

const baseScale = 0.95

// Key identifies a zoom keyboard shortcut.
type Key int

const (
	KeyNone Key = iota
	KeyPlus
	KeyMinus
)

// Controller is bound to exactly one camera. Elements never zoom.
type Controller struct {
	Camera *camera.Camera

	// Speed is the zoom speed exponent. Zero falls back to DefaultSpeed.
	Speed float64

	// Enabled gates the input handlers (wheel, pinch, keys). When false
	// they return immediately; direct Dolly calls are not gated.
	Enabled bool

	pinchDist float64
	changed   bool
}

// New creates an enabled controller bound to cam.
func New(cam *camera.Camera) *Controller {
	return &Controller{Camera: cam, Speed: DefaultSpeed, Enabled: true}
}

// scale returns the default dolly scale, 0.95^Speed.
func (z *Controller) scale() float64 {
	speed := z.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	return math.Pow(baseScale, speed)
}

// DollyIn narrows the view by the default scale.
func (z *Controller) DollyIn() {
	z.DollyInBy(z.scale())
}

// DollyOut widens the view by the default scale.
func (z *Controller) DollyOut() {
	z.DollyOutBy(z.scale())
}

// DollyInBy narrows the view: fov times scale for perspective cameras, zoom
// divided by scale for orthographic ones. The result is clamped, and any
// effective change marks the projection dirty.
func (z *Controller) DollyInBy(scale float64) {
	switch z.Camera.Projection.Kind {
	case camera.Perspective:
		z.setFov(z.Camera.Projection.Fov * scale)
	case camera.Orthographic:
		z.setZoom(z.Camera.Projection.Zoom / scale)
	}
}

// DollyOutBy widens the view, the inverse of DollyInBy.
func (z *Controller) DollyOutBy(scale float64) {
	switch z.Camera.Projection.Kind {
	case camera.Perspective:
		z.setFov(z.Camera.Projection.Fov / scale)
	case camera.Orthographic:
		z.setZoom(z.Camera.Projection.Zoom * scale)
	}
}

func (z *Controller) setFov(fov float64) {
	clamped := orientation.Clamp(fov, camera.MinFov, z.Camera.MaxFov())
	if clamped != z.Camera.Projection.Fov {
		z.Camera.Projection.Fov = clamped
		z.changed = true
	}
}

func (z *Controller) setZoom(zoom float64) {
	clamped := orientation.Clamp(zoom, camera.MinZoom, camera.MaxZoom)
	if clamped != z.Camera.Projection.Zoom {
		z.Camera.Projection.Zoom = clamped
		z.changed = true
	}
}

// IsDollyInDisabled reports whether a dolly-in could change nothing: the
// field of view already sits at MinFov, or the zoom factor at MaxZoom.
// Advisory only; Dolly operations clamp regardless.
func (z *Controller) IsDollyInDisabled() bool {
	if z.Camera.Projection.Kind == camera.Orthographic {
		return z.Camera.Projection.Zoom >= camera.MaxZoom
	}
	return z.Camera.Projection.Fov <= camera.MinFov
}

// IsDollyOutDisabled reports whether a dolly-out could change nothing.
func (z *Controller) IsDollyOutDisabled() bool {
	if z.Camera.Projection.Kind == camera.Orthographic {
		return z.Camera.Projection.Zoom <= camera.MinZoom
	}
	return z.Camera.Projection.Fov >= z.Camera.MaxFov()
}

// Wheel applies one scroll step in the browser deltaY convention: negative
// deltaY zooms in, positive zooms out.
func (z *Controller) Wheel(deltaY float64) {
	if !z.Enabled {
		return
	}
	if deltaY < 0 {
		z.DollyIn()
	} else if deltaY > 0 {
		z.DollyOut()
	}
}

// PinchStart records the distance between two touch points at gesture start.
func (z *Controller) PinchStart(x1, y1, x2, y2 float64) {
	if !z.Enabled {
		return
	}
	z.pinchDist = math.Hypot(x2-x1, y2-y1)
}

// PinchMove compares the current two-finger distance against the previous
// one: spreading the fingers zooms in, shrinking the gap zooms out. The
// comparison re-bases on every move.
func (z *Controller) PinchMove(x1, y1, x2, y2 float64) {
	if !z.Enabled || z.pinchDist <= 0 {
		return
	}
	d := math.Hypot(x2-x1, y2-y1)
	if d > z.pinchDist {
		z.DollyIn()
	} else if d < z.pinchDist {
		z.DollyOut()
	}
	z.pinchDist = d
}

// PinchEnd closes the pinch gesture.
func (z *Controller) PinchEnd() {
	z.pinchDist = 0
}

// KeyDown applies a zoom shortcut: plus dollies in, minus dollies out.
func (z *Controller) KeyDown(k Key) {
	if !z.Enabled {
		return
	}
	switch k {
	case KeyPlus:
		z.DollyIn()
	case KeyMinus:
		z.DollyOut()
	}
}

// Changed reports and clears the projection-dirty flag. The scene
// coordinator polls this once per frame to push projection updates to the
// render backend.
func (z *Controller) Changed() bool {
	c := z.changed
	z.changed = false
	return c
}
