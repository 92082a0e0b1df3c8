// Package camera holds the viewer camera state: an angular position, a
// projection (perspective field of view or orthographic zoom factor), the
// viewport aspect ratio and the panorama/sphere mode flag.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

// Field-of-view bounds in degrees. Panorama sources are framed tighter than
// full spheres so the flat edges stay out of view.
const (
	MinFov         = 20.0
	MaxFovSphere   = 75.0
	MaxFovPanorama = 53.0
)

// Orthographic zoom factor bounds.
const (
	MinZoom = 1.0
	MaxZoom = 4.0
)

// DefaultAspect is the viewport aspect ratio used until a resize arrives.
const DefaultAspect = 16.0 / 9.0

// ProjectionKind selects how the camera maps the scene onto the viewport.
type ProjectionKind int

const (
	Perspective ProjectionKind = iota
	Orthographic
)

// Projection is the tagged camera projection. Fov (degrees) is meaningful
// when Kind is Perspective, Zoom when Kind is Orthographic.
type Projection struct {
	Kind ProjectionKind
	Fov  float64
	Zoom float64
}

// Camera is the viewer pose. It is owned by the scene coordinator; the
// render backend reads it once per frame. Mutate it only through the
// coordinator or the zoom controller.
type Camera struct {
	Position    orientation.Position
	Projection  Projection
	AspectRatio float64
	Panorama    bool
}

// New creates a perspective camera at the mode's widest field of view,
// looking at yaw 0, pitch 0.
func New(panorama bool) *Camera {
	c := &Camera{
		Projection:  Projection{Kind: Perspective, Zoom: MinZoom},
		AspectRatio: DefaultAspect,
		Panorama:    panorama,
	}
	c.Projection.Fov = c.MaxFov()
	return c
}

// MaxFov returns the mode-dependent field-of-view ceiling in degrees.
func (c *Camera) MaxFov() float64 {
	if c.Panorama {
		return MaxFovPanorama
	}
	return MaxFovSphere
}

// MaxAllowedPitch returns the pitch bound that keeps the visible frustum
// inside the poles: π/2 minus half the vertical field of view. Orthographic
// cameras have no fov, so the full pole limit applies.
func (c *Camera) MaxAllowedPitch() float64 {
	if c.Projection.Kind != Perspective {
		return orientation.MaxPitch
	}
	return orientation.MaxPitch - mgl64.DegToRad(c.Projection.Fov)/2
}
