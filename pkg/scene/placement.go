package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

// Radius is the display-sphere radius elements are projected onto. It is a
// presentation constant, independent of whatever mesh radius the render
// backend uses for the panorama itself.
const Radius = 800.0

// NodeKind selects the scene-graph node type a backend creates for an
// element.
type NodeKind int

const (
	// NodeSpatial is a full 3D node placed on the sphere.
	NodeSpatial NodeKind = iota
	// NodeFlat is a node the backend renders outside the 3D pass, for
	// content that cannot be textured onto a quad.
	NodeFlat
)

// NodeID identifies a backend scene-graph node.
type NodeID uint32

// Placement is a resolved 3D pose: a point on the display sphere plus the
// facing rotation that keeps the node oriented toward the sphere's center.
// Rotation holds Euler angles in radians, applied yaw (Y) then pitch (X)
// then roll (Z).
type Placement struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Place projects an angular position onto the display sphere. Yaw 0 faces
// negative Z; yaw grows to the right, pitch grows upward.
func Place(p orientation.Position) Placement {
	cosPitch := math.Cos(p.Pitch)
	return Placement{
		Position: mgl64.Vec3{
			Radius * math.Sin(p.Yaw) * cosPitch,
			Radius * math.Sin(p.Pitch),
			-Radius * math.Cos(p.Yaw) * cosPitch,
		},
		Rotation: mgl64.Vec3{p.Pitch, -p.Yaw, 0},
	}
}
