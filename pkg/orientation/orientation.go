// Package orientation provides the angular state model for a panoramic view:
// a yaw/pitch pair with wrap-around and clamping rules shared by the camera
// and every placed overlay element.
package orientation

import "math"

// Angular limits. Yaw lives on [0, 2π) and wraps; pitch is hard-clamped so
// the view can never flip over a pole.
const (
	TwoPi    = 2 * math.Pi
	MaxPitch = math.Pi / 2
	MinPitch = -math.Pi / 2
)

// Position is an orientation on the view sphere, in radians.
type Position struct {
	Yaw   float64
	Pitch float64
}

// Delta is an angular increment. Alpha moves yaw, Beta moves pitch.
type Delta struct {
	Alpha float64
	Beta  float64
}

// NormalizeYaw remaps any yaw into [0, 2π). Negative inputs wrap forward.
func NormalizeYaw(yaw float64) float64 {
	y := math.Mod(yaw, TwoPi)
	if y < 0 {
		y += TwoPi
	}
	return y
}

// ClampPitch clamps a pitch into [-π/2, π/2].
func ClampPitch(pitch float64) float64 {
	return Clamp(pitch, MinPitch, MaxPitch)
}

// Clamp clamps v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply integrates a delta into the position: yaw wraps into [0, 2π), pitch
// clamps to the pole limits. Panorama sources are flat, so vertical motion is
// discarded there. Inputs must be finite; the caller guarantees this.
func (p Position) Apply(d Delta, panorama bool) Position {
	if panorama {
		d.Beta = 0
	}
	return Position{
		Yaw:   NormalizeYaw(p.Yaw + d.Alpha),
		Pitch: ClampPitch(p.Pitch + d.Beta),
	}
}

// Normalized returns the position with yaw wrapped and pitch clamped,
// without applying any delta.
func (p Position) Normalized() Position {
	return Position{
		Yaw:   NormalizeYaw(p.Yaw),
		Pitch: ClampPitch(p.Pitch),
	}
}
