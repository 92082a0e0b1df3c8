package camera

import (
	"math"
	"testing"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

func TestNewSphere(t *testing.T) {
	c := New(false)
	if c.Projection.Kind != Perspective {
		t.Errorf("expected perspective projection, got kind %d", c.Projection.Kind)
	}
	if c.Projection.Fov != MaxFovSphere {
		t.Errorf("expected fov %v, got %v", MaxFovSphere, c.Projection.Fov)
	}
	if c.AspectRatio != DefaultAspect {
		t.Errorf("expected aspect %v, got %v", DefaultAspect, c.AspectRatio)
	}
}

func TestNewPanorama(t *testing.T) {
	c := New(true)
	if c.Projection.Fov != MaxFovPanorama {
		t.Errorf("expected fov %v, got %v", MaxFovPanorama, c.Projection.Fov)
	}
	if c.MaxFov() != MaxFovPanorama {
		t.Errorf("expected MaxFov %v, got %v", MaxFovPanorama, c.MaxFov())
	}
}

func TestMaxAllowedPitch(t *testing.T) {
	c := New(false) // fov 75
	got := c.MaxAllowedPitch()
	want := math.Pi/2 - (75.0*math.Pi/180.0)/2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("MaxAllowedPitch() = %v, want %v", got, want)
	}
	// Sanity check against the known value for fov 75.
	if math.Abs(got-0.916) > 0.001 {
		t.Errorf("MaxAllowedPitch() = %v, want ~0.916", got)
	}
}

func TestMaxAllowedPitchOrthographic(t *testing.T) {
	c := New(false)
	c.Projection.Kind = Orthographic
	if got := c.MaxAllowedPitch(); got != orientation.MaxPitch {
		t.Errorf("orthographic MaxAllowedPitch() = %v, want %v", got, orientation.MaxPitch)
	}
}
