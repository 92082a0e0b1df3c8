// Package scene coordinates a 360° viewer: it owns the camera state and the
// collection of placed overlay elements, integrates controller deltas into
// absolute orientations, and pushes the resulting poses to a render backend.
package scene

import (
	"errors"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/camera"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/zoom"
)

// DefaultSegments is the sphere tessellation a backend uses when the host
// never overrides it.
const DefaultSegments = 64

// Backend is the render side the coordinator drives. Implementations own
// geometry, textures and frame scheduling; the coordinator only pushes poses
// and projection changes through this interface.
type Backend interface {
	CreateNode(kind NodeKind) (NodeID, error)
	SetNodeTransform(id NodeID, p Placement)
	RemoveNode(id NodeID)
	RenderFrame(cam *camera.Camera)
	UpdateProjection(cam *camera.Camera)
}

// MoveStartEvent announces a beginning drag before any motion applies.
// Returning false from any observer vetoes the drag.
type MoveStartEvent struct {
	// Handle identifies the dragged element, nil for camera drags.
	Handle   any
	IsCamera bool
	Modality control.Modality
}

// MoveStopEvent reports the final orientation of a finished drag. Handle is nil
// for camera drags.
type MoveStopEvent struct {
	Yaw    float64
	Pitch  float64
	Handle any
}

// Config carries the host-facing viewer options.
type Config struct {
	// Panorama selects cylindrical framing: vertical look disabled and a
	// narrower field-of-view ceiling.
	Panorama bool

	// InitialYaw and InitialPitch set the camera orientation in radians.
	InitialYaw   float64
	InitialPitch float64

	// AspectRatio of the viewport. Non-positive falls back to 16:9.
	AspectRatio float64

	// Friction divides raw input deltas into angular deltas. Non-positive
	// falls back to the control package default.
	Friction float64

	// ZoomSpeed is the dolly scale exponent. Non-positive falls back to 1.
	ZoomSpeed float64

	// EnableZoom gates wheel, pinch and keyboard zoom input.
	EnableZoom bool

	// InvertKeys flips keyboard arrow direction for the camera.
	InvertKeys bool

	// Segments is the mesh tessellation hint for the backend.
	Segments int

	// Source names the panorama image or video the backend should load.
	Source string
}

// DefaultConfig returns the options the original viewer ships with.
func DefaultConfig() Config {
	return Config{
		AspectRatio: camera.DefaultAspect,
		Friction:    control.DefaultFriction,
		ZoomSpeed:   zoom.DefaultSpeed,
		EnableZoom:  true,
		InvertKeys:  true,
		Segments:    DefaultSegments,
	}
}

// Scene is the coordinator. All methods must be called from the same
// goroutine as the input and render callbacks; the package does no locking.
type Scene struct {
	backend  Backend
	cam      *camera.Camera
	controls *control.Controller
	zoom     *zoom.Controller

	elements []*PlacedElement
	friction float64

	width  float64
	height float64

	segments int
	source   string

	preventCameraMovement bool
	rendered              bool

	startObservers  []func(MoveStartEvent) bool
	moveObservers   []func(control.MoveEvent)
	stopObservers   []func(MoveStopEvent)
	renderObservers []func()
}

// New builds a coordinator on top of backend and pushes the initial
// projection to it.
func New(cfg Config, backend Backend) (*Scene, error) {
	if backend == nil {
		return nil, errors.New("nil render backend")
	}
	if cfg.AspectRatio <= 0 {
		cfg.AspectRatio = camera.DefaultAspect
	}
	if cfg.ZoomSpeed <= 0 {
		cfg.ZoomSpeed = zoom.DefaultSpeed
	}
	if cfg.Segments <= 0 {
		cfg.Segments = DefaultSegments
	}

	cam := camera.New(cfg.Panorama)
	cam.AspectRatio = cfg.AspectRatio
	cam.Position = orientation.Position{Yaw: cfg.InitialYaw, Pitch: cfg.InitialPitch}.Normalized()
	if cfg.Panorama {
		cam.Position.Pitch = 0
	}

	s := &Scene{
		backend:  backend,
		cam:      cam,
		segments: cfg.Segments,
		source:   cfg.Source,
	}

	s.controls = control.New(control.Config{
		Friction:   cfg.Friction,
		Panorama:   cfg.Panorama,
		InvertKeys: cfg.InvertKeys,
	})
	s.friction = s.controls.Friction()
	s.controls.OnMoveStart(func(e control.StartEvent) bool {
		return s.emitMoveStart(MoveStartEvent{IsCamera: true, Modality: e.Modality})
	})
	s.controls.OnMove(func(e control.MoveEvent) {
		pos := s.cam.Position
		pos.Yaw = orientation.NormalizeYaw(pos.Yaw + e.AlphaDelta)
		bound := s.cam.MaxAllowedPitch()
		pos.Pitch = orientation.Clamp(pos.Pitch+e.BetaDelta, -bound, bound)
		s.cam.Position = pos
		s.emitMove(e)
	})
	s.controls.OnMoveStop(func(control.StopEvent) {
		s.emitMoveStop(MoveStopEvent{Yaw: s.cam.Position.Yaw, Pitch: s.cam.Position.Pitch})
	})

	s.zoom = zoom.New(cam)
	s.zoom.Speed = cfg.ZoomSpeed
	s.zoom.Enabled = cfg.EnableZoom

	backend.UpdateProjection(cam)
	return s, nil
}

// SetCameraPosition points the camera at an absolute orientation. It is a
// no-op while any drag is active, so sensor-driven updates cannot fight a
// manual gesture. In panorama mode pitch is forced to 0.
func (s *Scene) SetCameraPosition(yaw, pitch float64) {
	if s.dragActive() {
		return
	}
	if s.cam.Panorama {
		pitch = 0
	}
	s.cam.Position = orientation.Position{Yaw: yaw, Pitch: pitch}.Normalized()
}

// dragActive reports whether the camera or any element is mid-gesture.
func (s *Scene) dragActive() bool {
	if s.controls.Active() {
		return true
	}
	for _, el := range s.elements {
		if el.Controls != nil && el.Controls.Active() {
			return true
		}
	}
	return false
}

// Resize recomputes the viewer dimensions from the container width. A zero
// width means the container is not laid out yet and the call is ignored.
// Non-positive aspect keeps the current ratio.
func (s *Scene) Resize(containerWidth, aspect float64) {
	if containerWidth <= 0 {
		return
	}
	if aspect > 0 {
		s.cam.AspectRatio = aspect
	}
	s.width = containerWidth
	s.height = containerWidth / s.cam.AspectRatio
	s.backend.UpdateProjection(s.cam)
}

// Size returns the viewer dimensions computed by the last Resize.
func (s *Scene) Size() (width, height float64) {
	return s.width, s.height
}

// SetPanorama switches between cylindrical and full-sphere framing. Entering
// panorama levels the camera and both modes re-clamp the field of view to
// the new ceiling.
func (s *Scene) SetPanorama(panorama bool) {
	if panorama == s.cam.Panorama {
		return
	}
	s.cam.Panorama = panorama
	if panorama {
		s.cam.Position.Pitch = 0
	}
	s.cam.Projection.Fov = orientation.Clamp(s.cam.Projection.Fov, camera.MinFov, s.cam.MaxFov())
	s.controls.SetPanorama(panorama)
	for _, el := range s.elements {
		if el.Controls != nil {
			el.Controls.SetPanorama(panorama)
		}
	}
	s.backend.UpdateProjection(s.cam)
}

// Panorama reports the current framing mode.
func (s *Scene) Panorama() bool {
	return s.cam.Panorama
}

// SetSegments stores the tessellation hint consumed by the backend on its
// next geometry rebuild. Non-positive values are ignored.
func (s *Scene) SetSegments(n int) {
	if n > 0 {
		s.segments = n
	}
}

// Segments returns the current tessellation hint.
func (s *Scene) Segments() int {
	return s.segments
}

// SetSource stores the panorama source consumed by the backend on its next
// texture rebuild.
func (s *Scene) SetSource(source string) {
	s.source = source
}

// Source returns the current panorama source.
func (s *Scene) Source() string {
	return s.source
}

// RenderFrame pushes pending projection changes and asks the backend to draw
// one frame. The first completed frame fires the firstrender observers.
func (s *Scene) RenderFrame() {
	if s.zoom.Changed() {
		s.backend.UpdateProjection(s.cam)
	}
	s.backend.RenderFrame(s.cam)
	if !s.rendered {
		s.rendered = true
		for _, fn := range s.renderObservers {
			fn()
		}
	}
}

// OnMoveStart registers a cancelable drag-start observer. Every observer
// runs on every start; if any returns false the drag is rejected.
func (s *Scene) OnMoveStart(fn func(MoveStartEvent) bool) {
	s.startObservers = append(s.startObservers, fn)
}

// OnMove registers an observer for incremental motion of the camera or any
// element.
func (s *Scene) OnMove(fn func(control.MoveEvent)) {
	s.moveObservers = append(s.moveObservers, fn)
}

// OnMoveStop registers an observer for finished drags.
func (s *Scene) OnMoveStop(fn func(MoveStopEvent)) {
	s.stopObservers = append(s.stopObservers, fn)
}

// OnFirstRender registers an observer fired once, after the first frame.
func (s *Scene) OnFirstRender(fn func()) {
	s.renderObservers = append(s.renderObservers, fn)
}

func (s *Scene) emitMoveStart(e MoveStartEvent) bool {
	allowed := true
	for _, fn := range s.startObservers {
		if !fn(e) {
			allowed = false
		}
	}
	return allowed
}

func (s *Scene) emitMove(e control.MoveEvent) {
	for _, fn := range s.moveObservers {
		fn(e)
	}
}

func (s *Scene) emitMoveStop(e MoveStopEvent) {
	for _, fn := range s.stopObservers {
		fn(e)
	}
}

// CameraControls returns the camera's orientation controller. Input adapters
// feed it directly.
func (s *Scene) CameraControls() *control.Controller {
	return s.controls
}

// Zoom returns the camera's zoom controller.
func (s *Scene) Zoom() *zoom.Controller {
	return s.zoom
}

// Camera returns the camera owned by the coordinator. The render backend
// reads it every frame; hosts must not mutate it directly.
func (s *Scene) Camera() *camera.Camera {
	return s.cam
}

// CurrentPosition returns the camera orientation.
func (s *Scene) CurrentPosition() orientation.Position {
	return s.cam.Position
}

// CurrentFov returns the camera field of view in degrees.
func (s *Scene) CurrentFov() float64 {
	return s.cam.Projection.Fov
}
