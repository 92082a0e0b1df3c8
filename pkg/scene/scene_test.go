package scene

import (
	"math"
	"testing"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/camera"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
)

type mockBackend struct {
	nextID      NodeID
	nodes       map[NodeID]Placement
	kinds       map[NodeID]NodeKind
	removed     []NodeID
	frames      int
	projections int
	createErr   error
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		nodes: make(map[NodeID]Placement),
		kinds: make(map[NodeID]NodeKind),
	}
}

func (m *mockBackend) CreateNode(kind NodeKind) (NodeID, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	m.nodes[m.nextID] = Placement{}
	m.kinds[m.nextID] = kind
	return m.nextID, nil
}

func (m *mockBackend) SetNodeTransform(id NodeID, p Placement) {
	m.nodes[id] = p
}

func (m *mockBackend) RemoveNode(id NodeID) {
	delete(m.nodes, id)
	m.removed = append(m.removed, id)
}

func (m *mockBackend) RenderFrame(*camera.Camera) {
	m.frames++
}

func (m *mockBackend) UpdateProjection(*camera.Camera) {
	m.projections++
}

func TestNewNilBackend(t *testing.T) {
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Fatal("New with nil backend returned no error")
	}
}

func TestNewPushesInitialProjection(t *testing.T) {
	b := newMockBackend()
	if _, err := New(DefaultConfig(), b); err != nil {
		t.Fatal(err)
	}
	if b.projections != 1 {
		t.Errorf("projections after New = %d, want 1", b.projections)
	}
}

func TestNewNormalizesInitialPosition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialYaw = -math.Pi / 2
	cfg.InitialPitch = 0.2

	s, err := New(cfg, newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	pos := s.CurrentPosition()
	if want := 3 * math.Pi / 2; math.Abs(pos.Yaw-want) > 1e-12 {
		t.Errorf("yaw = %v, want %v", pos.Yaw, want)
	}
	if pos.Pitch != 0.2 {
		t.Errorf("pitch = %v, want 0.2", pos.Pitch)
	}
}

func TestNewPanoramaLevelsPitch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panorama = true
	cfg.InitialPitch = 0.5

	s, err := New(cfg, newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentPosition().Pitch; got != 0 {
		t.Errorf("pitch = %v, want 0", got)
	}
	if got := s.CurrentFov(); got != camera.MaxFovPanorama {
		t.Errorf("fov = %v, want %v", got, camera.MaxFovPanorama)
	}
}

func TestCameraDragEndToEnd(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	var moves []control.MoveEvent
	s.OnMove(func(e control.MoveEvent) {
		moves = append(moves, e)
	})
	var stops []MoveStopEvent
	s.OnMoveStop(func(e MoveStopEvent) {
		stops = append(stops, e)
	})

	c := s.CameraControls()
	if !c.PointerDown(control.PointerEvent{X: 100, Y: 100, Button: control.ButtonPrimary}) {
		t.Fatal("pointer down rejected")
	}
	c.PointerMove(control.PointerEvent{X: 150, Y: 100, Button: control.ButtonPrimary})
	c.PointerUp()

	if got := s.CurrentPosition().Yaw; math.Abs(got-0.125) > 1e-12 {
		t.Errorf("yaw = %v, want 0.125", got)
	}
	if len(moves) != 1 {
		t.Fatalf("got %d move events, want 1", len(moves))
	}
	if moves[0].AlphaDelta != 0.125 || moves[0].Alpha != 0.125 {
		t.Errorf("move event = %+v, want alphaDelta 0.125, alpha 0.125", moves[0])
	}
	if len(stops) != 1 {
		t.Fatalf("got %d stop events, want 1", len(stops))
	}
	if stops[0].Handle != nil {
		t.Errorf("stop handle = %v, want nil", stops[0].Handle)
	}
	if math.Abs(stops[0].Yaw-0.125) > 1e-12 {
		t.Errorf("stop yaw = %v, want 0.125", stops[0].Yaw)
	}
}

func TestCameraDragPitchBound(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	c := s.CameraControls()
	c.PointerDown(control.PointerEvent{X: 0, Y: 0, Button: control.ButtonPrimary})
	// 520 px at friction 400 requests pitch 1.3, past the visible pole.
	c.PointerMove(control.PointerEvent{X: 0, Y: 520, Button: control.ButtonPrimary})
	c.PointerUp()

	bound := math.Pi/2 - (camera.MaxFovSphere*math.Pi/180)/2
	if math.Abs(bound-0.916) > 1e-3 {
		t.Fatalf("bound = %v, want about 0.916", bound)
	}
	if got := s.CurrentPosition().Pitch; math.Abs(got-bound) > 1e-12 {
		t.Errorf("pitch = %v, want clamped to %v", got, bound)
	}
}

func TestSetCameraPositionSuspendedDuringDrag(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	c := s.CameraControls()
	c.PointerDown(control.PointerEvent{X: 0, Y: 0, Button: control.ButtonPrimary})
	s.SetCameraPosition(1, 0.5)
	if pos := s.CurrentPosition(); pos.Yaw != 0 || pos.Pitch != 0 {
		t.Errorf("position during drag = %+v, want unchanged", pos)
	}

	c.PointerUp()
	s.SetCameraPosition(1, 0.5)
	if pos := s.CurrentPosition(); pos.Yaw != 1 || pos.Pitch != 0.5 {
		t.Errorf("position after drag = %+v, want (1, 0.5)", pos)
	}
}

func TestSetCameraPositionPanorama(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panorama = true
	s, err := New(cfg, newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	s.SetCameraPosition(1, 0.5)
	pos := s.CurrentPosition()
	if pos.Yaw != 1 {
		t.Errorf("yaw = %v, want 1", pos.Yaw)
	}
	if pos.Pitch != 0 {
		t.Errorf("pitch = %v, want 0 in panorama mode", pos.Pitch)
	}
}

func TestResize(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}
	before := b.projections

	s.Resize(0, 2)
	if w, h := s.Size(); w != 0 || h != 0 {
		t.Errorf("size after zero-width resize = (%v, %v), want (0, 0)", w, h)
	}
	if b.projections != before {
		t.Error("zero-width resize pushed a projection update")
	}

	s.Resize(1280, 16.0/9.0)
	if w, h := s.Size(); w != 1280 || h != 720 {
		t.Errorf("size = (%v, %v), want (1280, 720)", w, h)
	}
	if b.projections != before+1 {
		t.Errorf("projections = %d, want %d", b.projections, before+1)
	}

	// Non-positive aspect keeps the stored ratio.
	s.Resize(640, 0)
	if w, h := s.Size(); w != 640 || h != 360 {
		t.Errorf("size = (%v, %v), want (640, 360)", w, h)
	}
}

func TestSetPanorama(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}
	s.SetCameraPosition(1, 0.5)
	before := b.projections

	s.SetPanorama(true)
	if !s.Panorama() {
		t.Error("Panorama() = false after SetPanorama(true)")
	}
	if got := s.CurrentFov(); got != camera.MaxFovPanorama {
		t.Errorf("fov = %v, want re-clamped to %v", got, camera.MaxFovPanorama)
	}
	if got := s.CurrentPosition().Pitch; got != 0 {
		t.Errorf("pitch = %v, want leveled to 0", got)
	}
	if !s.CameraControls().Panorama() {
		t.Error("camera controls did not follow the mode switch")
	}
	if b.projections != before+1 {
		t.Errorf("projections = %d, want %d", b.projections, before+1)
	}

	// Switching to the current mode is a no-op.
	s.SetPanorama(true)
	if b.projections != before+1 {
		t.Error("redundant SetPanorama pushed a projection update")
	}
}

func TestRenderFrameFirstRenderOnce(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	fired := 0
	s.OnFirstRender(func() { fired++ })

	s.RenderFrame()
	s.RenderFrame()
	if fired != 1 {
		t.Errorf("firstrender fired %d times, want 1", fired)
	}
	if b.frames != 2 {
		t.Errorf("frames = %d, want 2", b.frames)
	}
}

func TestRenderFramePushesZoomChanges(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}
	before := b.projections

	s.Zoom().DollyIn()
	s.RenderFrame()
	if b.projections != before+1 {
		t.Errorf("projections = %d, want %d after zoom", b.projections, before+1)
	}

	s.RenderFrame()
	if b.projections != before+1 {
		t.Error("idle frame pushed a projection update")
	}
}

func TestMoveStartVeto(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	s.OnMoveStart(func(MoveStartEvent) bool { return false })

	c := s.CameraControls()
	if c.PointerDown(control.PointerEvent{X: 0, Y: 0, Button: control.ButtonPrimary}) {
		t.Fatal("vetoed pointer down accepted")
	}
	c.PointerMove(control.PointerEvent{X: 50, Y: 0, Button: control.ButtonPrimary})
	if got := s.CurrentPosition().Yaw; got != 0 {
		t.Errorf("yaw = %v, want 0 after vetoed drag", got)
	}
}

func TestMoveStartPayload(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	var starts []MoveStartEvent
	s.OnMoveStart(func(e MoveStartEvent) bool {
		starts = append(starts, e)
		return true
	})

	s.CameraControls().PointerDown(control.PointerEvent{Button: control.ButtonPrimary})
	s.CameraControls().PointerUp()

	if len(starts) != 1 {
		t.Fatalf("got %d start events, want 1", len(starts))
	}
	e := starts[0]
	if !e.IsCamera || e.Handle != nil || e.Modality != control.ModalityPointer {
		t.Errorf("start event = %+v, want camera pointer start", e)
	}
}
