package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

func TestAddPlacesNode(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	el, err := s.Add("hotspot", orientation.Position{Yaw: math.Pi / 2}, ElementOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !el.Spatial {
		t.Error("Spatial = false, want true")
	}
	if b.kinds[el.Node()] != NodeSpatial {
		t.Errorf("node kind = %v, want NodeSpatial", b.kinds[el.Node()])
	}

	p, ok := b.nodes[el.Node()]
	if !ok {
		t.Fatal("backend has no node for element")
	}
	if math.Abs(p.Position.X()-Radius) > 1e-9 || math.Abs(p.Position.Z()) > 1e-9 {
		t.Errorf("position = %v, want about (800, 0, 0)", p.Position)
	}
}

func TestAddFlat(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	el, err := s.Add("video", orientation.Position{}, ElementOptions{Flat: true})
	if err != nil {
		t.Fatal(err)
	}
	if el.Spatial {
		t.Error("Spatial = true, want false")
	}
	if b.kinds[el.Node()] != NodeFlat {
		t.Errorf("node kind = %v, want NodeFlat", b.kinds[el.Node()])
	}
}

func TestAddDuplicateHandle(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Add("spot", orientation.Position{}, ElementOptions{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("spot", orientation.Position{Yaw: 1}, ElementOptions{}); err == nil {
		t.Fatal("duplicate Add returned no error")
	}
	if len(b.nodes) != 1 {
		t.Errorf("backend holds %d nodes, want 1", len(b.nodes))
	}
	if len(s.Elements()) != 1 {
		t.Errorf("scene holds %d elements, want 1", len(s.Elements()))
	}
}

func TestAddNilHandle(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(nil, orientation.Position{}, ElementOptions{}); err == nil {
		t.Fatal("nil handle returned no error")
	}
}

func TestAddBackendFailure(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	b.createErr = errors.New("out of nodes")
	if _, err := s.Add("spot", orientation.Position{}, ElementOptions{}); err == nil {
		t.Fatal("Add returned no error on backend failure")
	}
	if len(s.Elements()) != 0 {
		t.Error("failed Add left an element behind")
	}
}

func TestElementDrag(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	el, err := s.Add("spot", orientation.Position{}, ElementOptions{EnableControls: true})
	if err != nil {
		t.Fatal(err)
	}
	if el.Controls == nil {
		t.Fatal("Controls = nil with EnableControls set")
	}

	el.Controls.PointerDown(control.PointerEvent{X: 0, Y: 0, Button: control.ButtonPrimary})
	el.Controls.PointerMove(control.PointerEvent{X: 40, Y: 0, Button: control.ButtonPrimary})
	el.Controls.PointerUp()

	if got := el.Position.Yaw; math.Abs(got-0.1) > 1e-12 {
		t.Errorf("element yaw = %v, want 0.1", got)
	}
	if got := s.CurrentPosition().Yaw; got != 0 {
		t.Errorf("camera yaw = %v, want 0 (element drag must not move camera)", got)
	}

	want := Place(el.Position)
	if got := b.nodes[el.Node()]; got != want {
		t.Errorf("node transform = %+v, want %+v", got, want)
	}
}

func TestElementDragEventsCarryHandle(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	var starts []MoveStartEvent
	s.OnMoveStart(func(e MoveStartEvent) bool {
		starts = append(starts, e)
		return true
	})
	var stops []MoveStopEvent
	s.OnMoveStop(func(e MoveStopEvent) {
		stops = append(stops, e)
	})

	el, err := s.Add("spot", orientation.Position{}, ElementOptions{EnableControls: true})
	if err != nil {
		t.Fatal(err)
	}
	el.Controls.PointerDown(control.PointerEvent{Button: control.ButtonPrimary})
	el.Controls.PointerMove(control.PointerEvent{X: 40, Button: control.ButtonPrimary})
	el.Controls.PointerUp()

	if len(starts) != 1 {
		t.Fatalf("got %d start events, want 1", len(starts))
	}
	if starts[0].Handle != "spot" || starts[0].IsCamera {
		t.Errorf("start event = %+v, want element start for spot", starts[0])
	}
	if len(stops) != 1 {
		t.Fatalf("got %d stop events, want 1", len(stops))
	}
	if stops[0].Handle != "spot" || math.Abs(stops[0].Yaw-0.1) > 1e-12 {
		t.Errorf("stop event = %+v, want spot at yaw 0.1", stops[0])
	}
}

func TestRemove(t *testing.T) {
	b := newMockBackend()
	s, err := New(DefaultConfig(), b)
	if err != nil {
		t.Fatal(err)
	}

	el, err := s.Add("spot", orientation.Position{}, ElementOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("spot"); err != nil {
		t.Fatal(err)
	}
	if len(s.Elements()) != 0 {
		t.Error("element still registered after Remove")
	}
	if len(b.removed) != 1 || b.removed[0] != el.Node() {
		t.Errorf("removed nodes = %v, want [%v]", b.removed, el.Node())
	}

	if err := s.Remove("spot"); err == nil {
		t.Fatal("second Remove returned no error")
	}
}

func TestRemoveMidDragForcesStop(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}

	var stops []MoveStopEvent
	s.OnMoveStop(func(e MoveStopEvent) {
		stops = append(stops, e)
	})

	el, err := s.Add("spot", orientation.Position{}, ElementOptions{EnableControls: true})
	if err != nil {
		t.Fatal(err)
	}
	el.Controls.PointerDown(control.PointerEvent{Button: control.ButtonPrimary})
	el.Controls.PointerMove(control.PointerEvent{X: 40, Button: control.ButtonPrimary})

	if err := s.Remove("spot"); err != nil {
		t.Fatal(err)
	}
	if el.Controls.Active() {
		t.Error("controller still active after Remove")
	}
	if len(stops) != 1 {
		t.Fatalf("got %d stop events, want 1", len(stops))
	}
	if stops[0].Handle != "spot" {
		t.Errorf("stop handle = %v, want spot", stops[0].Handle)
	}
}

func TestFocusElement(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("spot", orientation.Position{Yaw: 1, Pitch: 0.3}, ElementOptions{}); err != nil {
		t.Fatal(err)
	}

	if err := s.FocusElement("spot"); err != nil {
		t.Fatal(err)
	}
	if pos := s.CurrentPosition(); pos.Yaw != 1 || pos.Pitch != 0.3 {
		t.Errorf("position = %+v, want (1, 0.3)", pos)
	}

	if err := s.FocusElement("ghost"); err == nil {
		t.Fatal("focusing unknown element returned no error")
	}
}

func TestFocusSuppressionIsOneShot(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("spot", orientation.Position{Yaw: 1, Pitch: 0.3}, ElementOptions{}); err != nil {
		t.Fatal(err)
	}

	s.SetPreventCameraMovement(true)
	if err := s.FocusElement("spot"); err != nil {
		t.Fatal(err)
	}
	if pos := s.CurrentPosition(); pos.Yaw != 0 || pos.Pitch != 0 {
		t.Errorf("position = %+v, want unchanged while suppressed", pos)
	}

	// The flag is consumed; the next focus moves the camera again.
	if err := s.FocusElement("spot"); err != nil {
		t.Fatal(err)
	}
	if pos := s.CurrentPosition(); pos.Yaw != 1 || pos.Pitch != 0.3 {
		t.Errorf("position = %+v, want (1, 0.3) after suppression consumed", pos)
	}
}

func TestElementFollowsPanoramaSwitch(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	el, err := s.Add("spot", orientation.Position{}, ElementOptions{EnableControls: true})
	if err != nil {
		t.Fatal(err)
	}

	s.SetPanorama(true)
	if !el.Controls.Panorama() {
		t.Fatal("element controls did not follow the mode switch")
	}

	el.Controls.PointerDown(control.PointerEvent{Button: control.ButtonPrimary})
	el.Controls.PointerMove(control.PointerEvent{X: 0, Y: 80, Button: control.ButtonPrimary})
	el.Controls.PointerUp()
	if got := el.Position.Pitch; got != 0 {
		t.Errorf("pitch = %v, want 0 (vertical motion suppressed)", got)
	}
}

func TestElementsOrder(t *testing.T) {
	s, err := New(DefaultConfig(), newMockBackend())
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range []string{"a", "b", "c"} {
		if _, err := s.Add(h, orientation.Position{}, ElementOptions{}); err != nil {
			t.Fatal(err)
		}
	}

	els := s.Elements()
	if len(els) != 3 {
		t.Fatalf("got %d elements, want 3", len(els))
	}
	for i, want := range []string{"a", "b", "c"} {
		if els[i].Handle != want {
			t.Errorf("element %d = %v, want %v", i, els[i].Handle, want)
		}
	}

	if s.Element("b") != els[1] {
		t.Error("Element(b) did not return the placed element")
	}
}
