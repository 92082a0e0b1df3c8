package scene

import (
	"fmt"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

// PlacedElement is an overlay anchored to a point on the display sphere.
type PlacedElement struct {
	// Handle is the host's identifier for the element. Handles are
	// compared with ==, so the value must be comparable.
	Handle any

	// Position is the element's angular anchor. Mutated only by the
	// element's own controller.
	Position orientation.Position

	// Spatial is false for flat nodes rendered outside the 3D pass.
	Spatial bool

	// Controls is the element's orientation controller, nil when the
	// element was added without controls.
	Controls *control.Controller

	node NodeID
}

// Node returns the backend node the element is bound to.
func (el *PlacedElement) Node() NodeID {
	return el.node
}

// ElementOptions configures Add.
type ElementOptions struct {
	// EnableControls wires a dedicated orientation controller so the
	// element itself can be dragged around the sphere.
	EnableControls bool

	// Flat requests a NodeFlat backend node instead of a spatial one.
	Flat bool
}

// Add registers an overlay element at pos and creates its backend node.
// Each handle may be added once; a duplicate is an error.
func (s *Scene) Add(handle any, pos orientation.Position, opts ElementOptions) (*PlacedElement, error) {
	if handle == nil {
		return nil, fmt.Errorf("nil element handle")
	}
	if s.lookup(handle) != nil {
		return nil, fmt.Errorf("element %v already added", handle)
	}

	kind := NodeSpatial
	if opts.Flat {
		kind = NodeFlat
	}
	node, err := s.backend.CreateNode(kind)
	if err != nil {
		return nil, fmt.Errorf("create node: %w", err)
	}

	el := &PlacedElement{
		Handle:   handle,
		Position: pos.Normalized(),
		Spatial:  !opts.Flat,
		node:     node,
	}
	s.backend.SetNodeTransform(node, Place(el.Position))

	if opts.EnableControls {
		el.Controls = control.New(control.Config{
			Friction: s.friction,
			Panorama: s.cam.Panorama,
		})
		el.Controls.OnMoveStart(func(e control.StartEvent) bool {
			return s.emitMoveStart(MoveStartEvent{Handle: handle, Modality: e.Modality})
		})
		el.Controls.OnMove(func(e control.MoveEvent) {
			d := orientation.Delta{Alpha: e.AlphaDelta, Beta: e.BetaDelta}
			el.Position = el.Position.Apply(d, false)
			s.backend.SetNodeTransform(el.node, Place(el.Position))
			s.emitMove(e)
		})
		el.Controls.OnMoveStop(func(control.StopEvent) {
			s.emitMoveStop(MoveStopEvent{
				Yaw:    el.Position.Yaw,
				Pitch:  el.Position.Pitch,
				Handle: handle,
			})
		})
	}

	s.elements = append(s.elements, el)
	return el, nil
}

// Remove detaches an element and its backend node. A drag in flight is
// force-ended first so listeners still see their movestop.
func (s *Scene) Remove(handle any) error {
	for i, el := range s.elements {
		if el.Handle == handle {
			if el.Controls != nil && el.Controls.Active() {
				el.Controls.End()
			}
			s.backend.RemoveNode(el.node)
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("element %v not found", handle)
}

// FocusElement re-centers the camera on an element, matching focus-follow
// for keyboard and screen-reader users. A pending one-shot suppression set
// via SetPreventCameraMovement skips the recentering and is consumed either
// way.
func (s *Scene) FocusElement(handle any) error {
	el := s.lookup(handle)
	if el == nil {
		return fmt.Errorf("element %v not found", handle)
	}
	if !s.preventCameraMovement {
		s.SetCameraPosition(el.Position.Yaw, el.Position.Pitch)
	}
	s.preventCameraMovement = false
	return nil
}

// SetPreventCameraMovement arms or clears the one-shot focus suppression.
func (s *Scene) SetPreventCameraMovement(prevent bool) {
	s.preventCameraMovement = prevent
}

// Elements returns the placed elements in insertion order.
func (s *Scene) Elements() []*PlacedElement {
	out := make([]*PlacedElement, len(s.elements))
	copy(out, s.elements)
	return out
}

// Element returns the placed element for handle, nil if unknown.
func (s *Scene) Element(handle any) *PlacedElement {
	return s.lookup(handle)
}

func (s *Scene) lookup(handle any) *PlacedElement {
	for _, el := range s.elements {
		if el.Handle == handle {
			return el
		}
	}
	return nil
}
