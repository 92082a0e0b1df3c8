// Package input translates SDL2 events into viewer input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/zoom"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventWheel
	EventTouchDown
	EventTouchMove
	EventTouchUp
	EventPinchStart
	EventPinch
	EventPinchEnd
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event. Only the fields matching the
// Type are meaningful.
type Event struct {
	Type EventType

	// Pointer and touch position in window coordinates. For pinch events
	// X/Y is the first finger and X2/Y2 the second.
	X, Y   float64
	X2, Y2 float64

	// Relative pointer motion as reported by the backend.
	DX, DY float64

	Button  control.Button
	Fingers int

	// WheelY uses the browser sign convention: negative scrolls in.
	WheelY float64

	// Key carries the mapped direction key, ZoomKey the mapped zoom key,
	// Sym the raw keycode for application shortcuts.
	Key     control.Key
	ZoomKey zoom.Key
	Sym     sdl.Keycode

	Width  int
	Height int
}

// Input polls SDL and keeps the per-frame event list plus finger state.
type Input struct {
	events []Event

	width  float64
	height float64

	fingerOrder []sdl.FingerID
	fingerPos   map[sdl.FingerID][2]float64
}

// New creates an input handler. Width and height denormalize touch
// coordinates and follow window resizes automatically.
func New(width, height int) *Input {
	return &Input{
		events:    make([]Event, 0, 16),
		width:     float64(width),
		height:    float64(height),
		fingerPos: make(map[sdl.FingerID][2]float64),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// handle converts one SDL event. Split from Update so translation is
// testable without an SDL event queue.
func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			i.width = float64(e.Data1)
			i.height = float64(e.Data2)
			i.events = append(i.events, Event{
				Type:   EventResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:     mapKey(e.Keysym.Sym),
			ZoomKey: mapZoomKey(e.Keysym.Sym),
			Sym:     e.Keysym.Sym,
		}
		// Key repeats pass through: held arrows emit one step per repeat.
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
		} else {
			ev.Type = EventKeyUp
		}
		i.events = append(i.events, ev)

	case *sdl.MouseMotionEvent:
		if e.Which == sdl.TOUCH_MOUSEID {
			break // touch devices deliver real finger events
		}
		i.events = append(i.events, Event{
			Type: EventPointerMove,
			X:    float64(e.X),
			Y:    float64(e.Y),
			DX:   float64(e.XRel),
			DY:   float64(e.YRel),
		})

	case *sdl.MouseButtonEvent:
		if e.Which == sdl.TOUCH_MOUSEID {
			break
		}
		ev := Event{
			X:      float64(e.X),
			Y:      float64(e.Y),
			Button: mapButton(e.Button),
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventPointerDown
		} else {
			ev.Type = EventPointerUp
		}
		i.events = append(i.events, ev)

	case *sdl.MouseWheelEvent:
		wheelY := float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			wheelY = -wheelY
		}
		// SDL positive Y scrolls up; browsers call that negative deltaY.
		i.events = append(i.events, Event{
			Type:   EventWheel,
			WheelY: -wheelY,
		})

	case *sdl.TouchFingerEvent:
		i.handleFinger(e)
	}

	return false
}

func (i *Input) handleFinger(e *sdl.TouchFingerEvent) {
	x := float64(e.X) * i.width
	y := float64(e.Y) * i.height

	switch e.Type {
	case sdl.FINGERDOWN:
		i.fingerOrder = append(i.fingerOrder, e.FingerID)
		i.fingerPos[e.FingerID] = [2]float64{x, y}
		switch len(i.fingerOrder) {
		case 1:
			i.events = append(i.events, Event{
				Type: EventTouchDown, X: x, Y: y, Fingers: 1,
			})
		case 2:
			i.events = append(i.events, i.pinchEvent(EventPinchStart))
		}

	case sdl.FINGERMOTION:
		if _, ok := i.fingerPos[e.FingerID]; !ok {
			break // motion for a finger we never saw go down
		}
		i.fingerPos[e.FingerID] = [2]float64{x, y}
		switch len(i.fingerOrder) {
		case 1:
			i.events = append(i.events, Event{
				Type: EventTouchMove, X: x, Y: y, Fingers: 1,
			})
		case 2:
			i.events = append(i.events, i.pinchEvent(EventPinch))
		}

	case sdl.FINGERUP:
		if _, ok := i.fingerPos[e.FingerID]; !ok {
			break
		}
		if len(i.fingerOrder) == 2 {
			i.events = append(i.events, Event{Type: EventPinchEnd})
		}
		i.dropFinger(e.FingerID)
		if len(i.fingerOrder) == 0 {
			i.events = append(i.events, Event{
				Type: EventTouchUp, X: x, Y: y,
			})
		}
	}
}

// pinchEvent builds a two-finger event from the tracked positions, first
// finger down first.
func (i *Input) pinchEvent(t EventType) Event {
	a := i.fingerPos[i.fingerOrder[0]]
	b := i.fingerPos[i.fingerOrder[1]]
	return Event{
		Type: t,
		X:    a[0], Y: a[1],
		X2: b[0], Y2: b[1],
		Fingers: 2,
	}
}

func (i *Input) dropFinger(id sdl.FingerID) {
	delete(i.fingerPos, id)
	for n, f := range i.fingerOrder {
		if f == id {
			i.fingerOrder = append(i.fingerOrder[:n], i.fingerOrder[n+1:]...)
			break
		}
	}
}

// mapButton converts an SDL button index.
func mapButton(b uint8) control.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return control.ButtonPrimary
	case sdl.BUTTON_MIDDLE:
		return control.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return control.ButtonSecondary
	default:
		return control.ButtonNone
	}
}

// mapKey converts arrow keys and their keypad equivalents.
func mapKey(sym sdl.Keycode) control.Key {
	switch sym {
	case sdl.K_LEFT, sdl.K_KP_4:
		return control.KeyLeft
	case sdl.K_RIGHT, sdl.K_KP_6:
		return control.KeyRight
	case sdl.K_UP, sdl.K_KP_8:
		return control.KeyUp
	case sdl.K_DOWN, sdl.K_KP_2:
		return control.KeyDown
	default:
		return control.KeyNone
	}
}

// mapZoomKey converts plus and minus keys, keypad included.
func mapZoomKey(sym sdl.Keycode) zoom.Key {
	switch sym {
	case sdl.K_PLUS, sdl.K_EQUALS, sdl.K_KP_PLUS:
		return zoom.KeyPlus
	case sdl.K_MINUS, sdl.K_KP_MINUS:
		return zoom.KeyMinus
	default:
		return zoom.KeyNone
	}
}
