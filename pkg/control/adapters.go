package control

// Button identifies a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// Key identifies a direction key. The windowing layer maps both arrow keys
// and their numeric-keypad equivalents onto these.
type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// PointerEvent is a normalized pointer event. X and Y are absolute window
// coordinates. When the backend reports per-event relative motion, DX/DY
// carry it and HasMotion is set; otherwise the adapter derives the delta
// from the previous absolute position.
type PointerEvent struct {
	X, Y      float64
	DX, DY    float64
	HasMotion bool
	Button    Button
}

// TouchEvent is a normalized single-point touch event. Fingers is the number
// of fingers on the surface when the event fired.
type TouchEvent struct {
	X, Y    float64
	Fingers int
}

// PointerDown begins a pointer session. Only the primary button starts a
// drag; anything else reports false.
func (c *Controller) PointerDown(e PointerEvent) bool {
	if e.Button != ButtonPrimary {
		return false
	}
	if !c.Start(e.X, e.Y, ModalityPointer) {
		return false
	}
	c.lastX, c.lastY = e.X, e.Y
	return true
}

// PointerMove advances an active pointer session. Events arriving while a
// different modality holds the session are ignored.
func (c *Controller) PointerMove(e PointerEvent) {
	if c.Modality() != ModalityPointer {
		return
	}
	dx, dy := e.DX, e.DY
	if !e.HasMotion {
		dx = e.X - c.lastX
		dy = e.Y - c.lastY
	}
	c.lastX, c.lastY = e.X, e.Y
	c.Move(dx, dy, c.cfg.Friction)
}

// PointerUp ends an active pointer session.
func (c *Controller) PointerUp() {
	if c.Modality() != ModalityPointer {
		return
	}
	c.End()
}

// TouchStart begins a touch session. Single-finger only: a second finger
// belongs to the pinch gesture, which the zoom controller owns.
func (c *Controller) TouchStart(e TouchEvent) bool {
	if e.Fingers != 1 {
		return false
	}
	if !c.Start(e.X, e.Y, ModalityTouch) {
		return false
	}
	c.lastX, c.lastY = e.X, e.Y
	return true
}

// TouchMove advances an active touch session at the touch friction scale.
// Multi-finger events are ignored rather than integrated.
func (c *Controller) TouchMove(e TouchEvent) {
	if c.Modality() != ModalityTouch || e.Fingers != 1 {
		return
	}
	dx := e.X - c.lastX
	dy := e.Y - c.lastY
	c.lastX, c.lastY = e.X, e.Y
	c.Move(dx, dy, c.cfg.Friction*TouchFrictionScale)
}

// TouchEnd ends an active touch session.
func (c *Controller) TouchEnd() {
	if c.Modality() != ModalityTouch {
		return
	}
	c.End()
}

// KeyDown begins or advances a key-driven session. Only the first key held
// is honored until it is released; every key-down event, initial or repeat,
// emits one discrete step.
func (c *Controller) KeyDown(k Key) bool {
	if k == KeyNone {
		return false
	}
	if c.heldKey == KeyNone {
		if !c.Start(0, 0, ModalityKeyboard) {
			return false
		}
		c.heldKey = k
	} else if c.heldKey != k {
		return false
	}

	dx, dy := keyStep(k)
	if c.cfg.InvertKeys {
		dx, dy = -dx, -dy
	}
	c.Move(dx, dy, c.cfg.Friction*KeyboardFrictionScale)
	return true
}

// KeyUp ends the key session when the held key is released. Releases of
// other keys are ignored.
func (c *Controller) KeyUp(k Key) {
	if c.heldKey == KeyNone || c.heldKey != k {
		return
	}
	c.End()
}

// keyStep maps a key onto a one-unit delta in screen convention: right and
// down are positive.
func keyStep(k Key) (dx, dy float64) {
	switch k {
	case KeyLeft:
		return -1, 0
	case KeyRight:
		return 1, 0
	case KeyUp:
		return 0, -1
	case KeyDown:
		return 0, 1
	}
	return 0, 0
}
