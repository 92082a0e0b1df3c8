// Package control turns raw pointer, touch and keyboard input into angular
// deltas for one controllable target (the camera, or a single overlay
// element). Each Controller arbitrates its own gestures: at most one session
// is active per instance, and a session's start can be vetoed by observers.
package control

import (
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
)

// DefaultFriction divides raw pixel deltas into radians.
const DefaultFriction = 400.0

// Friction scale factors per input modality. Touch pointers are coarser, so
// the divisor shrinks and per-pixel motion grows; keys emit single-unit
// steps, so the divisor shrinks much further.
const (
	TouchFrictionScale    = 0.75
	KeyboardFrictionScale = 0.025
)

// Modality identifies the input device driving a control session.
type Modality int

const (
	ModalityNone Modality = iota
	ModalityPointer
	ModalityTouch
	ModalityKeyboard
)

// StartEvent is passed to move-start observers before a session activates.
type StartEvent struct {
	X, Y     float64
	Modality Modality
}

// MoveEvent carries one movement step of the active session. AlphaDelta and
// BetaDelta are this step's increments; Alpha and Beta are the session's
// running accumulators.
type MoveEvent struct {
	AlphaDelta float64
	BetaDelta  float64
	Alpha      float64
	Beta       float64
}

// StopEvent carries the final session accumulators when a session ends.
type StopEvent struct {
	Alpha float64
	Beta  float64
}

// Config holds controller tuning.
type Config struct {
	// Friction divides raw deltas into radians. Zero uses DefaultFriction.
	Friction float64
	// Panorama suppresses vertical deltas at the source.
	Panorama bool
	// InvertKeys flips keyboard step direction. Set for the camera, which
	// rotates opposite to a dragged element.
	InvertKeys bool
}

// session is one active gesture.
type session struct {
	modality Modality
	originX  float64
	originY  float64
	alpha    float64
	beta     float64
}

// Controller is the per-target orientation state machine.
type Controller struct {
	cfg Config

	active *session

	// Pointer adapter: previous absolute position for computed deltas.
	lastX, lastY float64

	// Keyboard adapter: the single honored held key.
	heldKey Key

	startObservers []func(StartEvent) bool
	moveObservers  []func(MoveEvent)
	stopObservers  []func(StopEvent)
}

// New creates a controller. A zero Friction falls back to DefaultFriction.
func New(cfg Config) *Controller {
	if cfg.Friction <= 0 {
		cfg.Friction = DefaultFriction
	}
	return &Controller{cfg: cfg}
}

// Friction returns the base friction divisor.
func (c *Controller) Friction() float64 {
	return c.cfg.Friction
}

// SetPanorama switches vertical-delta suppression on or off.
func (c *Controller) SetPanorama(panorama bool) {
	c.cfg.Panorama = panorama
}

// Panorama reports whether vertical deltas are suppressed.
func (c *Controller) Panorama() bool {
	return c.cfg.Panorama
}

// OnMoveStart registers a move-start observer. Every observer runs for each
// start attempt; any false return vetoes the session.
func (c *Controller) OnMoveStart(fn func(StartEvent) bool) {
	c.startObservers = append(c.startObservers, fn)
}

// OnMove registers a move observer.
func (c *Controller) OnMove(fn func(MoveEvent)) {
	c.moveObservers = append(c.moveObservers, fn)
}

// OnMoveStop registers a move-stop observer.
func (c *Controller) OnMoveStop(fn func(StopEvent)) {
	c.stopObservers = append(c.stopObservers, fn)
}

// Start begins a session at (x, y). It reports false, with no state change,
// when a session is already active or when an observer vetoes the start.
func (c *Controller) Start(x, y float64, m Modality) bool {
	if c.active != nil {
		return false
	}
	if !c.emitMoveStart(StartEvent{X: x, Y: y, Modality: m}) {
		return false
	}
	c.active = &session{modality: m, originX: x, originY: y}
	return true
}

// Move applies a raw delta to the active session. Positive dx increases yaw,
// positive dy increases pitch. Without an active session this is a silent
// no-op, mirroring how duplicate device events are tolerated.
func (c *Controller) Move(dx, dy, friction float64) {
	if c.active == nil {
		return
	}
	alphaDelta := dx / friction
	betaDelta := dy / friction
	if c.cfg.Panorama {
		betaDelta = 0
	}

	// The accumulators measure session-relative rotation and obey the same
	// wrap/clamp rules as an absolute position.
	acc := orientation.Position{Yaw: c.active.alpha, Pitch: c.active.beta}.
		Apply(orientation.Delta{Alpha: alphaDelta, Beta: betaDelta}, false)
	c.active.alpha = acc.Yaw
	c.active.beta = acc.Pitch

	c.emitMove(MoveEvent{
		AlphaDelta: alphaDelta,
		BetaDelta:  betaDelta,
		Alpha:      c.active.alpha,
		Beta:       c.active.beta,
	})
}

// End closes the active session and notifies move-stop observers. Calling it
// while idle still notifies, so consumers can rely on it for cleanup.
func (c *Controller) End() {
	var ev StopEvent
	if c.active != nil {
		ev = StopEvent{Alpha: c.active.alpha, Beta: c.active.beta}
	}
	c.active = nil
	c.heldKey = KeyNone
	c.emitMoveStop(ev)
}

// Active reports whether a session is in progress.
func (c *Controller) Active() bool {
	return c.active != nil
}

// Modality returns the active session's input modality, or ModalityNone.
func (c *Controller) Modality() Modality {
	if c.active == nil {
		return ModalityNone
	}
	return c.active.modality
}

// Accumulated returns the active session's accumulators, or zeros when idle.
func (c *Controller) Accumulated() (alpha, beta float64) {
	if c.active == nil {
		return 0, 0
	}
	return c.active.alpha, c.active.beta
}

func (c *Controller) emitMoveStart(ev StartEvent) bool {
	allowed := true
	for _, fn := range c.startObservers {
		if !fn(ev) {
			allowed = false
		}
	}
	return allowed
}

func (c *Controller) emitMove(ev MoveEvent) {
	for _, fn := range c.moveObservers {
		fn(ev)
	}
}

func (c *Controller) emitMoveStop(ev StopEvent) {
	for _, fn := range c.stopObservers {
		fn(ev)
	}
}
