// Package review turns a drag gesture into a keep/discard decision and walks
// the cursor through the collection as cards are committed away.
package review

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// State is the engine's position in the gesture cycle.
type State int

const (
	Idle State = iota
	Dragging
	CommittingRight
	CommittingLeft
	Returning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case CommittingRight:
		return "committing_right"
	case CommittingLeft:
		return "committing_left"
	case Returning:
		return "returning"
	default:
		return "unknown"
	}
}

// Direction is the outcome of a release.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// Config holds the gesture tuning. Zero fields fall back to the defaults;
// only ScreenWidth has no useful default.
type Config struct {
	ScreenWidth     float64
	Threshold       float64 // displacement units past which a release commits
	Velocity        float64 // units per millisecond past which a release commits
	CommitDuration  time.Duration
	OffscreenFactor float64 // commit target in screen widths
	MaxRotation     float64 // degrees at full-width displacement
	FrameInterval   time.Duration
}

func DefaultConfig(screenWidth float64) Config {
	return Config{ScreenWidth: screenWidth}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Threshold == 0 {
		c.Threshold = 100
	}
	if c.Velocity == 0 {
		c.Velocity = 0.5
	}
	if c.CommitDuration == 0 {
		c.CommitDuration = 300 * time.Millisecond
	}
	if c.OffscreenFactor == 0 {
		c.OffscreenFactor = 1.5
	}
	if c.MaxRotation == 0 {
		c.MaxRotation = 30
	}
	if c.FrameInterval == 0 {
		c.FrameInterval = 16 * time.Millisecond
	}
	return c
}

// Decide maps a release onto its direction: velocity past the limit wins,
// then displacement past the threshold, evaluated rightward first. Anything
// else returns the card to origin.
func Decide(dx, vx float64, cfg Config) Direction {
	switch {
	case vx > cfg.Velocity || dx > cfg.Threshold:
		return DirectionRight
	case vx < -cfg.Velocity || dx < -cfg.Threshold:
		return DirectionLeft
	default:
		return DirectionNone
	}
}

// Frame is one animation step handed to the Frame handler.
type Frame struct {
	X        float64
	Y        float64
	Rotation float64
	State    State
}

// Handlers receive the engine's outcomes. SwipeLeft and SwipeRight are the
// terminal callbacks, fired exactly once per committed cycle after the
// commit animation finishes. Frame is optional and purely cosmetic.
type Handlers struct {
	SwipeLeft  func()
	SwipeRight func()
	Frame      func(Frame)
}

// Spring constants for the return-to-origin animation, near critical
// damping so the card settles without oscillating.
const (
	springStiffness = 170.0
	springDamping   = 26.0
	restDelta       = 0.5 // units
	restSpeed       = 5.0 // units per second
)

// Engine is the per-card gesture state machine: Idle, Dragging, then one of
// CommittingRight, CommittingLeft or Returning, and back to Idle. A commit
// translates the card past the screen edge over a fixed duration and then
// fires its terminal callback; a return springs back and fires nothing.
// Once an animation runs, the cycle cannot be cancelled and a new Begin is
// refused until it completes.
type Engine struct {
	cfg      Config
	handlers Handlers
	log      *zap.Logger
	clk      clock.Clock

	mu     sync.Mutex
	state  State
	gen    uint64
	x, y   float64
	vx, vy float64 // spring velocity while Returning, units per second

	startX  float64
	targetX float64
	started time.Time
}

type EngineOption func(*Engine)

func WithClock(clk clock.Clock) EngineOption {
	return func(e *Engine) { e.clk = clk }
}

func WithEngineLogger(log *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

func NewEngine(cfg Config, handlers Handlers, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:      cfg.withDefaults(),
		handlers: handlers,
		log:      zap.NewNop(),
		clk:      clock.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Begin starts a gesture cycle. It reports false while a previous cycle is
// still animating; the card is untouchable until the cycle completes.
func (e *Engine) Begin() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Idle {
		return false
	}
	e.state = Dragging
	e.x, e.y = 0, 0
	return true
}

// Move tracks the finger 1:1 on both axes. Offsets are relative to the
// touch-down point; calls outside Dragging are ignored.
func (e *Engine) Move(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Dragging {
		return
	}
	e.x = dx
	e.y = dy
}

// Release ends the drag with the gesture's horizontal velocity in units per
// millisecond and starts the matching animation. The returned direction is
// the decision, not its completion: terminal handlers fire only when the
// commit animation ends.
func (e *Engine) Release(vx float64) Direction {
	e.mu.Lock()
	if e.state != Dragging {
		e.mu.Unlock()
		return DirectionNone
	}
	dx := e.x
	dir := Decide(dx, vx, e.cfg)
	switch dir {
	case DirectionRight, DirectionLeft:
		e.startCommitLocked(dir)
	default:
		e.startReturnLocked(vx)
	}
	e.mu.Unlock()

	e.log.Debug("gesture released",
		zap.Float64("dx", dx),
		zap.Float64("vx", vx),
		zap.String("decision", dir.String()),
	)
	return dir
}

// State returns the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Position returns the card's current offset from origin.
func (e *Engine) Position() (x, y float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.x, e.y
}

// Rotation returns the card tilt in degrees for the current displacement,
// linear across [-ScreenWidth, ScreenWidth] and clamped at ±MaxRotation.
func (e *Engine) Rotation() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rotationFor(e.x, e.cfg)
}

func rotationFor(x float64, cfg Config) float64 {
	if cfg.ScreenWidth <= 0 {
		return 0
	}
	clamped := math.Max(-cfg.ScreenWidth, math.Min(cfg.ScreenWidth, x))
	return clamped / cfg.ScreenWidth * cfg.MaxRotation
}

func (e *Engine) startCommitLocked(dir Direction) {
	if dir == DirectionRight {
		e.state = CommittingRight
		e.targetX = e.cfg.OffscreenFactor * e.cfg.ScreenWidth
	} else {
		e.state = CommittingLeft
		e.targetX = -e.cfg.OffscreenFactor * e.cfg.ScreenWidth
	}
	e.gen++
	gen := e.gen
	e.startX = e.x
	e.started = e.clk.Now()

	if e.handlers.Frame != nil {
		e.clk.AfterFunc(e.cfg.FrameInterval, func() { e.stepCommit(gen) })
	}
	e.clk.AfterFunc(e.cfg.CommitDuration, func() { e.finishCommit(gen, dir) })
}

func (e *Engine) stepCommit(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || (e.state != CommittingRight && e.state != CommittingLeft) {
		e.mu.Unlock()
		return
	}
	p := float64(e.clk.Since(e.started)) / float64(e.cfg.CommitDuration)
	if p > 1 {
		p = 1
	}
	e.x = e.startX + (e.targetX-e.startX)*p
	frame := e.frameLocked()
	if p < 1 {
		e.clk.AfterFunc(e.cfg.FrameInterval, func() { e.stepCommit(gen) })
	}
	e.mu.Unlock()

	e.emitFrame(frame)
}

// finishCommit runs when the commit duration elapses. The generation guard
// makes the terminal callback fire at most once per cycle no matter how the
// completion ends up scheduled.
func (e *Engine) finishCommit(gen uint64, dir Direction) {
	e.mu.Lock()
	if gen != e.gen || (e.state != CommittingRight && e.state != CommittingLeft) {
		e.mu.Unlock()
		return
	}
	e.gen++
	e.x = e.targetX
	final := e.frameLocked()
	e.x, e.y = 0, 0
	e.state = Idle

	var cb func()
	if dir == DirectionRight {
		cb = e.handlers.SwipeRight
	} else {
		cb = e.handlers.SwipeLeft
	}
	e.mu.Unlock()

	e.emitFrame(final)
	if cb != nil {
		cb()
	}
	e.log.Debug("swipe committed", zap.String("direction", dir.String()))
}

func (e *Engine) startReturnLocked(vx float64) {
	e.state = Returning
	e.gen++
	gen := e.gen
	e.vx = vx * 1000 // gesture velocity arrives in units/ms, the spring runs in seconds
	e.vy = 0
	e.clk.AfterFunc(e.cfg.FrameInterval, func() { e.stepSpring(gen) })
}

func (e *Engine) stepSpring(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.state != Returning {
		e.mu.Unlock()
		return
	}
	dt := e.cfg.FrameInterval.Seconds()
	e.vx += (-springStiffness*e.x - springDamping*e.vx) * dt
	e.vy += (-springStiffness*e.y - springDamping*e.vy) * dt
	e.x += e.vx * dt
	e.y += e.vy * dt

	settled := math.Abs(e.x) < restDelta && math.Abs(e.y) < restDelta &&
		math.Abs(e.vx) < restSpeed && math.Abs(e.vy) < restSpeed
	if settled {
		e.gen++
		e.x, e.y, e.vx, e.vy = 0, 0, 0, 0
		e.state = Idle
	} else {
		e.clk.AfterFunc(e.cfg.FrameInterval, func() { e.stepSpring(gen) })
	}
	frame := e.frameLocked()
	e.mu.Unlock()

	e.emitFrame(frame)
}

func (e *Engine) frameLocked() Frame {
	return Frame{
		X:        e.x,
		Y:        e.y,
		Rotation: rotationFor(e.x, e.cfg),
		State:    e.state,
	}
}

func (e *Engine) emitFrame(f Frame) {
	if e.handlers.Frame != nil {
		e.handlers.Frame(f)
	}
}
