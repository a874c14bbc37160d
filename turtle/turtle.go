// Package turtle implements the position/heading state machine that turns
// drawing actions into line segments.
package turtle

import (
	"math"
)

// DefaultHeading points up on a screen whose y axis grows downwards.
const DefaultHeading = -90.0

// State is a snapshot of the turtle. Heading is in degrees, 0 pointing along
// +x.
type State struct {
	X, Y    float64
	Heading float64
	PenDown bool
}

// Segment is one drawn line in world coordinates.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
	Width  float64
	Color  string
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Turtle records segments while it moves. The zero value is not usable; use
// New.
type Turtle struct {
	start    State
	state    State
	stack    []State
	segments []Segment
}

type Option func(*Turtle)

// WithHeading sets the heading the turtle starts with and returns to on Clear.
func WithHeading(deg float64) Option {
	return func(t *Turtle) { t.start.Heading = deg }
}

// WithOrigin sets the starting position.
func WithOrigin(x, y float64) Option {
	return func(t *Turtle) { t.start.X, t.start.Y = x, y }
}

func New(opts ...Option) *Turtle {
	t := &Turtle{start: State{Heading: DefaultHeading, PenDown: true}}
	for _, opt := range opts {
		opt(t)
	}
	t.state = t.start
	return t
}

// Forward moves length units along the heading, recording a segment when the
// pen is down. Widths below 1 are drawn as 1.
func (t *Turtle) Forward(length, width float64, color string) {
	rad := t.state.Heading * math.Pi / 180
	nx := t.state.X + length*math.Cos(rad)
	ny := t.state.Y + length*math.Sin(rad)
	if t.state.PenDown {
		if math.IsNaN(width) || width < 1 {
			width = 1
		}
		t.segments = append(t.segments, Segment{
			X1: t.state.X, Y1: t.state.Y,
			X2: nx, Y2: ny,
			Width: width,
			Color: color,
		})
	}
	t.state.X, t.state.Y = nx, ny
}

// Angle turns by delta degrees.
func (t *Turtle) Angle(delta float64) {
	t.state.Heading += delta
}

// Push saves the current state.
func (t *Turtle) Push() {
	t.stack = append(t.stack, t.state)
}

// Pop restores the last pushed state. Popping an empty stack does nothing.
func (t *Turtle) Pop() {
	if len(t.stack) == 0 {
		return
	}
	t.state = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *Turtle) PenUp()   { t.state.PenDown = false }
func (t *Turtle) PenDown() { t.state.PenDown = true }

// Clear drops all segments and saved states and returns to the start state.
func (t *Turtle) Clear() {
	t.state = t.start
	t.stack = nil
	t.segments = nil
}

func (t *Turtle) State() State { return t.state }

// Depth returns the number of saved states.
func (t *Turtle) Depth() int { return len(t.stack) }

// Segments returns a copy of the segments drawn since the last Clear.
func (t *Turtle) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Box is an axis aligned bounding box.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the box enclosing segs. It reports false for no segments.
func Bounds(segs []Segment) (Box, bool) {
	if len(segs) == 0 {
		return Box{}, false
	}
	b := Box{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, s := range segs {
		b.MinX = math.Min(b.MinX, math.Min(s.X1, s.X2))
		b.MinY = math.Min(b.MinY, math.Min(s.Y1, s.Y2))
		b.MaxX = math.Max(b.MaxX, math.Max(s.X1, s.X2))
		b.MaxY = math.Max(b.MaxY, math.Max(s.Y1, s.Y2))
	}
	return b, true
}
