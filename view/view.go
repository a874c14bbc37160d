// Package view maps world coordinates to screen coordinates through a zoom,
// a rotation and a pan offset, and keeps a pivot point fixed on screen while
// any of them changes.
package view

import (
	"math"

	"github.com/hananel42/L-system-studio/turtle"
)

const (
	// MinZoom keeps the transform invertible.
	MinZoom = 0.01

	wheelIn  = 1.1
	wheelOut = 0.9
)

// Point is a 2D coordinate, in world or screen units depending on context.
type Point struct {
	X, Y float64
}

// View is the screen transform: screen = rotate(world*zoom) + offset.
type View struct {
	Zoom     float64
	Rotation float64 // degrees, kept in [0, 360)
	Offset   Point

	width, height float64
}

// New returns an identity-scaled view centred on a width x height canvas.
func New(width, height float64) *View {
	v := &View{width: width, height: height}
	v.Reset()
	return v
}

// Reset restores zoom 1, rotation 0 and a centred origin.
func (v *View) Reset() {
	v.Zoom = 1
	v.Rotation = 0
	v.Offset = Point{X: v.width / 2, Y: v.height / 2}
}

// Resize changes the canvas size used by Reset and RotateAboutCenter.
func (v *View) Resize(width, height float64) {
	v.width, v.height = width, height
}

func (v *View) Size() (width, height float64) { return v.width, v.height }

// WorldToScreen maps a world point to the screen.
func (v *View) WorldToScreen(p Point) Point {
	sx, sy := p.X*v.Zoom, p.Y*v.Zoom
	sin, cos := math.Sincos(v.Rotation * math.Pi / 180)
	return Point{
		X: sx*cos - sy*sin + v.Offset.X,
		Y: sx*sin + sy*cos + v.Offset.Y,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v *View) ScreenToWorld(p Point) Point {
	rx, ry := p.X-v.Offset.X, p.Y-v.Offset.Y
	sin, cos := math.Sincos(v.Rotation * math.Pi / 180)
	ix := rx*cos + ry*sin
	iy := -rx*sin + ry*cos
	if v.Zoom == 0 {
		return Point{X: ix, Y: iy}
	}
	return Point{X: ix / v.Zoom, Y: iy / v.Zoom}
}

// Pan moves the view by a screen-space delta.
func (v *View) Pan(dx, dy float64) {
	v.Offset.X += dx
	v.Offset.Y += dy
}

// ZoomAt multiplies the zoom by factor, keeping the world point under pivot
// in place on screen.
func (v *View) ZoomAt(pivot Point, factor float64) {
	v.keepFixed(pivot, func() {
		v.Zoom *= factor
		if v.Zoom < MinZoom || math.IsNaN(v.Zoom) {
			v.Zoom = MinZoom
		}
	})
}

// Wheel zooms in for a negative deltaY and out otherwise, at the cursor.
func (v *View) Wheel(cursor Point, deltaY float64) {
	factor := wheelOut
	if deltaY < 0 {
		factor = wheelIn
	}
	v.ZoomAt(cursor, factor)
}

// Pinch zooms by the ratio of the current to the previous finger distance,
// around the current midpoint.
func (v *View) Pinch(prevA, prevB, curA, curB Point) {
	prev := math.Hypot(prevA.X-prevB.X, prevA.Y-prevB.Y)
	cur := math.Hypot(curA.X-curB.X, curA.Y-curB.Y)
	if prev == 0 {
		return
	}
	mid := Point{X: (curA.X + curB.X) / 2, Y: (curA.Y + curB.Y) / 2}
	v.ZoomAt(mid, cur/prev)
}

// RotateAt rotates by delta degrees around a screen pivot.
func (v *View) RotateAt(pivot Point, delta float64) {
	v.keepFixed(pivot, func() {
		r := math.Mod(v.Rotation+delta, 360)
		if r < 0 {
			r += 360
		}
		v.Rotation = r
	})
}

// RotateAboutCenter rotates around the middle of the canvas.
func (v *View) RotateAboutCenter(delta float64) {
	v.RotateAt(Point{X: v.width / 2, Y: v.height / 2}, delta)
}

// keepFixed applies change and then pans so the world point that was under
// pivot is under it again.
func (v *View) keepFixed(pivot Point, change func()) {
	world := v.ScreenToWorld(pivot)
	change()
	after := v.WorldToScreen(world)
	v.Pan(pivot.X-after.X, pivot.Y-after.Y)
}

// Segments maps turtle segments to screen space.
func (v *View) Segments(segs []turtle.Segment) []turtle.Segment {
	out := make([]turtle.Segment, len(segs))
	for i, s := range segs {
		a := v.WorldToScreen(Point{X: s.X1, Y: s.Y1})
		b := v.WorldToScreen(Point{X: s.X2, Y: s.Y2})
		out[i] = turtle.Segment{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Width: s.Width, Color: s.Color}
	}
	return out
}
