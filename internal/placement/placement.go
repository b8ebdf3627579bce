// Package placement computes where new nodes go relative to the nodes that
// spawned them. Layout happens on the XZ plane; Y is the vertical axis.
package placement

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Up is the axis fan-outs rotate about.
var Up = r3.Vec{Y: 1}

// Forward is the default direction when there is no predecessor.
var Forward = r3.Vec{X: 1}

const epsilon = 1e-9

// Layout carries the distances used when placing nodes.
type Layout struct {
	UnitDistance float64
	ArcDegrees   float64
	GroupScale   float64
}

// DefaultLayout matches the config defaults.
func DefaultLayout() Layout {
	return Layout{UnitDistance: 3, ArcDegrees: 90, GroupScale: 2}
}

// Planar drops the vertical component.
func Planar(v r3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Z: v.Z}
}

// Direction returns the planar unit vector from one point to another, or
// Forward when the points coincide.
func Direction(from, to r3.Vec) r3.Vec {
	d := Planar(r3.Sub(to, from))
	if r3.Norm(d) < epsilon {
		return Forward
	}
	return r3.Unit(d)
}

// CirclePosition returns the point on the unit circle at index/count of a
// full turn from start.
func CirclePosition(index, count int, start r3.Vec) r3.Vec {
	dir := normalize(start)
	if count <= 0 {
		return dir
	}
	angle := float64(index) / float64(count) * 2 * math.Pi
	return r3.Rotate(dir, angle, Up)
}

// ArcPosition returns the index-th of count points spread over an arc of
// arcDegrees centered on direction. The first point sits at +arcDegrees/2.
func ArcPosition(direction r3.Vec, arcDegrees float64, index, count int) r3.Vec {
	dir := normalize(direction)
	start := arcDegrees / 2
	step := 0.0
	if count > 1 {
		step = -arcDegrees / float64(count-1)
	}
	angle := (start + step*float64(index)) * math.Pi / 180
	return r3.Rotate(dir, angle, Up)
}

// NextNodePosition continues the line from previous through current by
// distance. A nil previous continues along Forward.
func NextNodePosition(current r3.Vec, previous *r3.Vec, distance float64) r3.Vec {
	dir := Forward
	if previous != nil {
		dir = Direction(*previous, current)
	}
	return r3.Add(current, r3.Scale(distance, dir))
}

// Circle places member index of count around anchor.
func (l Layout) Circle(anchor r3.Vec, index, count int, start r3.Vec, scale float64) r3.Vec {
	return r3.Add(anchor, r3.Scale(l.UnitDistance*scale, CirclePosition(index, count, start)))
}

// Arc places target index of count in the forward cone of anchor.
func (l Layout) Arc(anchor, direction r3.Vec, index, count int) r3.Vec {
	return r3.Add(anchor, r3.Scale(l.UnitDistance, ArcPosition(direction, l.ArcDegrees, index, count)))
}

// Next continues a chain by one unit.
func (l Layout) Next(current r3.Vec, previous *r3.Vec) r3.Vec {
	return NextNodePosition(current, previous, l.UnitDistance)
}

func normalize(v r3.Vec) r3.Vec {
	v = Planar(v)
	if r3.Norm(v) < epsilon {
		return Forward
	}
	return r3.Unit(v)
}
