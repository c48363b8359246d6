// Package steering turns a discrete destination into a bounded next position
// with a point-mass seek/avoid model.
package steering

import (
	"math"

	"github.com/nstehr/arena-core/model"
)

// Vec is a 2D vector.
type Vec struct{ X, Y float64 }

func FromPosition(p model.Position) Vec { return Vec{p.X, p.Y} }
func (v Vec) Position() model.Position  { return model.Position{X: v.X, Y: v.Y} }

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) LenSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector, or zero for the zero vector.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Limit scales v down so its length is at most max.
func (v Vec) Limit(max float64) Vec {
	if max <= 0 {
		return Vec{}
	}
	l := v.Len()
	if l <= max {
		return v
	}
	return v.Scale(max / l)
}
