package model

import (
	"encoding/json"
	"fmt"
)

// MaxSlope stands in for the slope of a vertical segment. Large enough to
// dominate any real slope, finite so comparisons and subtraction stay sane.
const MaxSlope = 1e9

// Position is a point in game-world coordinates.
type Position struct {
	X float64 `json:"x" jsonschema:"required"`
	Y float64 `json:"y" jsonschema:"required"`
}

// UnmarshalJSON rejects positions missing either coordinate. A zero default
// would silently place the entity at the map origin.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode position: %w", err)
	}
	if raw.X == nil {
		return fmt.Errorf("position: %w: x", ErrMissingField)
	}
	if raw.Y == nil {
		return fmt.Errorf("position: %w: y", ErrMissingField)
	}
	p.X, p.Y = *raw.X, *raw.Y
	return nil
}

func (p Position) Add(o Position) Position { return Position{X: p.X + o.X, Y: p.Y + o.Y} }
func (p Position) Sub(o Position) Position { return Position{X: p.X - o.X, Y: p.Y - o.Y} }
func (p Position) Scale(k float64) Position {
	return Position{X: p.X * k, Y: p.Y * k}
}

// DistanceSquared is the squared Euclidean distance between a and b. Every
// radius in the agent is stored pre-squared so this is the only metric used.
func DistanceSquared(a, b Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Slope returns the slope of the segment a→b. Vertical segments return
// ±MaxSlope (sign follows the y delta) and coincident points return 0.
func Slope(a, b Position) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 {
		switch {
		case dy > 0:
			return MaxSlope
		case dy < 0:
			return -MaxSlope
		default:
			return 0
		}
	}
	s := dy / dx
	if s > MaxSlope {
		return MaxSlope
	}
	if s < -MaxSlope {
		return -MaxSlope
	}
	return s
}

// Obstacles decodes the raw [x, y] coordinate pairs the game sends for static
// obstacles.
type Obstacles []Position

func (o *Obstacles) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("decode obstacles: %w", err)
	}
	out := make(Obstacles, 0, len(pairs))
	for i, p := range pairs {
		if len(p) < 2 {
			return fmt.Errorf("obstacle %d: %w: want [x, y], got %d values", i, ErrMissingField, len(p))
		}
		out = append(out, Position{X: p[0], Y: p[1]})
	}
	*o = out
	return nil
}

func (o Obstacles) MarshalJSON() ([]byte, error) {
	pairs := make([][2]float64, len(o))
	for i, p := range o {
		pairs[i] = [2]float64{p.X, p.Y}
	}
	return json.Marshal(pairs)
}
