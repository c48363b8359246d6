package steering

import (
	"math"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

// Controller reacts to the single nearest threat and the single nearest
// static obstacle only; there is no full-neighbourhood avoidance.
type Controller struct {
	cfg tuning.Steering
}

func NewController(cfg tuning.Steering) *Controller {
	return &Controller{cfg: cfg}
}

// Result is the outcome of one steering step.
type Result struct {
	Next     model.Position
	Force    Vec
	Velocity Vec
	Avoided  []model.Position
}

// Steer moves a body at from toward destination for one tick. exclude names
// the current objective, which must never be avoided; the zero Ref excludes
// nothing. When no avoidance force is active and the step would overshoot,
// Next snaps to destination.
func (c *Controller) Steer(from, destination model.Position, threats []model.Entity, obstacles []model.Position, exclude model.Ref) Result {
	if !c.cfg.Enabled {
		return Result{Next: destination}
	}

	b := &Body{
		Position: FromPosition(from),
		MaxSpeed: c.cfg.MaxSpeed,
		MaxForce: c.cfg.MaxForce,
	}
	var res Result

	b.ApplyForce(b.Seek(FromPosition(destination)))

	avoiding := false
	if t, ok := nearestThreat(from, threats, exclude); ok {
		if f := b.AvoidObstacle(FromPosition(t), c.cfg.ThreatAvoidRadiusSq); !f.IsZero() {
			b.ApplyForce(f)
			res.Avoided = append(res.Avoided, t)
			avoiding = true
		}
	}
	if o, ok := nearestPoint(from, obstacles); ok {
		if f := b.AvoidObstacle(FromPosition(o), c.cfg.ObstacleAvoidRadiusSq); !f.IsZero() {
			b.ApplyForce(f)
			res.Avoided = append(res.Avoided, o)
			avoiding = true
		}
	}

	res.Force = b.Acceleration
	b.Update()
	res.Velocity = b.Velocity
	res.Next = b.Position.Position()

	if !avoiding && model.DistanceSquared(from, destination) <= b.Velocity.LenSquared() {
		res.Next = destination
	}
	return res
}

func nearestThreat(from model.Position, threats []model.Entity, exclude model.Ref) (model.Position, bool) {
	best := math.Inf(1)
	var at model.Position
	found := false
	for _, t := range threats {
		if exclude.ID != "" && t.Ref() == exclude {
			continue
		}
		if !t.Hostile() && !t.Armed() {
			continue
		}
		if d := model.DistanceSquared(from, t.Position); d < best {
			best, at, found = d, t.Position, true
		}
	}
	return at, found
}

func nearestPoint(from model.Position, points []model.Position) (model.Position, bool) {
	best := math.Inf(1)
	var at model.Position
	found := false
	for _, p := range points {
		if d := model.DistanceSquared(from, p); d < best {
			best, at, found = d, p, true
		}
	}
	return at, found
}
