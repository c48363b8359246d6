package rules

import (
	"math"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/scoring"
	"github.com/nstehr/arena-core/steering"
	"github.com/nstehr/arena-core/tuning"
)

// RuleEnv wraps one tick of world state and exposes helper methods callable
// from expr expressions. Radii passed to helpers are squared.
type RuleEnv struct {
	Self        model.Self
	Objective   *scoring.Objective
	Destination model.Position
	Creatures   []model.Entity
	Rivals      []model.Entity
	Hazards     []model.Entity
	Obstacles   []model.Position
	Tuning      tuning.Tuning
	Steering    *steering.Controller
}

func (e RuleEnv) HasObjective() bool { return e.Objective != nil }

func (e RuleEnv) SkillPoints() int { return e.Self.Levelling.AvailableSkillPoints }

func (e RuleEnv) Health() float64         { return e.Self.Health }
func (e RuleEnv) HealthFraction() float64 { return e.Self.HealthFraction() }
func (e RuleEnv) PotionCount() int        { return e.Self.Items.BigPotions.Count() }
func (e RuleEnv) RingCount() int          { return e.Self.Items.Rings.Count() }
func (e RuleEnv) ZapperCount() int        { return e.Self.Items.SpeedZappers.Count() }

// CanUseRing is false while cloaked; a second ring would be wasted.
func (e RuleEnv) CanUseRing() bool { return !e.Self.IsCloaked && e.RingCount() > 0 }

func (e RuleEnv) Equipped(special string) bool { return string(e.Self.Special) == special }

func (e RuleEnv) TotalDanger() float64 {
	return scoring.TotalDanger(e.Self, e.Rivals, e.Creatures, e.Hazards, e.Tuning.Risk)
}

func (e RuleEnv) PeripheralDangerAtSelf() bool {
	return scoring.PeripheralDanger(e.Self, e.Self.Position, e.Creatures, e.Rivals, e.Hazards, e.Tuning.Risk)
}

// ObjectiveDistance is the squared distance to the objective, or +Inf when
// there is none.
func (e RuleEnv) ObjectiveDistance() float64 {
	if e.Objective == nil {
		return math.Inf(1)
	}
	return model.DistanceSquared(e.Self.Position, e.Objective.Entity.Position)
}

func (e RuleEnv) ObjectiveHasHealth() bool {
	return e.Objective != nil && e.Objective.Entity.HasHealth() && e.Objective.Entity.HP() > 0
}

func (e RuleEnv) ObjectiveHealth() float64 {
	if e.Objective == nil {
		return 0
	}
	return e.Objective.Entity.HP()
}

func (e RuleEnv) ObjectiveDamage() float64 {
	if e.Objective == nil {
		return 0
	}
	return e.Objective.Entity.AttackDamage
}

func (e RuleEnv) ObjectiveFrozen() bool { return e.Objective != nil && e.Objective.Entity.IsFrozen }
func (e RuleEnv) ObjectiveZapped() bool { return e.Objective != nil && e.Objective.Entity.IsZapped }

func (e RuleEnv) ObjectiveIs(kind string) bool {
	return e.Objective != nil && string(e.Objective.Entity.Kind) == kind
}

func (e RuleEnv) ObjectiveIsRival() bool {
	return e.Objective != nil && e.Objective.Entity.Category == model.CategoryRival
}

// ObjectiveFreezable reports whether freezing the objective buys anything.
func (e RuleEnv) ObjectiveFreezable() bool {
	return e.Objective != nil && isKind(e.Objective.Entity.Kind, freezableKinds)
}

// ThreatWithin reports whether any living creature or rival is inside the
// squared radius of self.
func (e RuleEnv) ThreatWithin(radiusSq float64) bool {
	for _, t := range e.threats() {
		if model.DistanceSquared(e.Self.Position, t.Position) < radiusSq {
			return true
		}
	}
	return false
}

// HostileBombWithin reports whether an armed bomb we don't own is inside the
// squared radius of self.
func (e RuleEnv) HostileBombWithin(radiusSq float64) bool {
	_, ok := e.nearestHostileBomb(radiusSq)
	return ok
}

// HostileIciclesWithin counts armed icicles we don't own inside the squared
// radius of self.
func (e RuleEnv) HostileIciclesWithin(radiusSq float64) int {
	n := 0
	for _, h := range e.Hazards {
		if h.Kind != model.KindIcicle || !e.hostileArmed(h) {
			continue
		}
		if model.DistanceSquared(e.Self.Position, h.Position) < radiusSq {
			n++
		}
	}
	return n
}

func (e RuleEnv) Colliding() bool { return len(e.Self.Collisions) > 0 }

func (e RuleEnv) CollidingFightable() bool {
	for _, c := range e.Self.Collisions {
		if isKind(c.Kind, fightableKinds) {
			return true
		}
	}
	return false
}

// BombLineThreats returns the threats a bomb dropped now would catch: those
// in the bomb annulus around self, with self sitting between the objective
// and the threat and the two segments at a similar slope. Horizontal and
// vertical lines count.
func (e RuleEnv) BombLineThreats() []model.Entity {
	if e.Objective == nil {
		return nil
	}
	c := e.Tuning.Composer
	obj := e.Objective.Entity.Position
	me := e.Self.Position
	approach := model.Slope(obj, me)

	var out []model.Entity
	for _, t := range e.threats() {
		if t.Ref() == e.Objective.Entity.Ref() {
			continue
		}
		d := model.DistanceSquared(me, t.Position)
		if d < c.BombInnerRadiusSq || d > c.BombOuterRadiusSq {
			continue
		}
		if !inLine(obj, me, t.Position) {
			continue
		}
		beyond := model.Slope(me, t.Position)
		if math.Abs(approach-beyond) > c.BombSlopeTolerance*math.Max(1, math.Abs(approach)) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (e RuleEnv) threats() []model.Entity {
	out := make([]model.Entity, 0, len(e.Creatures)+len(e.Rivals))
	for _, list := range [][]model.Entity{e.Creatures, e.Rivals} {
		for _, t := range list {
			if t.Hostile() {
				out = append(out, t)
			}
		}
	}
	return out
}

func (e RuleEnv) hostileArmed(h model.Entity) bool {
	return h.Armed() && (h.OwnerID == "" || h.OwnerID != e.Self.ID)
}

func (e RuleEnv) nearestHostileBomb(radiusSq float64) (model.Entity, bool) {
	best := radiusSq
	var bomb model.Entity
	found := false
	for _, h := range e.Hazards {
		if h.Kind != model.KindBomb || !e.hostileArmed(h) {
			continue
		}
		if d := model.DistanceSquared(e.Self.Position, h.Position); d < best {
			best, bomb, found = d, h, true
		}
	}
	return bomb, found
}

// inLine reports whether me sits between from and to: on every axis the two
// legs point the same way or one of them is flat, and at least one axis
// separates me from both ends.
func inLine(from, me, to model.Position) bool {
	sameX, splitX := sameWay(me.X-from.X, to.X-me.X)
	sameY, splitY := sameWay(me.Y-from.Y, to.Y-me.Y)
	return sameX && sameY && (splitX || splitY)
}

func sameWay(a, b float64) (ok, split bool) {
	if a == 0 || b == 0 {
		return true, false
	}
	same := (a > 0) == (b > 0)
	return same, same
}
