package scoring

import (
	"log/slog"
	"math"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

// Reason names the eligibility gate that rejected a candidate.
type Reason string

const (
	Eligible                Reason = ""
	ReasonDead              Reason = "dead"
	ReasonNotObjective      Reason = "not_objective"
	ReasonWorthless         Reason = "worthless"
	ReasonLosingBattle      Reason = "losing_battle"
	ReasonStockFull         Reason = "stock_full"
	ReasonPeripheral        Reason = "peripheral_danger"
	ReasonHazardSnipe       Reason = "hazard_snipe"
	ReasonFreezeInefficient Reason = "freeze_inefficient"
)

// Candidate is one scored row of the selection table.
type Candidate struct {
	Entity   model.Entity
	Distance float64 // squared, from self
	Value    float64
	Effort   float64 // travel + kill time
	Utility  float64
	Reason   Reason
}

func (c Candidate) Eligible() bool { return c.Reason == Eligible }

// Objective is the chosen target for this tick. XP carries the utility that
// won the selection.
type Objective struct {
	Entity   model.Entity `json:"entity"`
	Distance float64      `json:"distance"`
	XP       float64      `json:"xp"`
}

// Selector ranks candidate objectives by risk-adjusted, time-discounted value.
type Selector struct {
	Tuning tuning.Tuning
}

func NewSelector(t tuning.Tuning) *Selector {
	return &Selector{Tuning: t}
}

// Select returns the best objective or nil when nothing is eligible. The
// first candidate reaching the maximum utility wins, so the result is stable
// under input order.
func (s *Selector) Select(self model.Self, candidates, hazards, creatures, rivals []model.Entity) *Objective {
	sel := s.Tuning.Selection

	for _, c := range candidates {
		if c.Kind != model.KindTiny || !c.Alive() {
			continue
		}
		d := model.DistanceSquared(self.Position, c.Position)
		if d < sel.EmergencyRadiusSq {
			v := Value(self, c, s.Tuning)
			slog.Debug("emergency objective", "target", c.String(), "distance", d)
			return &Objective{Entity: c, Distance: d, XP: v / math.Max(sel.MinEffort, s.effort(self, c, d))}
		}
	}

	table := s.Annotate(self, candidates, hazards, creatures, rivals)

	best := -1
	bestUtility := math.Inf(-1)
	for i, c := range table {
		if !c.Eligible() {
			continue
		}
		if c.Utility > bestUtility {
			best = i
			bestUtility = c.Utility
		}
	}
	if best < 0 {
		return nil
	}
	win := table[best]
	return &Objective{Entity: win.Entity, Distance: win.Distance, XP: win.Utility}
}

// Annotate scores every candidate, recording why ineligible ones were
// rejected. Utilities include the clustering bonus from eligible neighbours.
func (s *Selector) Annotate(self model.Self, candidates, hazards, creatures, rivals []model.Entity) []Candidate {
	table := make([]Candidate, len(candidates))
	for i, e := range candidates {
		d := model.DistanceSquared(self.Position, e.Position)
		c := Candidate{Entity: e, Distance: d}
		c.Reason = s.gate(self, e, hazards, creatures, rivals)
		if c.Reason == Eligible {
			c.Value = Value(self, e, s.Tuning)
			if c.Value <= 0 {
				c.Reason = ReasonWorthless
			}
			c.Effort = s.effort(self, e, d)
		}
		table[i] = c
	}

	sel := s.Tuning.Selection
	for i := range table {
		if !table[i].Eligible() {
			continue
		}
		value := table[i].Value
		effort := table[i].Effort
		for j := range table {
			if i == j || !table[j].Eligible() {
				continue
			}
			if model.DistanceSquared(table[i].Entity.Position, table[j].Entity.Position) < sel.ClusterRadiusSq {
				value += table[j].Value
				effort += table[j].Effort
			}
		}
		table[i].Utility = value / math.Max(sel.MinEffort, effort)
	}
	return table
}

func (s *Selector) gate(self model.Self, e model.Entity, hazards, creatures, rivals []model.Entity) Reason {
	r := s.Tuning.Risk
	switch {
	case !e.Alive():
		return ReasonDead
	case e.Category == model.CategoryHazard:
		return ReasonNotObjective
	case e.Hostile() && LosingBattle(self, e, r):
		return ReasonLosingBattle
	case StockFull(self, e, s.Tuning):
		return ReasonStockFull
	case PeripheralDanger(self, e.Position, creatures, rivals, hazards, r):
		return ReasonPeripheral
	case e.HasHealth() && hazardSnipes(e, hazards, r):
		return ReasonHazardSnipe
	case e.Special == model.SpecialFreeze && freezeInefficient(self, e, r):
		return ReasonFreezeInefficient
	}
	return Eligible
}

// hazardSnipes reports whether an armed hazard next to e would kill it
// before we could.
func hazardSnipes(e model.Entity, hazards []model.Entity, r tuning.Risk) bool {
	for _, h := range hazards {
		if !h.Armed() {
			continue
		}
		if model.DistanceSquared(e.Position, h.Position) < r.HazardSnipeRadiusSq && h.AttackDamage >= e.HP() {
			return true
		}
	}
	return false
}

// freezeInefficient rejects freeze-equipped targets that take too many hits
// to kill while we have no potions to ride out being frozen.
func freezeInefficient(self model.Self, e model.Entity, r tuning.Risk) bool {
	if self.Items.BigPotions.Count() > 0 {
		return false
	}
	return e.HP()/attackOf(self) > r.FreezeEngageHits
}

func (s *Selector) effort(self model.Self, e model.Entity, distSq float64) float64 {
	sel := s.Tuning.Selection
	speed := sel.SpeedBase + float64(self.Levelling.Speed)*sel.SpeedIncrement
	travel := math.Pow(distSq, sel.TravelExponent) / speed
	var kill float64
	if e.HasHealth() {
		kill = e.HP() / attackOf(self) * sel.AttackCooldown
	}
	return travel + kill
}

func attackOf(self model.Self) float64 {
	if self.AttackDamage <= 0 {
		return 1
	}
	return self.AttackDamage
}
