package scoring

import (
	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

// EffectiveHealth is current health plus what every held potion would heal.
func EffectiveHealth(self model.Self, r tuning.Risk) float64 {
	return self.Health + float64(self.Items.BigPotions.Count())*r.PotionHeal
}

// PeripheralDangerSum totals the attack damage that could reach point:
// living creatures and rivals within the peripheral radius plus armed hazards
// within the hazard radius. Both radii are strict.
func PeripheralDangerSum(point model.Position, creatures, rivals, hazards []model.Entity, r tuning.Risk) float64 {
	var sum float64
	for _, list := range [][]model.Entity{creatures, rivals} {
		for _, e := range list {
			if !e.Hostile() {
				continue
			}
			if model.DistanceSquared(point, e.Position) < r.PeripheralRadiusSq {
				sum += e.AttackDamage
			}
		}
	}
	for _, h := range hazards {
		if !h.Armed() {
			continue
		}
		if model.DistanceSquared(point, h.Position) < r.HazardRadiusSq {
			sum += h.AttackDamage
		}
	}
	return sum
}

// PeripheralDanger reports whether point is contested by more damage than
// self can absorb, counting held potions as extra health.
func PeripheralDanger(self model.Self, point model.Position, creatures, rivals, hazards []model.Entity, r tuning.Risk) bool {
	return PeripheralDangerSum(point, creatures, rivals, hazards, r) > EffectiveHealth(self, r)
}

// TotalDanger is the damage currently in close range of self. Frozen
// attackers are ignored; they can't swing this tick.
func TotalDanger(self model.Self, rivals, creatures, hazards []model.Entity, r tuning.Risk) float64 {
	var sum float64
	for _, list := range [][]model.Entity{rivals, creatures} {
		for _, e := range list {
			if !e.Hostile() || e.IsFrozen {
				continue
			}
			if model.DistanceSquared(self.Position, e.Position) < r.TotalDangerRadiusSq {
				sum += e.AttackDamage
			}
		}
	}
	for _, h := range hazards {
		if !h.Armed() {
			continue
		}
		if model.DistanceSquared(self.Position, h.Position) < r.TotalDangerRadiusSq {
			sum += h.AttackDamage
		}
	}
	return sum
}

// LosingBattle is true when e could kill self at current health with the
// safety margin applied.
func LosingBattle(self model.Self, e model.Entity, r tuning.Risk) bool {
	return e.AttackDamage*r.SafetyMargin >= self.Health
}
