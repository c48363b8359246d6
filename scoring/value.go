package scoring

import (
	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

// Value annotates e with its worth to self this tick. Adjustments apply in a
// fixed order: rival level bonus, chest/power-up spike, tiny derate, stock
// curve. Dead entities are worth nothing.
func Value(self model.Self, e model.Entity, t tuning.Tuning) float64 {
	if !e.Alive() {
		return 0
	}
	v := t.Values

	switch e.Category {
	case model.CategoryRival:
		bonus := float64(e.Levelling.Level) * v.LevelBonus
		if e.Special == model.SpecialFreeze {
			bonus *= v.FreezeDerate
		}
		return v.RivalBase + bonus
	case model.CategoryHazard:
		return 0
	}

	base := v.Base[e.Kind]

	switch e.Kind {
	case model.KindChest, model.KindPowerUp:
		if self.Special != model.SpecialBomb && self.Special != model.SpecialFreeze {
			return v.ChestSpike
		}
		return 0
	case model.KindTiny:
		if self.Items.SpeedZappers.Count() > 0 || e.IsZapped || e.IsFrozen {
			return base * v.TinyDerate
		}
		return base
	}

	if curve, ok := v.Curves[e.Kind]; ok && len(curve) > 0 {
		held := tuning.HeldOf(self, e.Kind)
		if held >= len(curve) {
			held = len(curve) - 1
		}
		return curve[held]
	}
	return base
}

// StockFull reports whether self already holds the capacity of e's kind.
// Kinds without a cap are never full.
func StockFull(self model.Self, e model.Entity, t tuning.Tuning) bool {
	limit, capped := t.CapacityOf(e.Kind)
	if !capped || e.Category != model.CategoryItem {
		return false
	}
	return tuning.HeldOf(self, e.Kind) >= limit
}
