package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

func creature(x, y, dmg float64) model.Entity {
	return model.Entity{Category: model.CategoryCreature, Kind: model.KindWolf, Position: model.Position{X: x, Y: y}, AttackDamage: dmg}
}

func rival(x, y, dmg float64) model.Entity {
	return model.Entity{Category: model.CategoryRival, Kind: model.KindPlayer, Position: model.Position{X: x, Y: y}, AttackDamage: dmg}
}

func hazard(x, y, dmg float64) model.Entity {
	return model.Entity{Category: model.CategoryHazard, Kind: model.KindBomb, Position: model.Position{X: x, Y: y}, AttackDamage: dmg}
}

func TestPeripheralDanger(t *testing.T) {
	risk := tuning.Default().Risk
	// 100 health plus two potions worth 100 each.
	self := model.Self{Health: 100, Items: model.Inventory{BigPotions: model.StockOf(2)}}
	point := model.Position{X: 50, Y: 50}

	tests := []struct {
		name      string
		creatures []model.Entity
		rivals    []model.Entity
		hazards   []model.Entity
		want      bool
	}{
		{name: "no threats"},
		{name: "low danger within radius", creatures: []model.Entity{creature(60, 60, 50)}},
		{name: "enemy outside radius", creatures: []model.Entity{creature(500, 50, 50)}},
		{
			name:      "several threats below threshold",
			creatures: []model.Entity{creature(60, 60, 50)},
			rivals:    []model.Entity{rival(55, 55, 30)},
			hazards:   []model.Entity{hazard(52, 52, 20)},
		},
		{
			name:      "several threats above threshold",
			creatures: []model.Entity{creature(60, 60, 150)},
			rivals:    []model.Entity{rival(55, 55, 90)},
			hazards:   []model.Entity{hazard(52, 52, 80)},
			want:      true,
		},
		{name: "hazard at the radius edge", hazards: []model.Entity{hazard(50+244, 50, 50)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeripheralDanger(self, point, tt.creatures, tt.rivals, tt.hazards, risk)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeripheralDangerSumMonotonic(t *testing.T) {
	risk := tuning.Default().Risk
	point := model.Position{}
	creatures := []model.Entity{creature(100, 0, 10)}

	base := PeripheralDangerSum(point, creatures, nil, nil, risk)
	more := PeripheralDangerSum(point, append(creatures, creature(0, 100, 5)), nil, nil, risk)
	assert.GreaterOrEqual(t, more, base, "adding a threat inside the radius")

	moved := []model.Entity{creature(1000, 0, 10)}
	assert.Less(t, PeripheralDangerSum(point, moved, nil, nil, risk), base, "moving the threat out of range")

	// The radius is strict.
	tight := risk
	tight.PeripheralRadiusSq = 10_000
	assert.Zero(t, PeripheralDangerSum(point, creatures, nil, nil, tight))
}

func TestPeripheralDangerIgnoresDeadAndIdle(t *testing.T) {
	risk := tuning.Default().Risk
	dead := creature(10, 0, 500)
	dead.Health = model.Float(0)
	idle := hazard(10, 0, 500)
	idle.Status = model.HazardIdle

	assert.Zero(t, PeripheralDangerSum(model.Position{}, []model.Entity{dead}, nil, []model.Entity{idle}, risk))
}

func TestTotalDangerSkipsFrozen(t *testing.T) {
	risk := tuning.Default().Risk
	self := model.Self{Health: 100}
	frozen := creature(50, 0, 40)
	frozen.IsFrozen = true
	active := rival(0, 50, 25)
	far := creature(500, 0, 99)

	got := TotalDanger(self, []model.Entity{active}, []model.Entity{frozen, far}, []model.Entity{hazard(10, 10, 5)}, risk)
	assert.Equal(t, 30.0, got)
}

func TestLosingBattle(t *testing.T) {
	risk := tuning.Default().Risk
	self := model.Self{Health: 60}
	assert.False(t, LosingBattle(self, creature(0, 0, 40), risk))
	assert.True(t, LosingBattle(self, creature(0, 0, 50), risk))
}
