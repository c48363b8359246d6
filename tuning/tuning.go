// Package tuning holds every static weight the agent decides with. Radii are
// stored squared, matching model.DistanceSquared.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/arena-core/model"
)

type Risk struct {
	PeripheralRadiusSq  float64 `yaml:"peripheral_radius_sq"`
	HazardRadiusSq      float64 `yaml:"hazard_radius_sq"`
	TotalDangerRadiusSq float64 `yaml:"total_danger_radius_sq"`
	PotionHeal          float64 `yaml:"potion_heal"`
	SafetyMargin        float64 `yaml:"safety_margin"`
	HazardSnipeRadiusSq float64 `yaml:"hazard_snipe_radius_sq"`
	FreezeEngageHits    float64 `yaml:"freeze_engage_hits"`
}

// Values is the base value table plus the adjustments applied on top of it.
type Values struct {
	Base         map[model.Kind]float64 `yaml:"base"`
	RivalBase    float64                `yaml:"rival_base"`
	LevelBonus   float64                `yaml:"level_bonus"`
	FreezeDerate float64                `yaml:"freeze_derate"`
	ChestSpike   float64                `yaml:"chest_spike"`
	TinyDerate   float64                `yaml:"tiny_derate"`
	// Curves index marginal value by currently held count. A count beyond
	// the curve reuses its last entry.
	Curves map[model.Kind][]float64 `yaml:"curves"`
}

type Capacity struct {
	Rings        int `yaml:"rings"`
	SpeedZappers int `yaml:"speed_zappers"`
	BigPotions   int `yaml:"big_potions"`
}

type Selection struct {
	EmergencyRadiusSq float64 `yaml:"emergency_radius_sq"`
	ClusterRadiusSq   float64 `yaml:"cluster_radius_sq"`
	SpeedBase         float64 `yaml:"speed_base"`
	SpeedIncrement    float64 `yaml:"speed_increment"`
	TravelExponent    float64 `yaml:"travel_exponent"`
	AttackCooldown    float64 `yaml:"attack_cooldown"`
	MinEffort         float64 `yaml:"min_effort"`
}

// HealthBand fires healing when health fraction drops below Fraction while at
// least MinPotions are held.
type HealthBand struct {
	Fraction   float64 `yaml:"fraction"`
	MinPotions int     `yaml:"min_potions"`
}

type Composer struct {
	SkillCap             int          `yaml:"skill_cap"`
	DangerHealthMultiple float64      `yaml:"danger_health_multiple"`
	HealthBands          []HealthBand `yaml:"health_bands"`
	MeleeRadiusSq        float64      `yaml:"melee_radius_sq"`
	DashRadiusSq         float64      `yaml:"dash_radius_sq"`
	DashMinDamage        float64      `yaml:"dash_min_damage"`
	ZapperRadiusSq       float64      `yaml:"zapper_radius_sq"`
	BombInnerRadiusSq    float64      `yaml:"bomb_inner_radius_sq"`
	BombOuterRadiusSq    float64      `yaml:"bomb_outer_radius_sq"`
	BombSlopeTolerance   float64      `yaml:"bomb_slope_tolerance"`
	BombPanicRadiusSq    float64      `yaml:"bomb_panic_radius_sq"`
	BombHealthMultiple   float64      `yaml:"bomb_health_multiple"`
	FreezeRadiusSq       float64      `yaml:"freeze_radius_sq"`
	HostileBombRadiusSq  float64      `yaml:"hostile_bomb_radius_sq"`
	IcicleRadiusSq       float64      `yaml:"icicle_radius_sq"`
	CollisionNudge       float64      `yaml:"collision_nudge"`
	BombClearance        float64      `yaml:"bomb_clearance"`
	Taunt                string       `yaml:"taunt"`
}

type Steering struct {
	Enabled               bool    `yaml:"enabled"`
	MaxSpeed              float64 `yaml:"max_speed"`
	MaxForce              float64 `yaml:"max_force"`
	ThreatAvoidRadiusSq   float64 `yaml:"threat_avoid_radius_sq"`
	ObstacleAvoidRadiusSq float64 `yaml:"obstacle_avoid_radius_sq"`
}

// Tuning is the complete, static weight set for one agent.
type Tuning struct {
	Risk      Risk      `yaml:"risk"`
	Values    Values    `yaml:"values"`
	Capacity  Capacity  `yaml:"capacity"`
	Selection Selection `yaml:"selection"`
	Composer  Composer  `yaml:"composer"`
	Steering  Steering  `yaml:"steering"`
}

// Default returns the representative configuration.
func Default() Tuning {
	return Tuning{
		Risk: Risk{
			PeripheralRadiusSq:  100_000,
			HazardRadiusSq:      60_000,
			TotalDangerRadiusSq: 40_000,
			PotionHeal:          100,
			SafetyMargin:        1.2,
			HazardSnipeRadiusSq: 10_000,
			FreezeEngageHits:    4,
		},
		Values: Values{
			Base: map[model.Kind]float64{
				model.KindMinotaur:    60,
				model.KindWolf:        30,
				model.KindGhoul:       25,
				model.KindTiny:        40,
				model.KindCoin:        15,
				model.KindBigPotion:   30,
				model.KindSpeedZapper: 35,
				model.KindRing:        30,
				model.KindChest:       0,
				model.KindPowerUp:     0,
			},
			RivalBase:    50,
			LevelBonus:   10,
			FreezeDerate: 0.5,
			ChestSpike:   400,
			TinyDerate:   0.5,
			Curves: map[model.Kind][]float64{
				model.KindBigPotion:   {80, 60, 45, 30, 20},
				model.KindRing:        {60, 40, 25, 15},
				model.KindSpeedZapper: {50},
			},
		},
		Capacity: Capacity{
			Rings:        4,
			SpeedZappers: 1,
			BigPotions:   5,
		},
		Selection: Selection{
			EmergencyRadiusSq: 16_900,
			ClusterRadiusSq:   60_000,
			SpeedBase:         20,
			SpeedIncrement:    2,
			TravelExponent:    0.5,
			AttackCooldown:    1,
			MinEffort:         1e-3,
		},
		Composer: Composer{
			SkillCap:             20,
			DangerHealthMultiple: 1,
			HealthBands: []HealthBand{
				{Fraction: 0.4, MinPotions: 0},
				{Fraction: 0.5, MinPotions: 2},
				{Fraction: 0.6, MinPotions: 5},
				{Fraction: 0.85, MinPotions: 5},
			},
			MeleeRadiusSq:       16_900,
			DashRadiusSq:        90_000,
			DashMinDamage:       20,
			ZapperRadiusSq:      40_000,
			BombInnerRadiusSq:   72_900,
			BombOuterRadiusSq:   140_625,
			BombSlopeTolerance:  0.5,
			BombPanicRadiusSq:   10_000,
			BombHealthMultiple:  3,
			FreezeRadiusSq:      40_000,
			HostileBombRadiusSq: 40_000,
			IcicleRadiusSq:      22_500,
			CollisionNudge:      2,
			BombClearance:       200,
		},
		Steering: Steering{
			Enabled:               true,
			MaxSpeed:              250,
			MaxForce:              250,
			ThreatAvoidRadiusSq:   22_500,
			ObstacleAvoidRadiusSq: 6_400,
		},
	}
}

// Validate clamps values into usable ranges and fills holes left by a
// partial override file.
func (t *Tuning) Validate() {
	d := Default()

	t.Risk.SafetyMargin = clamp(t.Risk.SafetyMargin, 1, 5)
	t.Risk.PotionHeal = nonNegative(t.Risk.PotionHeal)
	t.Risk.FreezeEngageHits = clamp(t.Risk.FreezeEngageHits, 1, 100)

	if t.Values.Base == nil {
		t.Values.Base = d.Values.Base
	}
	if t.Values.Curves == nil {
		t.Values.Curves = d.Values.Curves
	}
	t.Values.FreezeDerate = clamp(t.Values.FreezeDerate, 0, 1)
	t.Values.TinyDerate = clamp(t.Values.TinyDerate, 0, 1)

	t.Capacity.Rings = clampInt(t.Capacity.Rings, 0, 100)
	t.Capacity.SpeedZappers = clampInt(t.Capacity.SpeedZappers, 0, 100)
	t.Capacity.BigPotions = clampInt(t.Capacity.BigPotions, 0, 100)

	if t.Selection.SpeedBase <= 0 {
		t.Selection.SpeedBase = d.Selection.SpeedBase
	}
	t.Selection.SpeedIncrement = nonNegative(t.Selection.SpeedIncrement)
	t.Selection.TravelExponent = clamp(t.Selection.TravelExponent, 0.1, 1)
	if t.Selection.MinEffort <= 0 {
		t.Selection.MinEffort = d.Selection.MinEffort
	}
	t.Selection.AttackCooldown = nonNegative(t.Selection.AttackCooldown)

	t.Composer.SkillCap = clampInt(t.Composer.SkillCap, 0, 1000)
	for i := range t.Composer.HealthBands {
		t.Composer.HealthBands[i].Fraction = clamp(t.Composer.HealthBands[i].Fraction, 0, 1)
		t.Composer.HealthBands[i].MinPotions = clampInt(t.Composer.HealthBands[i].MinPotions, 0, 100)
	}
	if t.Composer.BombOuterRadiusSq < t.Composer.BombInnerRadiusSq {
		t.Composer.BombOuterRadiusSq = t.Composer.BombInnerRadiusSq
	}
	t.Composer.BombSlopeTolerance = nonNegative(t.Composer.BombSlopeTolerance)

	t.Steering.MaxSpeed = nonNegative(t.Steering.MaxSpeed)
	t.Steering.MaxForce = nonNegative(t.Steering.MaxForce)
}

// Load reads a YAML override file on top of Default. Keys absent from the
// file keep their default values.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	t.Validate()
	return t, nil
}

// CapacityOf returns the stock cap for a consumable kind and whether the kind
// is stock-capped at all.
func (t Tuning) CapacityOf(k model.Kind) (int, bool) {
	switch k {
	case model.KindRing:
		return t.Capacity.Rings, true
	case model.KindSpeedZapper:
		return t.Capacity.SpeedZappers, true
	case model.KindBigPotion:
		return t.Capacity.BigPotions, true
	}
	return 0, false
}

// HeldOf returns how many of a consumable kind self is holding.
func HeldOf(self model.Self, k model.Kind) int {
	switch k {
	case model.KindRing:
		return self.Items.Rings.Count()
	case model.KindSpeedZapper:
		return self.Items.SpeedZappers.Count()
	case model.KindBigPotion:
		return self.Items.BigPotions.Count()
	}
	return 0
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
