package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nstehr/arena-core/tuning"
)

// Stage priorities. Stages run strictly in this order; a later stage never
// removes what an earlier one queued.
const (
	prioritySkills    = 1000
	priorityHealth    = 900
	priorityEngage    = 800
	priorityResource  = 700
	prioritySpecial   = 600
	priorityHazard    = 500
	priorityCollision = 400
	priorityEvasion   = 300
	priorityTaunt     = 200
	priorityMove      = 100
)

// num renders a threshold as an expr float literal. A trailing ".0" keeps
// integral values typed as floats when passed to float64 helpers.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// CompileTuning generates the complete rule set for a tuning.
// Conditions are built with fmt.Sprintf from validated numbers, so the
// generated expr always compiles.
func CompileTuning(t tuning.Tuning) []*Rule {
	t.Validate()
	c := t.Composer
	var rules []*Rule

	// --- Skill allocation ---

	rules = append(rules, &Rule{
		Name:         "allocate-skills",
		Priority:     prioritySkills,
		Category:     "skills",
		Exclusive:    true,
		ConditionSrc: `SkillPoints() > 0`,
		Action:       ActionAllocateSkills,
	})

	// --- Health management (escalating, first match wins) ---

	rules = append(rules, &Rule{
		Name:         "heal-under-fire",
		Priority:     priorityHealth,
		Category:     "health",
		Exclusive:    true,
		ConditionSrc: fmt.Sprintf(`TotalDanger() > %s * Health()`, num(c.DangerHealthMultiple)),
		Action:       ActionHealUnderFire,
	})
	for i, band := range c.HealthBands {
		rules = append(rules, &Rule{
			Name:      fmt.Sprintf("heal-below-%s", num(band.Fraction)),
			Priority:  priorityHealth - 10*(i+1),
			Category:  "health",
			Exclusive: true,
			ConditionSrc: fmt.Sprintf(`HealthFraction() < %s && PotionCount() >= %d && (PotionCount() > 0 || CanUseRing())`,
				num(band.Fraction), band.MinPotions),
			Action: ActionHeal,
		})
	}

	// --- Engagement ---

	rules = append(rules, &Rule{
		Name:         "melee-attack",
		Priority:     priorityEngage,
		Category:     "engage",
		ConditionSrc: fmt.Sprintf(`ObjectiveHasHealth() && ObjectiveDistance() <= %s`, num(c.MeleeRadiusSq)),
		Action:       ActionAttack,
	})
	rules = append(rules, &Rule{
		Name:     "opportunistic-dash",
		Priority: priorityEngage - 10,
		Category: "engage",
		ConditionSrc: fmt.Sprintf(`ObjectiveHasHealth() && ObjectiveDistance() > %s && ObjectiveDistance() <= %s && ((ObjectiveDamage() >= %s && ObjectiveFrozen()) || ObjectiveHealth() < Self.AttackDamage)`,
			num(c.MeleeRadiusSq), num(c.DashRadiusSq), num(c.DashMinDamage)),
		Action: ActionDash,
	})

	// --- Resource use on the objective ---

	rules = append(rules, &Rule{
		Name:     "zap-objective",
		Priority: priorityResource,
		Category: "resource",
		ConditionSrc: fmt.Sprintf(`ZapperCount() > 0 && (ObjectiveIsRival() || ObjectiveIs("tiny")) && !ObjectiveZapped() && ObjectiveDistance() <= %s`,
			num(c.ZapperRadiusSq)),
		Action: ActionZap,
	})

	// --- Special ability, keyed on what's equipped ---

	rules = append(rules, &Rule{
		Name:         "bomb-travel-line",
		Priority:     prioritySpecial,
		Category:     "special",
		ConditionSrc: `Equipped("bomb") && len(BombLineThreats()) > 0`,
		Action:       ActionBombThrow,
	})
	rules = append(rules, &Rule{
		Name:     "bomb-point-blank",
		Priority: prioritySpecial - 5,
		Category: "special",
		ConditionSrc: fmt.Sprintf(`Equipped("bomb") && ThreatWithin(%s) && Self.IsShieldReady && !HostileBombWithin(%s) && Self.Health > %s * Self.AttackDamage`,
			num(c.BombPanicRadiusSq), num(c.HostileBombRadiusSq), num(c.BombHealthMultiple)),
		Action: ActionSpecial,
	})
	rules = append(rules, &Rule{
		Name:     "freeze-objective",
		Priority: prioritySpecial - 10,
		Category: "special",
		ConditionSrc: fmt.Sprintf(`Equipped("freeze") && ObjectiveFreezable() && !ObjectiveFrozen() && ObjectiveDistance() <= %s && !Self.ShieldRaised`,
			num(c.FreezeRadiusSq)),
		Action: ActionSpecial,
	})
	rules = append(rules, &Rule{
		Name:     "shockwave",
		Priority: prioritySpecial - 15,
		Category: "special",
		ConditionSrc: fmt.Sprintf(`Equipped("shockwave") && (HostileBombWithin(%s) || PeripheralDangerAtSelf())`,
			num(c.HostileBombRadiusSq)),
		Action: ActionSpecial,
	})

	// --- Reactions ---

	rules = append(rules, &Rule{
		Name:         "shield-icicle",
		Priority:     priorityHazard,
		Category:     "hazard",
		ConditionSrc: fmt.Sprintf(`HostileIciclesWithin(%s) > 0`, num(c.IcicleRadiusSq)),
		Action:       ActionShield,
	})
	rules = append(rules, &Rule{
		Name:         "collision",
		Priority:     priorityCollision,
		Category:     "collision",
		ConditionSrc: `Colliding()`,
		Action:       ActionCollide,
	})
	rules = append(rules, &Rule{
		Name:         "evade-bomb",
		Priority:     priorityEvasion,
		Category:     "evasion",
		ConditionSrc: fmt.Sprintf(`HostileBombWithin(%s)`, num(c.HostileBombRadiusSq)),
		Action:       ActionEvadeBomb,
	})

	if c.Taunt != "" {
		rules = append(rules, &Rule{
			Name:         "taunt",
			Priority:     priorityTaunt,
			Category:     "speak",
			ConditionSrc: fmt.Sprintf(`ObjectiveIsRival() && ObjectiveHasHealth() && ObjectiveHealth() <= Self.AttackDamage && ObjectiveDistance() <= %s`, num(c.MeleeRadiusSq)),
			Action:       Speak(c.Taunt),
		})
	}

	// --- Destination ---

	rules = append(rules, &Rule{
		Name:         "move-to-objective",
		Priority:     priorityMove,
		Category:     "move",
		Exclusive:    true,
		ConditionSrc: `HasObjective()`,
		Action:       ActionMoveTo,
	})

	return rules
}
