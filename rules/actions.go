package rules

import (
	"log/slog"
	"math"

	"github.com/nstehr/arena-core/model"
)

func moves(m ...model.Move) Outcome { return Outcome{Moves: m} }

// ActionAllocateSkills spends the lowest stat first, then tops up every other
// stat still under the cap, one point each, within the available points.
func ActionAllocateSkills(env RuleEnv) Outcome {
	lv := env.Self.Levelling
	points := lv.AvailableSkillPoints
	if points <= 0 {
		return Outcome{}
	}

	lowest := skillOrder[0]
	for _, s := range skillOrder[1:] {
		if skillRank(lv, s) < skillRank(lv, lowest) {
			lowest = s
		}
	}
	out := []model.Move{model.Redeem(lowest)}
	points--

	for _, s := range skillOrder {
		if points == 0 {
			break
		}
		if s == lowest || skillRank(lv, s) >= env.Tuning.Composer.SkillCap {
			continue
		}
		out = append(out, model.Redeem(s))
		points--
	}
	slog.Debug("allocating skill points", "lowest", lowest, "moves", len(out))
	return moves(out...)
}

// heal drinks a potion if one is held and, unless already cloaked, slips on a
// ring.
func heal(env RuleEnv) []model.Move {
	var out []model.Move
	if env.PotionCount() > 0 {
		out = append(out, model.Use(model.KindBigPotion))
	}
	if env.CanUseRing() {
		out = append(out, model.Use(model.KindRing))
	}
	return out
}

func ActionHeal(env RuleEnv) Outcome {
	return moves(heal(env)...)
}

// ActionHealUnderFire heals and also raises the shield, falling back to a
// dash when the shield isn't available.
func ActionHealUnderFire(env RuleEnv) Outcome {
	out := heal(env)
	if env.Self.IsShieldReady && !env.Self.ShieldRaised {
		out = append(out, model.Shield)
	} else {
		out = append(out, model.Dash)
	}
	slog.Debug("healing under fire", "danger", env.TotalDanger(), "health", env.Self.Health)
	return moves(out...)
}

func ActionAttack(env RuleEnv) Outcome { return moves(model.Attack) }

func ActionDash(env RuleEnv) Outcome { return moves(model.Dash) }

func ActionShield(env RuleEnv) Outcome { return moves(model.Shield) }

func ActionSpecial(env RuleEnv) Outcome { return moves(model.SpecialMove) }

func ActionZap(env RuleEnv) Outcome { return moves(model.Use(model.KindSpeedZapper)) }

// ActionBombThrow drops a bomb on the travel line; it fires once however many
// threats line up.
func ActionBombThrow(env RuleEnv) Outcome {
	caught := env.BombLineThreats()
	if len(caught) == 0 {
		return Outcome{}
	}
	slog.Debug("bomb on travel line", "threats", len(caught), "first", caught[0].String())
	return moves(model.SpecialMove)
}

// Speak returns an action that says text.
func Speak(text string) ActionFunc {
	return func(env RuleEnv) Outcome { return moves(model.Speak(text)) }
}

// ActionCollide swings at fightable things we're touching and pushes the
// destination away from anything touching us that isn't what we're after.
func ActionCollide(env RuleEnv) Outcome {
	var out Outcome
	if env.CollidingFightable() {
		out.Moves = append(out.Moves, model.Attack)
	}
	if env.Objective == nil {
		return out
	}

	dest := env.Destination
	nudged := false
	for _, c := range env.Self.Collisions {
		if c.Kind == env.Objective.Entity.Kind {
			continue
		}
		offset := c.Position.Sub(env.Self.Position)
		dest = dest.Sub(offset.Scale(env.Tuning.Composer.CollisionNudge))
		nudged = true
	}
	if nudged {
		slog.Debug("nudging destination off collision", "from", env.Destination, "to", dest)
		out.Destination = &dest
	}
	return out
}

// ActionEvadeBomb shields (or dashes when the shield is down) and moves the
// destination to the far side of self from the nearest hostile bomb, along
// whichever axis the bomb is offset most.
func ActionEvadeBomb(env RuleEnv) Outcome {
	c := env.Tuning.Composer
	bomb, ok := env.nearestHostileBomb(c.HostileBombRadiusSq)
	if !ok {
		return Outcome{}
	}
	out := Outcome{Moves: []model.Move{model.Shield}}
	if !env.Self.IsShieldReady {
		out.Moves = append(out.Moves, model.Dash)
	}

	me := env.Self.Position
	off := bomb.Position.Sub(me)
	dest := me
	if math.Abs(off.X) >= math.Abs(off.Y) {
		dest.X = me.X - sign(off.X)*c.BombClearance
	} else {
		dest.Y = me.Y - sign(off.Y)*c.BombClearance
	}
	slog.Debug("evading bomb", "bomb", bomb.String(), "destination", dest)
	out.Destination = &dest
	return out
}

// ActionMoveTo emits the final move_to. With steering configured the target
// is the steered next position rather than the raw destination.
func ActionMoveTo(env RuleEnv) Outcome {
	target := env.Destination
	if env.Steering != nil {
		var exclude model.Ref
		if env.Objective != nil {
			exclude = env.Objective.Entity.Ref()
		}
		threats := make([]model.Entity, 0, len(env.Creatures)+len(env.Rivals)+len(env.Hazards))
		threats = append(threats, env.Creatures...)
		threats = append(threats, env.Rivals...)
		threats = append(threats, env.Hazards...)
		res := env.Steering.Steer(env.Self.Position, target, threats, env.Obstacles, exclude)
		target = res.Next
	}
	return moves(model.MoveTo(target))
}

// sign treats zero as positive so a bomb sitting exactly on us still pushes
// the destination somewhere.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
