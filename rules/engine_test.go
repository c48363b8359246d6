package rules

import (
	"testing"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/scoring"
)

func TestNewEngineSortsByPriority(t *testing.T) {
	noop := func(RuleEnv) Outcome { return Outcome{} }
	engine, err := NewEngine([]*Rule{
		{Name: "low", Priority: 1, ConditionSrc: `true`, Action: noop},
		{Name: "high", Priority: 10, ConditionSrc: `true`, Action: noop},
		{Name: "mid-a", Priority: 5, ConditionSrc: `true`, Action: noop},
		{Name: "mid-b", Priority: 5, ConditionSrc: `true`, Action: noop},
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	want := []string{"high", "mid-a", "mid-b", "low"}
	got := engine.Rules()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rules() = %v, want %v", got, want)
		}
	}
}

func TestNewEngineRejectsBadRules(t *testing.T) {
	if _, err := NewEngine([]*Rule{{Name: "broken", ConditionSrc: `Nope(`, Action: ActionAttack}}); err == nil {
		t.Error("expected compile error")
	}
	if _, err := NewEngine([]*Rule{{Name: "not-bool", ConditionSrc: `SkillPoints()`, Action: ActionAttack}}); err == nil {
		t.Error("expected error for non-bool condition")
	}
	if _, err := NewEngine([]*Rule{{Name: "no-action", ConditionSrc: `true`}}); err == nil {
		t.Error("expected error for missing action")
	}
}

func TestEngineExclusiveCategory(t *testing.T) {
	engine, err := NewEngine([]*Rule{
		{Name: "first", Priority: 3, Category: "c", Exclusive: true, ConditionSrc: `true`, Action: ActionAttack},
		{Name: "blocked", Priority: 2, Category: "c", ConditionSrc: `true`, Action: ActionDash},
		{Name: "other", Priority: 1, Category: "d", ConditionSrc: `true`, Action: ActionShield},
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	plan := engine.Evaluate(RuleEnv{})
	if len(plan.Moves) != 2 || plan.Moves[0] != model.Attack || plan.Moves[1] != model.Shield {
		t.Errorf("moves = %v, want [attack shield]", plan.Moves)
	}
	if len(plan.Fired) != 2 || plan.Fired[1] != "other" {
		t.Errorf("fired = %v", plan.Fired)
	}
}

func TestEngineThreadsDestination(t *testing.T) {
	shifted := model.Position{X: 7, Y: 7}
	var seen model.Position
	engine, err := NewEngine([]*Rule{
		{Name: "shift", Priority: 2, ConditionSrc: `true`, Action: func(RuleEnv) Outcome {
			return Outcome{Destination: &shifted}
		}},
		{Name: "read", Priority: 1, ConditionSrc: `true`, Action: func(env RuleEnv) Outcome {
			seen = env.Destination
			return Outcome{}
		}},
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	env := RuleEnv{Objective: &scoring.Objective{Entity: model.Entity{Position: model.Position{X: 1, Y: 1}}}}
	plan := engine.Evaluate(env)
	if seen != shifted {
		t.Errorf("second rule saw destination %v, want %v", seen, shifted)
	}
	if plan.Destination != shifted {
		t.Errorf("plan destination = %v, want %v", plan.Destination, shifted)
	}
	if env.Destination != (model.Position{}) {
		t.Errorf("caller env was mutated: %v", env.Destination)
	}
}

func TestEngineDedupesMoves(t *testing.T) {
	engine, err := NewEngine([]*Rule{
		{Name: "a", Priority: 2, ConditionSrc: `true`, Action: ActionSpecial},
		{Name: "b", Priority: 1, ConditionSrc: `true`, Action: ActionSpecial},
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if plan := engine.Evaluate(RuleEnv{}); len(plan.Moves) != 1 {
		t.Errorf("moves = %v, want a single special", plan.Moves)
	}
}
