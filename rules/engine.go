package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/arena-core/model"
)

// Engine runs compiled rules against one tick's env.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category, so only the most urgent health band responds.
// An Engine is immutable once built; retuning builds a new one.
type Engine struct {
	rules []*Rule
}

// Plan is the composed result of one evaluation.
type Plan struct {
	Moves       []model.Move
	Destination model.Position
	NoObjective bool
	Fired       []string
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate runs every rule against env. The destination starts at the
// objective's position and is threaded through the rules as a value: each
// rule sees the destination produced by the rules before it.
func (e *Engine) Evaluate(env RuleEnv) Plan {
	rules := e.rules

	plan := Plan{NoObjective: env.Objective == nil}
	if env.Objective != nil {
		env.Destination = env.Objective.Entity.Position
	} else {
		env.Destination = env.Self.Position
	}

	fired := make(map[string]bool) // category → exclusive rule already fired
	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)
		plan.Fired = append(plan.Fired, r.Name)

		out := r.Action(env)
		plan.Moves = append(plan.Moves, out.Moves...)
		if out.Destination != nil {
			env.Destination = *out.Destination
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	plan.Destination = env.Destination
	plan.Moves = model.Dedupe(plan.Moves)
	return plan
}

// Rules returns the active rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Action == nil {
			return nil, fmt.Errorf("rule %q has no action", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
