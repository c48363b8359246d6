package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/arena-core/model"
)

// Outcome is what a fired rule contributes: moves to append and, optionally,
// a replacement destination for the rules after it.
type Outcome struct {
	Moves       []model.Move
	Destination *model.Position
}

// ActionFunc turns a matched rule into moves. Actions are pure: they read the
// env and return an Outcome, they never mutate shared state.
type ActionFunc func(env RuleEnv) Outcome

// Rule is the atomic unit of behavior: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// so escalating variants of the same response fire at most once.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
