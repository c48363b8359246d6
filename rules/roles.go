package rules

import "github.com/nstehr/arena-core/model"

// kinded is a generic constraint for anything exposing a kind.
type kinded interface {
	~string
}

// isKind returns true if k is one of kinds.
func isKind[K kinded](k K, kinds []K) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}

// fightableKinds are the kinds we can hit back when they bump into us.
var fightableKinds = []model.Kind{
	model.KindMinotaur,
	model.KindTiny,
	model.KindGhoul,
	model.KindWolf,
	model.KindPlayer,
	model.KindChest,
}

// freezableKinds are objectives worth spending a freeze on. Tiny creatures
// die faster than the freeze lands.
var freezableKinds = []model.Kind{
	model.KindMinotaur,
	model.KindGhoul,
	model.KindWolf,
	model.KindPlayer,
}

// skillOrder fixes the order stats are compared and topped up in.
var skillOrder = []model.Stat{model.StatSpeed, model.StatHealth, model.StatAttack}

func skillRank(l model.Levelling, s model.Stat) int {
	switch s {
	case model.StatSpeed:
		return l.Speed
	case model.StatHealth:
		return l.Health
	case model.StatAttack:
		return l.Attack
	}
	return 0
}
