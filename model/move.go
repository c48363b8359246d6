package model

import (
	"encoding/json"
	"fmt"
)

// Action tags a Move.
type Action string

const (
	ActionAttack  Action = "attack"
	ActionDash    Action = "dash"
	ActionShield  Action = "shield"
	ActionSpecial Action = "special"

	ActionUse    Action = "use"
	ActionRedeem Action = "redeem_skill_point"
	ActionSpeak  Action = "speak"
	ActionMoveTo Action = "move_to"
)

// Stat is a skill that can receive a point.
type Stat string

const (
	StatSpeed  Stat = "speed"
	StatHealth Stat = "health"
	StatAttack Stat = "attack"
)

// Move is a single emitted action. It is a comparable value so move lists
// can be de-duplicated with a map.
type Move struct {
	Action Action
	Item   Kind
	Stat   Stat
	Text   string
	Target Position
}

var (
	Attack      = Move{Action: ActionAttack}
	Dash        = Move{Action: ActionDash}
	Shield      = Move{Action: ActionShield}
	SpecialMove = Move{Action: ActionSpecial}
)

func Use(item Kind) Move     { return Move{Action: ActionUse, Item: item} }
func Redeem(stat Stat) Move  { return Move{Action: ActionRedeem, Stat: stat} }
func Speak(text string) Move { return Move{Action: ActionSpeak, Text: text} }
func MoveTo(p Position) Move { return Move{Action: ActionMoveTo, Target: p} }

func (m Move) String() string {
	switch m.Action {
	case ActionUse:
		return "use:" + string(m.Item)
	case ActionRedeem:
		return "redeem:" + string(m.Stat)
	case ActionSpeak:
		return "speak:" + m.Text
	case ActionMoveTo:
		return fmt.Sprintf("move_to:(%.0f,%.0f)", m.Target.X, m.Target.Y)
	}
	return string(m.Action)
}

// MarshalJSON emits bare tags as strings and parameterised moves as
// single-key objects, the shape the game expects.
func (m Move) MarshalJSON() ([]byte, error) {
	switch m.Action {
	case ActionAttack, ActionDash, ActionShield, ActionSpecial:
		return json.Marshal(string(m.Action))
	case ActionUse:
		return json.Marshal(map[string]Kind{string(ActionUse): m.Item})
	case ActionRedeem:
		return json.Marshal(map[string]Stat{string(ActionRedeem): m.Stat})
	case ActionSpeak:
		return json.Marshal(map[string]string{string(ActionSpeak): m.Text})
	case ActionMoveTo:
		return json.Marshal(map[string]Position{string(ActionMoveTo): m.Target})
	}
	return nil, fmt.Errorf("marshal move: unknown action %q", m.Action)
}

func (m *Move) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		switch a := Action(tag); a {
		case ActionAttack, ActionDash, ActionShield, ActionSpecial:
			*m = Move{Action: a}
			return nil
		}
		return fmt.Errorf("unmarshal move: unknown action %q", tag)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal move: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("unmarshal move: want exactly one key, got %d", len(obj))
	}
	for k, v := range obj {
		var out Move
		out.Action = Action(k)
		var err error
		switch out.Action {
		case ActionUse:
			err = json.Unmarshal(v, &out.Item)
		case ActionRedeem:
			err = json.Unmarshal(v, &out.Stat)
		case ActionSpeak:
			err = json.Unmarshal(v, &out.Text)
		case ActionMoveTo:
			err = json.Unmarshal(v, &out.Target)
		default:
			return fmt.Errorf("unmarshal move: unknown action %q", k)
		}
		if err != nil {
			return fmt.Errorf("unmarshal move %s: %w", k, err)
		}
		*m = out
	}
	return nil
}

// Dedupe drops repeated moves, keeping the first occurrence of each in its
// original position.
func Dedupe(moves []Move) []Move {
	seen := make(map[Move]struct{}, len(moves))
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
