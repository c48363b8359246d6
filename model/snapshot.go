package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField marks a caller contract violation: a required field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidSnapshot wraps every structural problem with an incoming snapshot.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Stock is a held consumable list. Only its length is meaningful to the agent.
type Stock []json.RawMessage

func (s Stock) Count() int { return len(s) }

// StockOf builds a stock of n placeholder entries; used by tests and tools.
func StockOf(n int) Stock {
	s := make(Stock, n)
	for i := range s {
		s[i] = json.RawMessage("{}")
	}
	return s
}

type Inventory struct {
	Rings        Stock `json:"rings"`
	SpeedZappers Stock `json:"speed_zappers"`
	BigPotions   Stock `json:"big_potions"`
}

// Self is the agent's own player state.
type Self struct {
	ID            ID        `json:"id"`
	Position      Position  `json:"position" jsonschema:"required"`
	Health        float64   `json:"health" jsonschema:"required"`
	MaxHealth     float64   `json:"max_health"`
	AttackDamage  float64   `json:"attack_damage"`
	IsCloaked     bool      `json:"is_cloaked"`
	IsShieldReady bool      `json:"is_shield_ready"`
	ShieldRaised  bool      `json:"shield_raised"`
	Special       Special   `json:"special_equipped"`
	Collisions    []Entity  `json:"collisions"`
	Items         Inventory `json:"items"`
	Levelling     Levelling `json:"levelling"`
}

func (s *Self) UnmarshalJSON(data []byte) error {
	type plain Self
	var raw struct {
		plain
		Position *Position `json:"position"`
		Health   *float64  `json:"health"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Position == nil {
		return fmt.Errorf("own_player: %w: position", ErrMissingField)
	}
	if raw.Health == nil {
		return fmt.Errorf("own_player: %w: health", ErrMissingField)
	}
	*s = Self(raw.plain)
	s.Position = *raw.Position
	s.Health = *raw.Health
	for i := range s.Collisions {
		s.Collisions[i].Category = CategoryOf(s.Collisions[i].Kind)
	}
	return nil
}

// HealthFraction is health over max health; 1 when max health is unknown.
func (s Self) HealthFraction() float64 {
	if s.MaxHealth <= 0 {
		return 1
	}
	return s.Health / s.MaxHealth
}

type GameInfo struct {
	TimeRemainingS float64 `json:"time_remaining_s"`
	Score          float64 `json:"score"`
}

// Snapshot is one tick of the visible world as sent by the game.
type Snapshot struct {
	Enemies   []Entity  `json:"enemies" jsonschema:"required"`
	Players   []Entity  `json:"players" jsonschema:"required"`
	Hazards   []Entity  `json:"hazards" jsonschema:"required"`
	Items     []Entity  `json:"items" jsonschema:"required"`
	GameInfo  GameInfo  `json:"game_info" jsonschema:"required"`
	OwnPlayer Self      `json:"own_player" jsonschema:"required"`
	Obstacles Obstacles `json:"obstacles,omitempty"`
}

var requiredSnapshotFields = []string{"enemies", "players", "hazards", "items", "game_info", "own_player"}

// DecodeSnapshot parses and stamps a snapshot, failing on any missing
// required field rather than defaulting it.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	var missing []string
	for _, f := range requiredSnapshotFields {
		if _, ok := fields[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Snapshot{}, fmt.Errorf("%w: %w: %s", ErrInvalidSnapshot, ErrMissingField, strings.Join(missing, ", "))
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	snap.Stamp()
	return snap, nil
}

// Stamp sets each entity's Category from the list it arrived in.
func (s *Snapshot) Stamp() {
	stamp(s.Enemies, CategoryCreature)
	stamp(s.Players, CategoryRival)
	stamp(s.Hazards, CategoryHazard)
	stamp(s.Items, CategoryItem)
	for i := range s.Players {
		if s.Players[i].Kind == "" {
			s.Players[i].Kind = KindPlayer
		}
	}
}

func stamp(list []Entity, c Category) {
	for i := range list {
		list[i].Category = c
	}
}

// Rivals returns the player list without our own entry.
func (s Snapshot) Rivals() []Entity {
	out := make([]Entity, 0, len(s.Players))
	for _, p := range s.Players {
		if s.OwnPlayer.ID != "" && p.ID == s.OwnPlayer.ID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Candidates lists every possible objective in a fixed order: items, then
// creatures, then rivals. Selection is order-stable so this order is the
// tie-break.
func (s Snapshot) Candidates() []Entity {
	rivals := s.Rivals()
	out := make([]Entity, 0, len(s.Items)+len(s.Enemies)+len(rivals))
	out = append(out, s.Items...)
	out = append(out, s.Enemies...)
	out = append(out, rivals...)
	return out
}
