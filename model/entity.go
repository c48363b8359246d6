package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category is the top-level tag of an Entity.
type Category string

const (
	CategoryCreature Category = "creature"
	CategoryRival    Category = "rival"
	CategoryHazard   Category = "hazard"
	CategoryItem     Category = "item"
)

// Kind is the sub-tag the game sends as "type".
type Kind string

const (
	KindMinotaur Kind = "minotaur"
	KindTiny     Kind = "tiny"
	KindGhoul    Kind = "ghoul"
	KindWolf     Kind = "wolf"

	KindPlayer Kind = "player"

	KindCoin        Kind = "coin"
	KindBigPotion   Kind = "big_potion"
	KindSpeedZapper Kind = "speed_zapper"
	KindRing        Kind = "ring"
	KindChest       Kind = "chest"
	KindPowerUp     Kind = "power_up"

	KindBomb   Kind = "bomb"
	KindIcicle Kind = "icicle"
)

var kindCategories = map[Kind]Category{
	KindMinotaur:    CategoryCreature,
	KindTiny:        CategoryCreature,
	KindGhoul:       CategoryCreature,
	KindWolf:        CategoryCreature,
	KindPlayer:      CategoryRival,
	KindCoin:        CategoryItem,
	KindBigPotion:   CategoryItem,
	KindSpeedZapper: CategoryItem,
	KindRing:        CategoryItem,
	KindChest:       CategoryItem,
	KindPowerUp:     CategoryItem,
	KindBomb:        CategoryHazard,
	KindIcicle:      CategoryHazard,
}

// CategoryOf maps a kind to its category. Collisions arrive without the list
// they came from, so this is how their category is recovered. Unknown kinds
// are treated as creatures: anything unrecognised that touches us can hurt.
func CategoryOf(k Kind) Category {
	if c, ok := kindCategories[k]; ok {
		return c
	}
	return CategoryCreature
}

// Special is an equipped situational ability.
type Special string

const (
	SpecialNone      Special = ""
	SpecialBomb      Special = "bomb"
	SpecialFreeze    Special = "freeze"
	SpecialShockwave Special = "shockwave"
)

func (s *Special) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = SpecialNone
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode special: %w", err)
	}
	if v == "none" {
		v = ""
	}
	*s = Special(v)
	return nil
}

// HazardStatus distinguishes armed hazards from inert ones. An empty status is
// treated as armed.
type HazardStatus string

const (
	HazardArmed HazardStatus = "armed"
	HazardIdle  HazardStatus = "idle"
)

// ID accepts both string and numeric identifiers from the wire.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Levelling carries skill ranks. Rivals only report Level; self reports the
// per-stat ranks and unspent points.
type Levelling struct {
	Level                int `json:"level,omitempty"`
	Attack               int `json:"attack,omitempty"`
	Speed                int `json:"speed,omitempty"`
	Health               int `json:"health,omitempty"`
	AvailableSkillPoints int `json:"available_skill_points,omitempty"`
}

// Entity is one visible thing in the world, tagged by Category. Only the
// fields relevant to the category are populated: combat fields for creatures
// and rivals, Levelling/Special for rivals, OwnerID/Status for hazards.
type Entity struct {
	ID           ID           `json:"id"`
	Category     Category     `json:"-"`
	Kind         Kind         `json:"type"`
	Position     Position     `json:"position" jsonschema:"required"`
	Health       *float64     `json:"health,omitempty"`
	AttackDamage float64      `json:"attack_damage,omitempty"`
	IsFrozen     bool         `json:"is_frozen,omitempty"`
	IsZapped     bool         `json:"is_zapped,omitempty"`
	OwnerID      ID           `json:"owner_id,omitempty"`
	Status       HazardStatus `json:"status,omitempty"`
	Levelling    Levelling    `json:"levelling,omitempty"`
	Special      Special      `json:"special_equipped,omitempty"`
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	type plain Entity
	var raw struct {
		plain
		Position *Position `json:"position"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Position == nil {
		return fmt.Errorf("entity %q: %w: position", raw.plain.ID, ErrMissingField)
	}
	*e = Entity(raw.plain)
	e.Position = *raw.Position
	return nil
}

// HasHealth reports whether the entity exposes a health pool at all.
// Pickups don't.
func (e Entity) HasHealth() bool { return e.Health != nil }

// HP returns health, or 0 for entities without a health pool.
func (e Entity) HP() float64 {
	if e.Health == nil {
		return 0
	}
	return *e.Health
}

// Alive is false once numeric health has dropped to zero or below. Entities
// without health are always alive.
func (e Entity) Alive() bool {
	return e.Health == nil || *e.Health > 0
}

// Armed reports whether a hazard can currently deal damage.
func (e Entity) Armed() bool {
	return e.Category == CategoryHazard && e.Status != HazardIdle
}

// Hostile reports whether the entity is a living creature or rival.
func (e Entity) Hostile() bool {
	return (e.Category == CategoryCreature || e.Category == CategoryRival) && e.Alive()
}

// Ref identifies an entity. Ids are only unique within a category, so an
// item and a creature may share one.
type Ref struct {
	ID       ID
	Category Category
}

func (e Entity) Ref() Ref { return Ref{ID: e.ID, Category: e.Category} }

func (e Entity) String() string {
	return string(e.Kind) + "#" + string(e.ID) + "@" +
		strconv.FormatFloat(e.Position.X, 'f', 0, 64) + "," +
		strconv.FormatFloat(e.Position.Y, 'f', 0, 64)
}

// Float returns a pointer to v; handy for populating Health.
func Float(v float64) *float64 { return &v }
