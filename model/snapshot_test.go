package model

import (
	"errors"
	"testing"
)

const sampleSnapshot = `{
  "enemies": [{"id": 1, "type": "wolf", "position": {"x": 50, "y": 0}, "health": 30, "attack_damage": 5}],
  "players": [
    {"id": "me", "position": {"x": 0, "y": 0}, "health": 100},
    {"id": "p2", "position": {"x": 400, "y": 0}, "health": 80, "levelling": {"level": 3}, "special_equipped": "none"}
  ],
  "hazards": [{"id": "h1", "type": "bomb", "position": {"x": 10, "y": 10}, "owner_id": "p2", "status": "armed"}],
  "items": [{"id": "i1", "type": "coin", "position": {"x": 20, "y": 20}}],
  "game_info": {"time_remaining_s": 90, "score": 120},
  "own_player": {
    "id": "me",
    "position": {"x": 0, "y": 0},
    "health": 100,
    "max_health": 100,
    "attack_damage": 10,
    "special_equipped": "bomb",
    "items": {"rings": [], "speed_zappers": [{}], "big_potions": [{}, {}]},
    "collisions": [{"id": 1, "type": "wolf", "position": {"x": 50, "y": 0}}],
    "levelling": {"speed": 1, "health": 0, "attack": 2, "available_skill_points": 1}
  },
  "obstacles": [[100, 100], [120, 100]]
}`

func TestDecodeSnapshot(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}

	if got := snap.Enemies[0]; got.Category != CategoryCreature || got.ID != "1" || got.HP() != 30 {
		t.Errorf("enemy decoded as %+v", got)
	}
	if snap.Hazards[0].Category != CategoryHazard || !snap.Hazards[0].Armed() {
		t.Errorf("hazard decoded as %+v", snap.Hazards[0])
	}
	if snap.Players[1].Kind != KindPlayer || snap.Players[1].Special != SpecialNone {
		t.Errorf("rival decoded as %+v", snap.Players[1])
	}
	if snap.OwnPlayer.Special != SpecialBomb {
		t.Errorf("own special = %q", snap.OwnPlayer.Special)
	}
	if snap.OwnPlayer.Items.BigPotions.Count() != 2 || snap.OwnPlayer.Items.SpeedZappers.Count() != 1 {
		t.Errorf("inventory decoded as %+v", snap.OwnPlayer.Items)
	}
	if snap.OwnPlayer.Collisions[0].Category != CategoryCreature {
		t.Errorf("collision category = %q", snap.OwnPlayer.Collisions[0].Category)
	}
	if len(snap.Obstacles) != 2 {
		t.Errorf("obstacles = %v", snap.Obstacles)
	}

	rivals := snap.Rivals()
	if len(rivals) != 1 || rivals[0].ID != "p2" {
		t.Errorf("Rivals() = %v", rivals)
	}

	cands := snap.Candidates()
	if len(cands) != 3 || cands[0].Kind != KindCoin || cands[1].Kind != KindWolf || cands[2].ID != "p2" {
		t.Errorf("Candidates() order = %v", cands)
	}
}

func TestDecodeSnapshotMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no own_player", `{"enemies":[],"players":[],"hazards":[],"items":[],"game_info":{}}`},
		{"no enemies", `{"players":[],"hazards":[],"items":[],"game_info":{},"own_player":{"position":{"x":0,"y":0},"health":1}}`},
		{"self without health", `{"enemies":[],"players":[],"hazards":[],"items":[],"game_info":{},"own_player":{"position":{"x":0,"y":0}}}`},
		{"entity without position", `{"enemies":[{"id":1,"type":"wolf"}],"players":[],"hazards":[],"items":[],"game_info":{},"own_player":{"position":{"x":0,"y":0},"health":1}}`},
		{"position without y", `{"enemies":[],"players":[],"hazards":[],"items":[],"game_info":{},"own_player":{"position":{"x":0},"health":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.raw))
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("error = %v, want ErrInvalidSnapshot", err)
			}
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("error = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestEntityLiveness(t *testing.T) {
	tests := []struct {
		name  string
		e     Entity
		alive bool
	}{
		{"no health", Entity{Kind: KindCoin}, true},
		{"positive", Entity{Health: Float(1)}, true},
		{"zero", Entity{Health: Float(0)}, false},
		{"negative", Entity{Health: Float(-3)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Alive(); got != tt.alive {
				t.Errorf("Alive() = %v, want %v", got, tt.alive)
			}
		})
	}
}

func TestHazardArmed(t *testing.T) {
	idle := Entity{Category: CategoryHazard, Status: HazardIdle}
	unknown := Entity{Category: CategoryHazard}
	if idle.Armed() {
		t.Error("idle hazard reported armed")
	}
	if !unknown.Armed() {
		t.Error("hazard without status should be treated as armed")
	}
}
