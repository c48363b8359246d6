package agent

import (
	"fmt"
	"strings"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/telemetry"
)

// EventKind identifies a diagnostic event detected between two snapshots of
// the same player.
type EventKind string

const (
	EventDeath        EventKind = "death"
	EventRespawn      EventKind = "respawn"
	EventPaceChange   EventKind = "pace_change"
	EventEndgame      EventKind = "endgame"
	EventFirstContact EventKind = "first_contact"
)

// endgameSeconds is when the match enters its final stretch.
const endgameSeconds = 30

// Event is a significant change detected by diffing consecutive snapshots.
type Event struct {
	Kind     EventKind `json:"kind"`
	PlayerID model.ID  `json:"player_id"`
	Detail   string    `json:"detail"`
}

// tickState captures the diffable fields from one snapshot.
type tickState struct {
	health        float64
	score         float64
	timeRemaining float64
	rate          float64
	threatsSeen   bool
}

func takeState(snap model.Snapshot) tickState {
	return tickState{
		health:        snap.OwnPlayer.Health,
		score:         snap.GameInfo.Score,
		timeRemaining: snap.GameInfo.TimeRemainingS,
		rate:          telemetry.ScoreRate(snap.GameInfo),
		threatsSeen:   len(snap.Enemies) > 0 || len(snap.Rivals()) > 0,
	}
}

// detectEvents compares the current snapshot against the previous state for
// the same player. Death is reported even on the first snapshot; the other
// events need a previous state to diff against.
func detectEvents(snap model.Snapshot, prev *tickState) []Event {
	id := snap.OwnPlayer.ID
	cur := takeState(snap)
	var events []Event

	if cur.health <= 0 && (prev == nil || prev.health > 0) {
		events = append(events, Event{
			Kind:     EventDeath,
			PlayerID: id,
			Detail:   fmt.Sprintf("died with score %.0f, %.0fs remaining", cur.score, cur.timeRemaining),
		})
	}
	if prev == nil {
		return events
	}

	if prev.health <= 0 && cur.health > 0 {
		events = append(events, Event{Kind: EventRespawn, PlayerID: id, Detail: fmt.Sprintf("back with %.0f health", cur.health)})
	}

	if prev.timeRemaining > endgameSeconds && cur.timeRemaining <= endgameSeconds {
		events = append(events, Event{Kind: EventEndgame, PlayerID: id, Detail: fmt.Sprintf("%.0fs left, score %.0f", cur.timeRemaining, cur.score)})
	}

	if !prev.threatsSeen && cur.threatsSeen {
		events = append(events, Event{
			Kind:     EventFirstContact,
			PlayerID: id,
			Detail:   fmt.Sprintf("%d creatures, %d rivals visible", len(snap.Enemies), len(snap.Rivals())),
		})
	}

	return events
}

// formatEvents renders events as one line for logging.
func formatEvents(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = fmt.Sprintf("[%s] %s", e.Kind, e.Detail)
	}
	return strings.Join(parts, "; ")
}
