// Package telemetry keeps the agent's diagnostic state: score pacing and
// death snapshots. Nothing here feeds back into decisions.
package telemetry

import (
	"math"
	"sync"

	"github.com/nstehr/arena-core/model"
)

// ScoreRate is score over remaining match time. The denominator is clamped
// to one second so the last tick of a match doesn't divide by zero.
func ScoreRate(info model.GameInfo) float64 {
	return info.Score / math.Max(info.TimeRemainingS, 1)
}

type playerState struct {
	rate        float64
	hasRate     bool
	deathLogged bool
}

// Tracker holds per-player diagnostic state behind a single lock; snapshots
// from concurrent sessions may update it in parallel.
type Tracker struct {
	mu      sync.Mutex
	players map[model.ID]*playerState
	// PaceDelta is the relative rate change that counts as a pace change.
	PaceDelta float64
}

func NewTracker() *Tracker {
	return &Tracker{
		players:   make(map[model.ID]*playerState),
		PaceDelta: 0.25,
	}
}

func (t *Tracker) state(id model.ID) *playerState {
	s, ok := t.players[id]
	if !ok {
		s = &playerState{}
		t.players[id] = s
	}
	return s
}

// RecordRate stores the latest score rate and reports the previous one and
// whether the change exceeds PaceDelta. The first observation is never a
// change.
func (t *Tracker) RecordRate(id model.ID, rate float64) (prev float64, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state(id)
	prev, had := s.rate, s.hasRate
	s.rate, s.hasRate = rate, true
	if !had {
		return 0, false
	}
	base := math.Max(math.Abs(prev), 1e-9)
	return prev, math.Abs(rate-prev)/base > t.PaceDelta
}

// LastRate returns the last recorded score rate.
func (t *Tracker) LastRate(id model.ID) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.players[id]
	if !ok || !s.hasRate {
		return 0, false
	}
	return s.rate, true
}

// MarkDeath flags the player as dead and reports whether this is the first
// death since the last revive.
func (t *Tracker) MarkDeath(id model.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.state(id)
	if s.deathLogged {
		return false
	}
	s.deathLogged = true
	return true
}

// Revive clears the death flag so the next death is logged again.
func (t *Tracker) Revive(id model.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state(id).deathLogged = false
}
