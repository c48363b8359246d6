package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/telemetry"
)

const (
	// maxEvents bounds the in-memory event history.
	maxEvents = 256
	// maxPending bounds snapshots waiting for the background loop.
	maxPending = 64
)

// Monitor runs in the background, diffing consecutive snapshots into
// diagnostic events and persisting the snapshot of each first death. It never
// influences decisions; a dropped snapshot only loses diagnostics.
type Monitor struct {
	mu      sync.Mutex
	pending []model.Snapshot
	prev    map[model.ID]*tickState
	events  []Event

	tracker *telemetry.Tracker
	store   telemetry.SnapshotStore
	now     func() time.Time
	ready   chan struct{}
}

// NewMonitor creates a monitor. A nil store keeps deaths in memory.
func NewMonitor(tracker *telemetry.Tracker, store telemetry.SnapshotStore) *Monitor {
	if tracker == nil {
		tracker = telemetry.NewTracker()
	}
	if store == nil {
		store = telemetry.NewMemoryStore()
	}
	return &Monitor{
		prev:    make(map[model.ID]*tickState),
		tracker: tracker,
		store:   store,
		now:     time.Now,
		ready:   make(chan struct{}, 1),
	}
}

// Observe queues a snapshot for processing without blocking the tick. When
// the queue is backed up the oldest snapshot is dropped.
func (m *Monitor) Observe(snap model.Snapshot) {
	m.mu.Lock()
	if len(m.pending) >= maxPending {
		m.pending = m.pending[1:]
	}
	m.pending = append(m.pending, snap)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Start launches the processing loop. It blocks until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	slog.Info("monitor started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("monitor stopped")
			return
		case <-m.ready:
			m.drain(ctx)
		}
	}
}

func (m *Monitor) drain(ctx context.Context) {
	m.mu.Lock()
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, snap := range batch {
		m.Process(ctx, snap)
	}
}

// Process handles one snapshot synchronously and returns the events it
// produced.
func (m *Monitor) Process(ctx context.Context, snap model.Snapshot) []Event {
	id := snap.OwnPlayer.ID

	m.mu.Lock()
	prev := m.prev[id]
	cur := takeState(snap)
	m.prev[id] = &cur
	m.mu.Unlock()

	events := detectEvents(snap, prev)

	if last, changed := m.tracker.RecordRate(id, cur.rate); changed {
		events = append(events, Event{
			Kind:     EventPaceChange,
			PlayerID: id,
			Detail:   paceDetail(last, cur.rate),
		})
	}

	for _, ev := range events {
		switch ev.Kind {
		case EventDeath:
			if m.tracker.MarkDeath(id) {
				m.saveDeath(ctx, snap)
			}
		case EventRespawn:
			m.tracker.Revive(id)
		}
	}

	if len(events) > 0 {
		slog.Info("diagnostic events", "player", id, "events", formatEvents(events))
		m.mu.Lock()
		m.events = append(m.events, events...)
		if over := len(m.events) - maxEvents; over > 0 {
			m.events = m.events[over:]
		}
		m.mu.Unlock()
	}
	return events
}

func (m *Monitor) saveDeath(ctx context.Context, snap model.Snapshot) {
	rec := telemetry.DeathRecord{
		PlayerID:   snap.OwnPlayer.ID,
		Snapshot:   snap,
		RecordedAt: m.now(),
	}
	if err := m.store.SaveDeath(ctx, rec); err != nil {
		slog.Error("failed to store death snapshot", "player", rec.PlayerID, "error", err)
		return
	}
	slog.Info("death snapshot stored", "player", rec.PlayerID, "score", snap.GameInfo.Score)
}

// Events returns a copy of the recent event history.
func (m *Monitor) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func paceDetail(prev, cur float64) string {
	dir := "up"
	if cur < prev {
		dir = "down"
	}
	return fmt.Sprintf("score rate %s from %.2f to %.2f", dir, prev, cur)
}
