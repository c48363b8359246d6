package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nstehr/arena-core/model"
)

// ErrNotFound is returned when no death has been recorded for a player.
var ErrNotFound = errors.New("death record not found")

// DeathRecord is the snapshot of the tick on which a player's health first
// reached zero.
type DeathRecord struct {
	PlayerID   model.ID       `json:"player_id"`
	Snapshot   model.Snapshot `json:"snapshot"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// SnapshotStore persists death snapshots for post-match analysis.
type SnapshotStore interface {
	SaveDeath(ctx context.Context, rec DeathRecord) error
	LatestDeath(ctx context.Context, playerID model.ID) (*DeathRecord, error)
	// History returns up to n deaths, newest first. n <= 0 means the store's
	// own retention limit.
	History(ctx context.Context, playerID model.ID, n int) ([]DeathRecord, error)
}

// MemoryStore keeps death records in process. It is the default when no
// Redis endpoint is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[model.ID][]DeathRecord
}

var _ SnapshotStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[model.ID][]DeathRecord)}
}

func (s *MemoryStore) SaveDeath(_ context.Context, rec DeathRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := append(s.records[rec.PlayerID], rec)
	if len(recs) > historyLimit {
		recs = recs[len(recs)-historyLimit:]
	}
	s.records[rec.PlayerID] = recs
	return nil
}

func (s *MemoryStore) LatestDeath(_ context.Context, playerID model.ID) (*DeathRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[playerID]
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	rec := recs[len(recs)-1]
	return &rec, nil
}

func (s *MemoryStore) History(_ context.Context, playerID model.ID, n int) ([]DeathRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[playerID]
	if n <= 0 || n > len(recs) {
		n = len(recs)
	}
	out := make([]DeathRecord, 0, n)
	for i := len(recs) - 1; len(out) < n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

// Count returns how many deaths have been stored for a player.
func (s *MemoryStore) Count(playerID model.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[playerID])
}
