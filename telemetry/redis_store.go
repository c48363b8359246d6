package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nstehr/arena-core/model"
	redisclient "github.com/nstehr/arena-core/redis"
)

const (
	// Key pattern: arena:death:{player_id}
	deathKeyPrefix = "arena:death:"
	// Key pattern: arena:deaths:{player_id}, newest first
	historyKeyPrefix = "arena:deaths:"
	defaultTTL       = 24 * time.Hour
	historyLimit     = 50
)

// RedisConfig holds the configuration for the Redis snapshot store.
type RedisConfig struct {
	Client redisclient.Client
	TTL    time.Duration
}

// Validate ensures all required dependencies are provided.
func (c *RedisConfig) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if c.Client == nil {
		return errors.New("client cannot be nil")
	}
	return nil
}

// RedisStore persists death records as JSON, keeping the latest per player
// under its own key plus a bounded history list.
type RedisStore struct {
	client redisclient.Client
	ttl    time.Duration
}

var _ SnapshotStore = (*RedisStore)(nil)

func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: cfg.Client, ttl: ttl}, nil
}

func (s *RedisStore) SaveDeath(ctx context.Context, rec DeathRecord) error {
	if rec.PlayerID == "" {
		return errors.New("player ID cannot be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal death record: %w", err)
	}

	history := historyKeyPrefix + string(rec.PlayerID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, deathKeyPrefix+string(rec.PlayerID), data, s.ttl)
	pipe.LPush(ctx, history, data)
	pipe.LTrim(ctx, history, 0, historyLimit-1)
	pipe.Expire(ctx, history, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store death record: %w", err)
	}
	return nil
}

func (s *RedisStore) LatestDeath(ctx context.Context, playerID model.ID) (*DeathRecord, error) {
	data, err := s.client.Get(ctx, deathKeyPrefix+string(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get death record: %w", err)
	}
	return decodeRecord(data)
}

// History returns up to n stored deaths for a player, newest first.
func (s *RedisStore) History(ctx context.Context, playerID model.ID, n int) ([]DeathRecord, error) {
	if n <= 0 {
		n = historyLimit
	}
	raw, err := s.client.LRange(ctx, historyKeyPrefix+string(playerID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list death records: %w", err)
	}
	out := make([]DeathRecord, 0, len(raw))
	for _, r := range raw {
		rec, err := decodeRecord([]byte(r))
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func decodeRecord(data []byte) (*DeathRecord, error) {
	var rec DeathRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal death record: %w", err)
	}
	rec.Snapshot.Stamp()
	return &rec, nil
}
