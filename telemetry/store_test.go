package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nstehr/arena-core/model"
	redisclient "github.com/nstehr/arena-core/redis"
)

func deathOf(id model.ID, score float64) DeathRecord {
	snap := model.Snapshot{
		Enemies:  []model.Entity{{ID: "w", Kind: model.KindWolf, Position: model.Position{X: 3, Y: 4}, Health: model.Float(12), AttackDamage: 40}},
		Players:  []model.Entity{{ID: id, Kind: model.KindPlayer, Position: model.Position{X: 1, Y: 1}, Health: model.Float(0)}},
		Hazards:  []model.Entity{{ID: "b", Kind: model.KindBomb, Position: model.Position{X: 9, Y: 9}, Status: model.HazardArmed}},
		GameInfo: model.GameInfo{Score: score, TimeRemainingS: 30},
		OwnPlayer: model.Self{
			ID:       id,
			Position: model.Position{X: 1, Y: 1},
			Health:   0,
			Items:    model.Inventory{Rings: model.StockOf(1)},
		},
	}
	snap.Stamp()
	return DeathRecord{PlayerID: id, Snapshot: snap, RecordedAt: time.Unix(1700000000, 0).UTC()}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.LatestDeath(ctx, "p")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveDeath(ctx, deathOf("p", 10)))
	require.NoError(t, s.SaveDeath(ctx, deathOf("p", 20)))

	rec, err := s.LatestDeath(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 20.0, rec.Snapshot.GameInfo.Score)
	assert.Equal(t, 2, s.Count("p"))

	hist, err := s.History(ctx, "p", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 20.0, hist[0].Snapshot.GameInfo.Score)
	assert.Equal(t, 10.0, hist[1].Snapshot.GameInfo.Score)

	hist, err = s.History(ctx, "p", 1)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 20.0, hist[0].Snapshot.GameInfo.Score)

	hist, err = s.History(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestMemoryStoreKeepsHistoryLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for i := 0; i < historyLimit+5; i++ {
		require.NoError(t, s.SaveDeath(ctx, deathOf("p", float64(i))))
	}
	assert.Equal(t, historyLimit, s.Count("p"))

	hist, err := s.History(ctx, "p", 0)
	require.NoError(t, err)
	require.Len(t, hist, historyLimit)
	assert.Equal(t, float64(historyLimit+4), hist[0].Snapshot.GameInfo.Score)
}

type RedisStoreTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	store     *RedisStore
	ctx       context.Context
}

func (s *RedisStoreTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.miniRedis = mr

	client, err := redisclient.NewClient(mr.Addr(), nil)
	s.Require().NoError(err)

	store, err := NewRedisStore(&RedisConfig{Client: client, TTL: time.Hour})
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.miniRedis.Close()
}

func (s *RedisStoreTestSuite) TestSaveAndLoadLatest() {
	rec := deathOf("p1", 42)
	s.Require().NoError(s.store.SaveDeath(s.ctx, rec))

	s.True(s.miniRedis.Exists("arena:death:p1"))
	s.Equal(time.Hour, s.miniRedis.TTL("arena:death:p1"))

	got, err := s.store.LatestDeath(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(rec.PlayerID, got.PlayerID)
	s.True(rec.RecordedAt.Equal(got.RecordedAt))
	s.Equal(42.0, got.Snapshot.GameInfo.Score)
	s.Equal(model.CategoryCreature, got.Snapshot.Enemies[0].Category, "categories are restamped")
	s.Equal(model.CategoryHazard, got.Snapshot.Hazards[0].Category)
	s.Equal(1, got.Snapshot.OwnPlayer.Items.Rings.Count())
	s.Equal(40.0, got.Snapshot.Enemies[0].AttackDamage)
}

func (s *RedisStoreTestSuite) TestLatestDeathNotFound() {
	_, err := s.store.LatestDeath(s.ctx, "nobody")
	s.ErrorIs(err, ErrNotFound)
}

func (s *RedisStoreTestSuite) TestHistoryNewestFirst() {
	for _, score := range []float64{1, 2, 3} {
		s.Require().NoError(s.store.SaveDeath(s.ctx, deathOf("p1", score)))
	}

	recs, err := s.store.History(s.ctx, "p1", 2)
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Equal(3.0, recs[0].Snapshot.GameInfo.Score)
	s.Equal(2.0, recs[1].Snapshot.GameInfo.Score)

	latest, err := s.store.LatestDeath(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(3.0, latest.Snapshot.GameInfo.Score)
}

func (s *RedisStoreTestSuite) TestSaveRequiresPlayerID() {
	s.Error(s.store.SaveDeath(s.ctx, DeathRecord{}))
}

func (s *RedisStoreTestSuite) TestConnectionFailure() {
	s.miniRedis.Close()
	err := s.store.SaveDeath(s.ctx, deathOf("p1", 1))
	s.Error(err)
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func TestNewRedisStoreValidation(t *testing.T) {
	_, err := NewRedisStore(nil)
	assert.Error(t, err)

	_, err = NewRedisStore(&RedisConfig{})
	assert.Error(t, err)
}
