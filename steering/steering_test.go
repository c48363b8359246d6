package steering

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nstehr/arena-core/model"
	"github.com/nstehr/arena-core/tuning"
)

const eps = 1e-9

func TestVecLimit(t *testing.T) {
	v := Vec{3, 4}
	assert.Equal(t, v, v.Limit(10))
	assert.InDelta(t, 2.5, v.Limit(2.5).Len(), eps)
	assert.Equal(t, Vec{}, v.Limit(0))
	assert.Equal(t, Vec{}, Vec{}.Normalize())
}

func TestSteerBounds(t *testing.T) {
	cfg := tuning.Default().Steering
	c := NewController(cfg)
	rng := rand.New(rand.NewSource(7))

	pos := func() model.Position {
		return model.Position{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000}
	}

	for i := 0; i < 500; i++ {
		from := pos()
		var threats []model.Entity
		for j := 0; j < rng.Intn(5); j++ {
			p := from.Add(model.Position{X: rng.Float64()*300 - 150, Y: rng.Float64()*300 - 150})
			threats = append(threats, model.Entity{ID: model.ID(string(rune('a' + j))), Category: model.CategoryCreature, Position: p})
		}
		var obstacles []model.Position
		for j := 0; j < rng.Intn(5); j++ {
			obstacles = append(obstacles, from.Add(model.Position{X: rng.Float64()*160 - 80, Y: rng.Float64()*160 - 80}))
		}

		res := c.Steer(from, pos(), threats, obstacles, model.Ref{})
		require.LessOrEqual(t, res.Force.Len(), cfg.MaxForce*(1+eps), "force at case %d", i)
		require.LessOrEqual(t, res.Velocity.Len(), cfg.MaxSpeed*(1+eps), "velocity at case %d", i)
	}
}

func TestSteerSnapsWhenCloserThanOneStep(t *testing.T) {
	c := NewController(tuning.Default().Steering)
	dest := model.Position{X: 30, Y: 40}

	res := c.Steer(model.Position{}, dest, nil, nil, model.Ref{})
	assert.Equal(t, dest, res.Next)
	assert.Empty(t, res.Avoided)
}

func TestSteerTowardFarDestination(t *testing.T) {
	cfg := tuning.Default().Steering
	c := NewController(cfg)

	res := c.Steer(model.Position{}, model.Position{X: 1000}, nil, nil, model.Ref{})
	assert.InDelta(t, cfg.MaxSpeed, res.Next.X, eps)
	assert.InDelta(t, 0, res.Next.Y, eps)
}

func TestSteerDisabled(t *testing.T) {
	cfg := tuning.Default().Steering
	cfg.Enabled = false
	c := NewController(cfg)

	dest := model.Position{X: 5000, Y: -5000}
	threat := model.Entity{ID: "w", Category: model.CategoryCreature, Position: model.Position{X: 10}}
	res := c.Steer(model.Position{}, dest, []model.Entity{threat}, nil, model.Ref{})
	assert.Equal(t, dest, res.Next)
}

func TestSteerAvoidsNearestThreatButNotObjective(t *testing.T) {
	c := NewController(tuning.Default().Steering)
	from := model.Position{}
	dest := model.Position{X: 1000}
	wolf := model.Entity{ID: "w", Category: model.CategoryCreature, Position: model.Position{X: 50, Y: 50}}

	res := c.Steer(from, dest, []model.Entity{wolf}, nil, model.Ref{})
	require.Len(t, res.Avoided, 1)
	assert.Less(t, res.Next.Y, 0.0, "pushed away from the threat")

	res = c.Steer(from, dest, []model.Entity{wolf}, nil, wolf.Ref())
	assert.Empty(t, res.Avoided)
	assert.InDelta(t, 0, res.Next.Y, eps)
}

func TestSteerExcludesObjectiveByCategoryAndID(t *testing.T) {
	c := NewController(tuning.Default().Steering)
	from := model.Position{}
	dest := model.Position{X: 1000}
	wolf := model.Entity{ID: "7", Category: model.CategoryCreature, Position: model.Position{Y: 50}}
	coin := model.Entity{ID: "7", Category: model.CategoryItem, Kind: model.KindCoin}

	res := c.Steer(from, dest, []model.Entity{wolf}, nil, coin.Ref())
	require.Len(t, res.Avoided, 1, "a coin sharing the wolf's id must not hide it")
	assert.Equal(t, wolf.Position, res.Avoided[0])

	res = c.Steer(from, dest, []model.Entity{wolf}, nil, wolf.Ref())
	assert.Empty(t, res.Avoided)
}

func TestSteerIgnoresDeadAndIdle(t *testing.T) {
	c := NewController(tuning.Default().Steering)
	dead := model.Entity{ID: "d", Category: model.CategoryCreature, Position: model.Position{X: 20, Y: 20}, Health: model.Float(0)}
	idle := model.Entity{ID: "i", Category: model.CategoryHazard, Status: model.HazardIdle, Position: model.Position{X: 20, Y: -20}}

	res := c.Steer(model.Position{}, model.Position{X: 1000}, []model.Entity{dead, idle}, nil, model.Ref{})
	assert.Empty(t, res.Avoided)
}

func TestSteerAvoidsObstacle(t *testing.T) {
	c := NewController(tuning.Default().Steering)
	res := c.Steer(model.Position{}, model.Position{Y: 1000}, nil, []model.Position{{X: 30, Y: 10}}, model.Ref{})
	require.Len(t, res.Avoided, 1)
	assert.Less(t, res.Next.X, 0.0)
}
