package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so stores don't import go-redis directly.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by reads of missing keys.
const Nil = redis.Nil
