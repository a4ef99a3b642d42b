package publisher

import (
	"context"
	"errors"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

var ErrNoSnapshot = errors.New("no snapshot available")

// Snapshot stores the latest matched notifications as a JSON document under a
// fixed key that expires unless refreshed.
type Snapshot struct {
	Cache *cache.Cache[string]

	key string
	ttl time.Duration
}

func NewSnapshot(client *redis.Client, key string, ttl time.Duration) *Snapshot {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &Snapshot{
		Cache: cache.New[string](redisStore),
		key:   key,
		ttl:   ttl,
	}
}

func (s *Snapshot) Key() string {
	return s.key
}

func (s *Snapshot) Store(ctx context.Context, content []byte) error {
	return s.Cache.Set(ctx, s.key, string(content), store.WithExpiration(s.ttl))
}

// Load returns ErrNoSnapshot when nothing was stored or the snapshot expired.
func (s *Snapshot) Load(ctx context.Context) ([]byte, error) {
	value, err := s.Cache.Get(ctx, s.key)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	return []byte(value), nil
}

func isNotFound(err error) bool {
	var notFound *store.NotFound
	return errors.As(err, &notFound) || errors.Is(err, redis.Nil)
}
