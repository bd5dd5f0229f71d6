package params

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vanshika/fraudscore/internal/features"
)

// KV is the subset of the Redis command set the parameter source uses. Both
// *redis.Client and *redis.ClusterClient satisfy it.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisOptions describes how to reach the parameter keys.
type RedisOptions struct {
	Addrs    []string
	Password string
	DB       int
	Prefix   string
}

// NewRedisClient returns a single-node client for one address and a cluster
// client for several.
func NewRedisClient(opts RedisOptions) redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    opts.Addrs,
		Password: opts.Password,
		DB:       opts.DB,
	})
}

// RedisSource stores a parameter set under <prefix>:scaler and <prefix>:names.
type RedisSource struct {
	kv     KV
	prefix string
}

// NewRedisSource constructs a RedisSource. An empty prefix defaults to "fraudscore".
func NewRedisSource(kv KV, prefix string) *RedisSource {
	if prefix == "" {
		prefix = "fraudscore"
	}
	return &RedisSource{kv: kv, prefix: prefix}
}

func (s *RedisSource) scalerKey() string { return s.prefix + ":scaler" }
func (s *RedisSource) namesKey() string  { return s.prefix + ":names" }

// Load fetches and validates the published parameter set.
func (s *RedisSource) Load(ctx context.Context) (*Set, error) {
	var scaler map[string]features.Scale
	if err := s.getJSON(ctx, s.scalerKey(), &scaler); err != nil {
		return nil, err
	}
	var names map[string]int
	if err := s.getJSON(ctx, s.namesKey(), &names); err != nil {
		return nil, err
	}

	columns := make([]string, features.Width)
	copy(columns, features.Columns[:])
	set := &Set{Columns: columns, Scaler: scaler, Names: names}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Publish writes the set without expiry.
func (s *RedisSource) Publish(ctx context.Context, set *Set) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if err := s.setJSON(ctx, s.scalerKey(), set.Scaler); err != nil {
		return err
	}
	return s.setJSON(ctx, s.namesKey(), set.Names)
}

func (s *RedisSource) getJSON(ctx context.Context, key string, dst any) error {
	value, err := s.kv.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: redis key %s", ErrNoParameters, key)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *RedisSource) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
