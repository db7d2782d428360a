package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hospital/internal/access/models"
)

const (
	purgeScanCount = 100
	genPrefix      = "hospital:overrides-gen:"
	epochKey       = genPrefix + "epoch"
)

// setIfGeneration writes KEYS[1] only while "<epoch>:<key generation>" still
// equals ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfGeneration = redis.NewScript(`
local gen = (redis.call('GET', KEYS[3]) or '0') .. ':' .. (redis.call('GET', KEYS[2]) or '0')
if gen ~= ARGV[1] then
	return 0
end
if ARGV[3] == '0' then
	redis.call('SET', KEYS[1], ARGV[2])
else
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

// Redis shares entries and their generations between instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) ([]*models.Override, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var overrides []*models.Override
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, false, fmt.Errorf("decode cached overrides: %w", err)
	}
	return overrides, true, nil
}

func (r *Redis) Generation(ctx context.Context, key string) (string, error) {
	vals, err := r.client.MGet(ctx, epochKey, genPrefix+key).Result()
	if err != nil {
		return "", fmt.Errorf("read cache generation: %w", err)
	}
	return counter(vals[0]) + ":" + counter(vals[1]), nil
}

func counter(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (r *Redis) SetIfGeneration(ctx context.Context, key, gen string, overrides []*models.Override) (bool, error) {
	if overrides == nil {
		overrides = []*models.Override{}
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return false, fmt.Errorf("encode overrides: %w", err)
	}
	stored, err := setIfGeneration.Run(ctx, r.client,
		[]string{key, genPrefix + key, epochKey},
		gen, raw, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("conditional cache write: %w", err)
	}
	return stored == 1, nil
}

// Delete advances each key's generation before dropping the entry.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, genPrefix+k)
		}
		p.Del(ctx, keys...)
		return nil
	})
	return err
}

// Purge starts a new epoch, then deletes every entry under the override
// prefix. Generation counters live under their own prefix and survive.
func (r *Redis) Purge(ctx context.Context) error {
	if err := r.client.Incr(ctx, epochKey).Err(); err != nil {
		return fmt.Errorf("advance cache epoch: %w", err)
	}
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+"*", purgeScanCount).Result()
		if err != nil {
			return fmt.Errorf("scan override keys: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete override keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *Redis) Name() string { return "redis" }
