// Package history remembers which posts were already narrated so later runs
// skip them.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"storyreel/types"
)

// BloomConfig configures the RedisBloom connection and key
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
}

// Redis is a post history kept in a RedisBloom filter. A false positive only
// makes a post look published; it never republishes one.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis connects to Redis and reserves the filter if it does not exist
func NewRedis(ctx context.Context, cfg BloomConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	h := newRedis(client, cfg)
	if err := h.reserve(pingCtx, cfg); err != nil {
		client.Close()
		return nil, err
	}
	return h, nil
}

func newRedis(client redis.UniversalClient, cfg BloomConfig) *Redis {
	return &Redis{client: client, key: cfg.Key, ttl: cfg.TTL}
}

// reserve creates the filter with BF.RESERVE when the key is absent
func (r *Redis) reserve(ctx context.Context, cfg BloomConfig) error {
	exists, err := r.client.Exists(ctx, r.key).Result()
	if err != nil {
		return fmt.Errorf("history: check key: %w", err)
	}
	if exists > 0 {
		return nil
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 100000
	}
	errorRate := cfg.ErrorRate
	if errorRate <= 0 {
		errorRate = 0.001
	}
	if err := r.client.Do(ctx, "BF.RESERVE", r.key, fmt.Sprintf("%f", errorRate), capacity).Err(); err != nil {
		return fmt.Errorf("history: BF.RESERVE %s: %w", r.key, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (r *Redis) Close() error {
	return r.client.Close()
}

// Seen reports whether the post was remembered before
func (r *Redis) Seen(ctx context.Context, p types.Post) (bool, error) {
	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, Hash(p)).Result()
	if err != nil {
		return false, fmt.Errorf("history: BF.EXISTS: %w", err)
	}

	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case bool:
		return v, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Remember adds the post to the filter and slides the key's TTL forward
func (r *Redis) Remember(ctx context.Context, p types.Post) error {
	if err := r.client.Do(ctx, "BF.ADD", r.key, Hash(p)).Err(); err != nil {
		return fmt.Errorf("history: BF.ADD: %w", err)
	}
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return fmt.Errorf("history: expire: %w", err)
		}
	}
	return nil
}

// Hash returns sha256 of the normalized title and text
func Hash(p types.Post) string {
	h := sha256.Sum256([]byte(normalize(p.Title) + "|" + normalize(p.Text)))
	return hex.EncodeToString(h[:])
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Noop never remembers anything; it is used when Redis is not configured
type Noop struct{}

func (Noop) Seen(context.Context, types.Post) (bool, error) { return false, nil }
func (Noop) Remember(context.Context, types.Post) error { return nil }
