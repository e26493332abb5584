package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const (
	candidateTTL = 30 * time.Second
	versionKey   = "browse:ver"
)

// CandidateCache caches eligible browse candidate sets in Redis under a
// version-prefixed key. Invalidation bumps the version; stale entries fall
// out via TTL. Browse only needs a consistent snapshot, not linearizability
// with concurrent profile edits, so a short TTL is behavior-preserving.
type CandidateCache struct {
	client *redis.Client
}

// NewCandidateCache creates a CandidateCache wrapping the given Redis client.
func NewCandidateCache(client *redis.Client) *CandidateCache {
	return &CandidateCache{client: client}
}

// Get returns the cached candidate set for the filter, or (nil, nil) on miss.
func (c *CandidateCache) Get(ctx context.Context, excludeID string, filter ports.CandidateFilter) ([]*domain.User, error) {
	key, err := c.key(ctx, excludeID, filter)
	if err != nil {
		return nil, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("candidate cache get: %w", err)
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("candidate cache decode: %w", err)
	}
	return users, nil
}

// Set stores a candidate set under the current cache version.
func (c *CandidateCache) Set(ctx context.Context, excludeID string, filter ports.CandidateFilter, users []*domain.User) error {
	key, err := c.key(ctx, excludeID, filter)
	if err != nil {
		return err
	}

	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("candidate cache encode: %w", err)
	}
	return c.client.Set(ctx, key, data, candidateTTL).Err()
}

// Invalidate bumps the cache version so every cached set goes stale at once.
func (c *CandidateCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

// key builds a canonical version-prefixed key for the query shape.
func (c *CandidateCache) key(ctx context.Context, excludeID string, filter ports.CandidateFilter) (string, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("candidate cache version: %w", err)
	}

	slots := make([]string, 0, len(filter.Slots))
	for _, s := range filter.Slots {
		slots = append(slots, domain.NormalizeSkill(s))
	}
	sort.Strings(slots)

	h := fnv.New64a()
	_, _ = h.Write([]byte(excludeID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(filter.Location)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.Join(slots, ",")))

	return fmt.Sprintf("browse:%d:%x", ver, h.Sum64()), nil
}
