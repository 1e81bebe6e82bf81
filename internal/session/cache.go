package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Profile is the display data remembered for a user between sessions.
type Profile struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// ProfileCache is a key-value store of profiles keyed by user id.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (Profile, bool, error)
	Put(ctx context.Context, userID string, p Profile) error
}

// MemoryCache keeps profiles in process memory.
type MemoryCache struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{profiles: make(map[string]Profile)}
}

func (m *MemoryCache) Get(_ context.Context, userID string) (Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	return p, ok, nil
}

func (m *MemoryCache) Put(_ context.Context, userID string, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
	return nil
}

// RedisCache stores each profile as a hash under "profile:<userID>".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func profileKey(userID string) string {
	return "profile:" + userID
}

func (r *RedisCache) Get(ctx context.Context, userID string) (Profile, bool, error) {
	fields, err := r.client.HGetAll(ctx, profileKey(userID)).Result()
	if err != nil {
		return Profile{}, false, err
	}
	if len(fields) == 0 {
		return Profile{}, false, nil
	}
	return Profile{Email: fields["email"], DisplayName: fields["displayName"]}, true, nil
}

func (r *RedisCache) Put(ctx context.Context, userID string, p Profile) error {
	key := profileKey(userID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "email", p.Email, "displayName", p.DisplayName)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	return err
}
