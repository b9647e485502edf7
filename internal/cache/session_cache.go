package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable wraps every failure of the backing store. Callers must not
// treat it as a cache miss.
var ErrUnavailable = errors.New("session cache unavailable")

// SessionCache maps a user id to the serialized snapshot of its live
// session. It is the revocation authority for access tokens.
type SessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

// NewClient parses a redis:// URL and checks the server is reachable.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Put overwrites the snapshot for userID. A ttl of zero keeps it forever.
func (c *SessionCache) Put(ctx context.Context, userID string, snapshot []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, sessionKey(userID), snapshot, ttl).Err(); err != nil {
		return unavailable("put", err)
	}
	return nil
}

// Get returns the snapshot for userID and whether one exists.
func (c *SessionCache) Get(ctx context.Context, userID string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, unavailable("get", err)
	}
	return value, true, nil
}

// Touch moves the expiry of an existing snapshot. It reports false when no
// snapshot exists.
func (c *SessionCache) Touch(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	ok, err := c.client.Expire(ctx, sessionKey(userID), ttl).Result()
	if err != nil {
		return false, unavailable("touch", err)
	}
	return ok, nil
}

// Delete removes the snapshot. Deleting a missing key is not an error.
func (c *SessionCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

func (c *SessionCache) Health(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
