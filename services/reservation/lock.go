package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker serializes reservation admission per (slot, date) so that the
// conflict check and the write behind it run under mutual exclusion. Without
// it two concurrent reserves for the same slot and date can both pass the
// conflict check before either commits.
type Locker interface {
	// Acquire blocks until the (slot, date) lock is held and returns a
	// release function. Release must be called on every exit path.
	Acquire(slot int, date string) (func(), error)
}

// lockStore is the slice of redis the admission lease needs.
// Satisfied by *redis.Client.
type lockStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// releaseScript deletes the lease only while the caller still owns it. A
// holder whose lease expired mid-critical-section must not delete a lease
// acquired by someone else in the meantime.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// RedisLocker implements Locker with a Redis SETNX lease, so admission stays
// serialized even when multiple API instances share the store. Each lease
// carries a per-acquire token and release is compare-and-delete on it.
type RedisLocker struct {
	Client lockStore
	// TTL bounds how long a crashed holder can block a slot.
	TTL time.Duration
	// WaitTimeout bounds how long Acquire spins before giving up.
	WaitTimeout time.Duration
}

// NewRedisLocker creates a RedisLocker with sane lease settings.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		Client:      client,
		TTL:         5 * time.Second,
		WaitTimeout: 3 * time.Second,
	}
}

// Acquire takes the admission lease for (slot, date).
func (l *RedisLocker) Acquire(slot int, date string) (func(), error) {
	key := fmt.Sprintf("admission:%d:%s", slot, date)
	token := uuid.New().String()
	ctx, cancel := context.WithTimeout(context.Background(), l.WaitTimeout)
	defer cancel()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire admission lock for %s: %w", key, err)
		}
		if ok {
			return func() {
				relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer relCancel()
				l.Client.Eval(relCtx, releaseScript, []string{key}, token)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for admission lock %s", key)
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// LocalLocker implements Locker with in-process mutexes. Suitable for a
// single-instance deployment and for tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker creates an in-process Locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

// Acquire takes the in-process lock for (slot, date).
func (l *LocalLocker) Acquire(slot int, date string) (func(), error) {
	key := fmt.Sprintf("%d:%s", slot, date)

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
