package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"blackjack-platform/backend/internal/redis"
)

var (
	// ErrLockTimeout occurs when lock acquisition times out.
	ErrLockTimeout = errors.New("timeout acquiring lock")
	// ErrLockNotHeld occurs when releasing a lock this instance no longer holds.
	ErrLockNotHeld = errors.New("lock not held by this instance")
)

const (
	// DefaultLockTTL is the lock lease. A holder that crashes stops
	// renewing and the key expires, so a stuck session recovers on its own.
	DefaultLockTTL = 30 * time.Second
	// DefaultAcquireTimeout bounds how long a caller waits for a contended lock.
	DefaultAcquireTimeout = 5 * time.Second

	initialBackoff = 10 * time.Millisecond
	maxBackoff     = 250 * time.Millisecond
)

// releaseScript deletes the lock only if this instance still owns it, so an
// expired holder cannot delete a successor's lock.
var releaseScript = goredis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Manager hands out per-key distributed locks backed by Redis SET NX EX.
type Manager struct {
	rdb        *redis.Client
	instanceID string
}

// Lock is one held lock. Release it on every exit path.
type Lock struct {
	key        string
	value      string
	manager    *Manager
	acquiredAt time.Time
}

func NewManager(rdb *redis.Client) *Manager {
	return &Manager{
		rdb:        rdb,
		instanceID: uuid.New().String(),
	}
}

// Acquire blocks until the lock for key is obtained or ctx expires. Callers
// that pass a context without a deadline get DefaultAcquireTimeout. Waiting
// uses capped exponential backoff; fairness is whatever Redis gives us.
func (m *Manager) Acquire(ctx context.Context, key string) (*Lock, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultAcquireTimeout)
		defer cancel()
	}

	lockKey := "lock:" + key
	lockValue := fmt.Sprintf("%s:%s", m.instanceID, uuid.New().String())

	backoff := initialBackoff
	for {
		acquired, err := m.rdb.SetNX(ctx, lockKey, lockValue, DefaultLockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if acquired {
			return &Lock{
				key:        lockKey,
				value:      lockValue,
				manager:    m,
				acquiredAt: time.Now(),
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

// Release frees the lock if this instance still holds it.
func (l *Lock) Release(ctx context.Context) error {
	if l == nil {
		return ErrLockNotHeld
	}
	result, err := releaseScript.Run(ctx, l.manager.rdb, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	if result == int64(0) {
		return ErrLockNotHeld
	}
	return nil
}

// Held reports how long the lock has been held, for diagnostics.
func (l *Lock) Held() time.Duration {
	return time.Since(l.acquiredAt)
}
