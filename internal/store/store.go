package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	goredis "github.com/redis/go-redis/v9"

	"blackjack-platform/backend/internal/blackjack"
	"blackjack-platform/backend/internal/locks"
	"blackjack-platform/backend/internal/redis"
)

// One serialized session per table lives under stateKey; the lock manager
// guards it under a matching lock key.
const (
	stateKeyFormat = "GAME:%s:GAME"
	lockKeyFormat  = "GAME:%s"
)

// Store persists one SessionState per session id in Redis and serializes all
// mutators through a per-session distributed lock. Unrelated sessions
// proceed fully in parallel.
type Store struct {
	rdb   *redis.Client
	locks *locks.Manager
	rules blackjack.Rules
}

func New(rdb *redis.Client, lockManager *locks.Manager, rules blackjack.Rules) *Store {
	return &Store{rdb: rdb, locks: lockManager, rules: rules}
}

// WithLockedSession runs fn against the session for url under its lock,
// covering the whole read-modify-write cycle. A missing session is created
// fresh, so the first join materializes the table. The mutated state is
// re-serialized and stored before the lock is released, even when fn fails;
// fn's error still surfaces to the caller. A session left with no occupied
// seats is deleted instead of rewritten.
func (s *Store) WithLockedSession(ctx context.Context, url string, fn func(*blackjack.Session) error) error {
	lock, err := s.locks.Acquire(ctx, fmt.Sprintf(lockKeyFormat, url))
	if err != nil {
		return fmt.Errorf("session %s: %w", url, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Printf("[STORE] Failed to release lock for session %s: %v", url, err)
		}
	}()

	session, err := s.load(ctx, url)
	if err != nil {
		return err
	}
	if session == nil {
		session = blackjack.NewSession(url, "", s.rules)
	}

	fnErr := fn(session)

	if session.OccupiedCount() == 0 {
		if err := s.rdb.Del(ctx, fmt.Sprintf(stateKeyFormat, url)).Err(); err != nil {
			return fmt.Errorf("delete session %s: %w", url, err)
		}
		return fnErr
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("serialize session %s: %w", url, err)
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(stateKeyFormat, url), data, 0).Err(); err != nil {
		return fmt.Errorf("store session %s: %w", url, err)
	}
	return fnErr
}

// Snapshot reads the session under its lock and returns the client-facing
// projection, or nil when the session does not exist. Taking the lock for
// the read means a concurrent writer's half-applied state is never observed.
func (s *Store) Snapshot(ctx context.Context, url string) (*blackjack.Snapshot, error) {
	lock, err := s.locks.Acquire(ctx, fmt.Sprintf(lockKeyFormat, url))
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", url, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Printf("[STORE] Failed to release lock for session %s: %v", url, err)
		}
	}()

	session, err := s.load(ctx, url)
	if err != nil || session == nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// Delete removes the stored session under its lock.
func (s *Store) Delete(ctx context.Context, url string) error {
	lock, err := s.locks.Acquire(ctx, fmt.Sprintf(lockKeyFormat, url))
	if err != nil {
		return fmt.Errorf("session %s: %w", url, err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			log.Printf("[STORE] Failed to release lock for session %s: %v", url, err)
		}
	}()

	return s.rdb.Del(ctx, fmt.Sprintf(stateKeyFormat, url)).Err()
}

// load fetches and deserializes a session. Callers must hold the lock. A
// record that no longer deserializes is unrecoverable: it is dropped so the
// session can be re-created, rather than letting a malformed state circulate.
func (s *Store) load(ctx context.Context, url string) (*blackjack.Session, error) {
	key := fmt.Sprintf(stateKeyFormat, url)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", url, err)
	}

	var session blackjack.Session
	if err := json.Unmarshal(data, &session); err != nil {
		log.Printf("[STORE] Dropping corrupt session %s: %v", url, err)
		if delErr := s.rdb.Del(ctx, key).Err(); delErr != nil {
			return nil, fmt.Errorf("drop corrupt session %s: %w", url, delErr)
		}
		return nil, nil
	}
	return &session, nil
}
