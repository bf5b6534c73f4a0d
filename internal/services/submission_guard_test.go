package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubSlotStore struct {
	acquireOK    bool
	acquireErr   error
	releaseErr   error
	acquiredKeys []string
	releasedKeys []string
}

func (s *stubSlotStore) AcquireSubmissionSlot(key string, _ time.Duration) (bool, error) {
	s.acquiredKeys = append(s.acquiredKeys, key)
	return s.acquireOK, s.acquireErr
}

func (s *stubSlotStore) ReleaseSubmissionSlot(key string) error {
	s.releasedKeys = append(s.releasedKeys, key)
	return s.releaseErr
}

func TestSubmissionGuard_FailsOpenWithoutRedis(t *testing.T) {
	guard := NewSubmissionGuard(nil, 30*time.Second)

	assert.True(t, guard.Allow("+375291234567"))
	assert.True(t, guard.Allow("+375291234567"), "no Redis means no throttling")
	assert.True(t, guard.Allow(""), "empty phone is never throttled")
	guard.Release("+375291234567") // no-op, must not panic
}

func TestSubmissionGuard_FailsOpenOnStoreError(t *testing.T) {
	store := &stubSlotStore{acquireErr: errors.New("redis down")}
	guard := &redisGuard{store: store, ttl: 30 * time.Second}

	assert.True(t, guard.Allow("+375291234567"), "store errors must not block orders")
	assert.Equal(t, []string{"375291234567"}, store.acquiredKeys)
}

func TestSubmissionGuard_DeniesHeldSlot(t *testing.T) {
	store := &stubSlotStore{acquireOK: false}
	guard := &redisGuard{store: store, ttl: 30 * time.Second}

	assert.False(t, guard.Allow("+375291234567"))
}

func TestSubmissionGuard_Release(t *testing.T) {
	store := &stubSlotStore{acquireOK: true}
	guard := &redisGuard{store: store, ttl: 30 * time.Second}

	guard.Release("+375 29 123-45-67")
	assert.Equal(t, []string{"375291234567"}, store.releasedKeys, "release keys on phone digits")

	guard.Release("")
	assert.Len(t, store.releasedKeys, 1, "empty phone is never released")

	store.releaseErr = errors.New("redis down")
	guard.Release("+375291234567") // logged, not propagated
	assert.Len(t, store.releasedKeys, 2)
}
