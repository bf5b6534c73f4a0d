package services

import (
	"log"
	"time"

	"cafe180/internal/redis"
)

// SubmissionGuard throttles repeat form submissions from the same phone
// number. It fails open: with no Redis configured, or on a Redis error,
// submissions pass through. Release returns a claimed slot so a visitor
// whose notification failed can retry right away.
type SubmissionGuard interface {
	Allow(phone string) bool
	Release(phone string)
}

// slotStore is the Redis surface the guard needs.
type slotStore interface {
	AcquireSubmissionSlot(key string, ttl time.Duration) (bool, error)
	ReleaseSubmissionSlot(key string) error
}

type redisGuard struct {
	store slotStore
	ttl   time.Duration
}

func NewSubmissionGuard(client *redis.Client, ttl time.Duration) SubmissionGuard {
	g := &redisGuard{ttl: ttl}
	if client != nil {
		g.store = client
	}
	return g
}

func (g *redisGuard) Allow(phone string) bool {
	key := digitsOnly(phone)
	if g.store == nil || key == "" {
		return true
	}

	ok, err := g.store.AcquireSubmissionSlot(key, g.ttl)
	if err != nil {
		log.Printf("Submission guard unavailable, allowing request: %v", err)
		return true
	}
	return ok
}

func (g *redisGuard) Release(phone string) {
	key := digitsOnly(phone)
	if g.store == nil || key == "" {
		return
	}

	if err := g.store.ReleaseSubmissionSlot(key); err != nil {
		log.Printf("Failed to release submission slot: %v", err)
	}
}
