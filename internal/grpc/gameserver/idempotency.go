package gameserver

import (
	"sync"
	"time"

	sweeperv1 "github.com/mitchelldurbincs/minesweeper/pkg/api/minesweeper/v1"
)

const (
	idempotencyTTL     = 10 * time.Minute
	idempotencyMaxKeys = 1000
)

// idempotencyKey scopes a client key to the command it was sent with, so a
// reveal and a toggle sharing a key do not collide
type idempotencyKey struct {
	Command        string
	IdempotencyKey string
}

type idempotencyEntry struct {
	response  *sweeperv1.MoveResponse
	createdAt time.Time
}

// IdempotencyManager caches move responses by client supplied key
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

// NewIdempotencyManager creates a new idempotency manager
func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		ttl:   idempotencyTTL,
		now:   time.Now,
	}
}

// Check returns the cached response for key, or nil
func (im *IdempotencyManager) Check(command, key string) *sweeperv1.MoveResponse {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Command: command, IdempotencyKey: key}]
	if !exists || im.now().Sub(entry.createdAt) > im.ttl {
		return nil
	}
	return entry.response
}

// Store caches resp under key. Empty keys are ignored.
func (im *IdempotencyManager) Store(command, key string, resp *sweeperv1.MoveResponse) {
	if key == "" {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Command: command, IdempotencyKey: key}] = &idempotencyEntry{
		response:  resp,
		createdAt: im.now(),
	}

	if len(im.cache) > idempotencyMaxKeys {
		im.cleanupOldEntriesLocked()
	}
}

// Reset drops every cached response. Called when a new round starts since
// old responses describe a board that no longer exists.
func (im *IdempotencyManager) Reset() {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.cache = make(map[idempotencyKey]*idempotencyEntry)
}

// Len returns the number of cached responses
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked removes expired entries
// Must be called with mu held
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-im.ttl)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
