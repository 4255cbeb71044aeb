// Package session hands each browser session an independent dataset copy.
//
// The dashboard has no concurrency-safe mutation discipline on the dataset
// itself, so cross-session sharing is off the table: every session works on
// its own clone of the startup data and appends stay local to it.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"denguedash/internal/core"
)

type entry struct {
	dataset  *core.Dataset
	lastSeen time.Time
}

type Manager struct {
	mu           sync.Mutex
	base         *core.Dataset
	sessions     map[string]*entry
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewManager creates a manager cloning from base, expiring idle sessions
// after ttl.
func NewManager(base *core.Dataset, ttl time.Duration) *Manager {
	m := &Manager{
		base:        base,
		sessions:    make(map[string]*entry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

// Get returns the dataset for id, creating a fresh clone when the id is
// unknown or expired. The bool reports whether the session already existed.
// Callers must only pass ids minted by NewID; client-supplied values go
// through Lookup first.
func (m *Manager) Get(id string) (*core.Dataset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if e, ok := m.sessions[id]; ok && now.Sub(e.lastSeen) < m.ttl {
		e.lastSeen = now
		return e.dataset, true
	}
	ds := m.base.Clone()
	m.sessions[id] = &entry{dataset: ds, lastSeen: now}
	return ds, false
}

// Lookup returns the dataset for id only if the session already exists and
// has not expired. Unknown ids never create an entry, so forged cookie
// values cannot fill the map.
func (m *Manager) Lookup(id string) (*core.Dataset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if e, ok := m.sessions[id]; ok && now.Sub(e.lastSeen) < m.ttl {
		e.lastSeen = now
		return e.dataset, true
	}
	return nil, false
}

// NewID generates a fresh session identifier.
func NewID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(bytes)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// startCleanup runs periodic cleanup to drop expired sessions.
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.dropExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) dropExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (m *Manager) Stop() {
	m.shutdownOnce.Do(func() {
		close(m.stopCleanup)
	})
}
