// Package session keeps the live interview engines of a server process and
// evicts the ones nobody talks to any more.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/engine"
	"github.com/dmitrijs2005/talentscout/internal/logging"
)

// Factory builds the engine for a new session id.
type Factory func(id string) *engine.Engine

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Engine
	factory  Factory
	idle     time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewManager(f Factory, idle time.Duration, l logging.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*engine.Engine),
		factory:  f,
		idle:     idle,
		logger:   l.With("module", "session"),
		now:      time.Now,
	}
}

// Create registers a new session under a random id.
func (m *Manager) Create(ctx context.Context) (*engine.Engine, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	e := m.factory(id.String())

	m.mu.Lock()
	m.sessions[e.ID()] = e
	n := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info(ctx, "session created", "session_id", e.ID(), "active", n)
	return e, nil
}

func (m *Manager) Get(id string) (*engine.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops every session idle for longer than the idle timeout. Open
// sessions are closed first, which persists them. It returns the number of
// sessions removed. Engines are inspected and closed outside the manager
// lock, so a busy session never blocks lookups of the others.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.idle)

	m.mu.RLock()
	candidates := make([]*engine.Engine, 0, len(m.sessions))
	for _, e := range m.sessions {
		candidates = append(candidates, e)
	}
	m.mu.RUnlock()

	var idle []*engine.Engine
	for _, e := range candidates {
		if e.LastActive().Before(cutoff) {
			idle = append(idle, e)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	m.mu.Lock()
	stale := idle[:0]
	for _, e := range idle {
		// a turn may have arrived since the snapshot
		if m.sessions[e.ID()] == e && e.LastActive().Before(cutoff) {
			delete(m.sessions, e.ID())
			stale = append(stale, e)
		}
	}
	m.mu.Unlock()

	for _, e := range stale {
		e.Close(ctx)
		m.logger.Info(ctx, "session evicted", "session_id", e.ID())
	}
	return len(stale)
}

// CloseAll closes and drops every session. Used on shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*engine.Engine, 0, len(m.sessions))
	for id, e := range m.sessions {
		all = append(all, e)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, e := range all {
		e.Close(ctx)
	}
	if len(all) > 0 {
		m.logger.Info(ctx, "sessions closed on shutdown", "count", len(all))
	}
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ctx); n > 0 {
				m.logger.Debug(ctx, "sweep finished", "evicted", n)
			}
		}
	}
}
