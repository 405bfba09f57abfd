package sessions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bistrohub/ordering/internal/wizard"
	"github.com/bistrohub/ordering/pkg/logger"
)

// Factory builds the controller for a session the registry has not seen yet.
type Factory func(sessionID string) (*wizard.Controller, error)

type entry struct {
	mu   sync.Mutex
	ctrl *wizard.Controller

	// guarded by Registry.mu
	lastUsed time.Time
}

// Registry keeps one wizard controller per browser session and serializes
// calls against it.
type Registry struct {
	factory Factory
	logg    *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(factory Factory, logg *logger.Logger) (*Registry, error) {
	if factory == nil {
		return nil, fmt.Errorf("controller factory required")
	}
	return &Registry{
		factory:  factory,
		logg:     logg,
		now:      time.Now,
		sessions: map[string]*entry{},
	}, nil
}

// entry returns the session's entry, creating it on first use, and marks it
// used so a concurrent Prune keeps it.
func (r *Registry) entry(sessionID string) (*entry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sessionID]; ok {
		e.lastUsed = r.now()
		return e, nil
	}
	ctrl, err := r.factory(sessionID)
	if err != nil {
		return nil, fmt.Errorf("create wizard for session: %w", err)
	}
	e := &entry{ctrl: ctrl, lastUsed: r.now()}
	r.sessions[sessionID] = e
	return e, nil
}

func (r *Registry) registered(sessionID string, e *entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID] == e
}

// With runs fn while holding the session's lock, creating the controller on
// first use.
func (r *Registry) With(sessionID string, fn func(*wizard.Controller) error) error {
	for {
		e, err := r.entry(sessionID)
		if err != nil {
			return err
		}
		e.mu.Lock()
		if r.registered(sessionID, e) {
			defer e.mu.Unlock()
			return fn(e.ctrl)
		}
		// Pruned between lookup and lock.
		e.mu.Unlock()
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune drops controllers idle for longer than idle. Their carts stay in
// storage and are offered for resumption on the next start.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// RunJanitor prunes idle sessions every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Prune(idle); n > 0 && r.logg != nil {
				r.logg.Debug(r.logg.WithField(ctx, "pruned", n), "pruned idle wizard sessions")
			}
		}
	}
}
