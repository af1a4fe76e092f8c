// Package session keeps one cart per HTTP client. Each session's cart is
// loaded lazily from storage under its own key prefix and serialized behind
// a per-session mutex, since cart.Store itself holds no locks.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LautaroYamil/trabajo-practico-2/internal/cart"
	"github.com/LautaroYamil/trabajo-practico-2/internal/notify"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// OrdersFunc returns the order history of session id. kv is already
// namespaced to the session.
type OrdersFunc func(id string, kv storage.Store) repository.OrderRepository

// Session is one client's cart plus the recorder capturing what the last
// operation reported.
type Session struct {
	ID string

	mu       sync.Mutex
	store    *cart.Store
	recorder *notify.Recorder
	lastUsed time.Time
}

// Op is run by Registry.Do with exclusive access to a session's cart.
type Op func(store *cart.Store, rec *notify.Recorder) error

// Registry owns every live session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	kv       storage.Store
	orders   OrdersFunc
	listener notify.Listener
	logger   *slog.Logger
	opts     []cart.Option
	now      func() time.Time
}

// NewRegistry creates a registry. listener receives every session's
// callbacks in addition to the per-session recorder.
func NewRegistry(kv storage.Store, orders OrdersFunc, listener notify.Listener, log *slog.Logger, opts ...cart.Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		kv:       kv,
		orders:   orders,
		listener: listener,
		logger:   log,
		opts:     opts,
		now:      time.Now,
	}
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a well-formed session ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// KeyPrefix is the storage namespace of a session.
func KeyPrefix(id string) string {
	return fmt.Sprintf("session:%s:", id)
}

func (r *Registry) get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	kv := storage.WithPrefix(r.kv, KeyPrefix(id))
	rec := &notify.Recorder{}
	s := &Session{
		ID:       id,
		recorder: rec,
		lastUsed: r.now(),
	}
	s.store = cart.New(ctx, kv, r.orders(id, kv), notify.Fanout(rec, r.listener), r.logger, r.opts...)
	r.sessions[id] = s

	logger.WithContext(ctx, r.logger).DebugContext(ctx, "session opened", slog.Int("items", s.store.ItemCount()))
	return s
}

// Do runs op against the session's cart while holding the session lock.
// The recorder is reset first, so op sees only what its own calls emitted.
func (r *Registry) Do(ctx context.Context, id string, op Op) error {
	ctx = logger.WithSessionID(ctx, id)
	s := r.acquire(ctx, id)
	defer s.mu.Unlock()

	s.lastUsed = r.now()
	s.recorder.Reset()
	return op(s.store, s.recorder)
}

// acquire returns the live session for id with its lock held. A session
// evicted between lookup and locking is dropped and looked up again, so op
// never runs against a cart the registry no longer owns.
func (r *Registry) acquire(ctx context.Context, id string) *Session {
	for {
		s := r.get(ctx, id)
		s.mu.Lock()

		r.mu.Lock()
		live := r.sessions[id] == s
		r.mu.Unlock()
		if live {
			return s
		}
		s.mu.Unlock()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle for longer than maxIdle. Their carts stay in
// storage and are reloaded on the next request.
func (r *Registry) Evict(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunEvictor calls Evict every interval until ctx is done.
func (r *Registry) RunEvictor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(maxIdle); n > 0 {
				r.logger.Debug("idle sessions evicted", slog.Int("count", n))
			}
		}
	}
}
