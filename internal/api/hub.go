// Package api serves the sandbox over HTTP. A Hub owns the world and a
// clock goroutine; every handler goes through the hub's lock.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/storage"
)

// Hub serialises access to one world shared by all requests.
type Hub struct {
	mu       sync.Mutex
	session  *editor.Session
	store    *storage.Store
	vp       physics.Viewport
	tickRate int
	logger   log.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewHub wraps w. tickRate is how many ticks per second Start runs while
// the clock is not paused. store may be nil, which disables the saves
// routes.
func NewHub(w *physics.World, vp physics.Viewport, store *storage.Store, tickRate int, logger log.Logger) *Hub {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if tickRate <= 0 {
		tickRate = 30
	}
	return &Hub{
		session:  editor.NewSession(w),
		store:    store,
		vp:       vp,
		tickRate: tickRate,
		logger:   log.With(logger, "component", "api"),
	}
}

// Do runs fn with the lock held.
func (h *Hub) Do(fn func(s *editor.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.session)
}

// Start runs the clock until ctx is done or Stop is called.
func (h *Hub) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	if h.cancel != nil {
		h.mu.Unlock()
		cancel()
		return
	}
	h.cancel = cancel
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.run(ctx)
	}()
	level.Info(h.logger).Log("msg", "clock started", "tick_rate", h.tickRate)
}

func (h *Hub) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.Lock()
			h.session.Step()
			valid := h.session.World.Valid()
			if !valid {
				h.session.Time.Pause()
			}
			h.mu.Unlock()
			if !valid {
				level.Warn(h.logger).Log("msg", "world went non-finite, clock paused")
			}
		}
	}
}

// Stop halts the clock and waits for it to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	h.wg.Wait()
	level.Info(h.logger).Log("msg", "clock stopped")
}

// World returns a deep copy of the current world.
func (h *Hub) World() *physics.World {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.World.Clone()
}
