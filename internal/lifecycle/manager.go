// Package lifecycle owns heap-allocated aggregate records.
//
// Every record is reached through a Handle. A handle is released exactly
// once; releasing it again, releasing a handle the manager never issued, or
// reading through a released handle is a LifecycleViolation and is never a
// silent no-op. Scope ties a set of allocations to a function call and
// releases whatever is still live on every exit path, panics included.
package lifecycle

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
)

// Handle is an opaque reference to a heap-allocated aggregate.
// The zero Handle is never issued.
type Handle uint64

type entry struct {
	point    catalog.Point
	released bool
}

// Stats summarizes the manager's allocation history.
type Stats struct {
	Allocated int `json:"allocated"`
	Released  int `json:"released"`
	Live      int `json:"live"`
}

// Manager tracks live and released handles.
//
// Released handles are kept as tombstones so that a second release can be
// told apart from a release of a handle that was never issued.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Manager struct {
	mu      sync.Mutex
	seq     uint64
	entries map[Handle]*entry
	stats   Stats
	logger  *slog.Logger
}

// NewManager creates an empty manager. A nil logger discards output.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		entries: make(map[Handle]*entry),
		logger:  logger,
	}
}

// Allocate stores a copy of p on the managed heap and returns its handle.
// Handles are issued in increasing order starting at 1.
func (m *Manager) Allocate(p catalog.Point) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	h := Handle(m.seq)
	m.entries[h] = &entry{point: p}
	m.stats.Allocated++
	m.stats.Live++

	m.logger.Debug("allocated", "handle", uint64(h), "name", string(p.Name))
	return h
}

// Get returns the record behind a live handle.
func (m *Manager) Get(h Handle) (catalog.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.live(h, "read")
	if err != nil {
		return catalog.Point{}, err
	}
	return e.point, nil
}

// Set overwrites the record behind a live handle.
func (m *Manager) Set(h Handle, p catalog.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.live(h, "write")
	if err != nil {
		return err
	}
	e.point = p
	return nil
}

// Release frees a live handle. Releasing an unknown or already released
// handle returns a LifecycleViolation and changes nothing.
func (m *Manager) Release(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.live(h, "release")
	if err != nil {
		m.logger.Debug("release rejected", "handle", uint64(h), "error", err)
		return err
	}
	e.released = true
	e.point = catalog.Point{}
	m.stats.Released++
	m.stats.Live--

	m.logger.Debug("released", "handle", uint64(h))
	return nil
}

// IsLive reports whether h was issued and not yet released.
func (m *Manager) IsLive(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[h]
	return ok && !e.released
}

// Leaks returns the handles that are still live, in issue order.
func (m *Manager) Leaks() []Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Handle
	for h, e := range m.entries {
		if !e.released {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats returns a snapshot of the allocation counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// live must be called with m.mu held.
func (m *Manager) live(h Handle, op string) (*entry, error) {
	e, ok := m.entries[h]
	if !ok {
		return nil, defect.NewLifecycle(uint64(h), op+" of unknown handle")
	}
	if e.released {
		if op == "release" {
			return nil, defect.NewLifecycle(uint64(h), "handle already released")
		}
		return nil, defect.NewLifecycle(uint64(h), op+" after release")
	}
	return e, nil
}

// Scope runs fn with a Scope bound to the manager. Every handle allocated
// through the scope and still live when fn returns is released, in reverse
// allocation order, whether fn returns normally, returns an error, or panics.
// Release failures are joined with fn's error.
func (m *Manager) Scope(fn func(s *Scope) error) (err error) {
	s := &Scope{m: m}
	defer func() {
		if cerr := s.close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s)
}

// Scope owns the handles allocated through it for the duration of a
// Manager.Scope call.
type Scope struct {
	m     *Manager
	owned []Handle
}

// Allocate allocates p and registers the handle with the scope.
func (s *Scope) Allocate(p catalog.Point) Handle {
	h := s.m.Allocate(p)
	s.owned = append(s.owned, h)
	return h
}

// Release releases h before the scope ends. The scope will not release it again.
func (s *Scope) Release(h Handle) error {
	return s.m.Release(h)
}

// Get reads through a handle.
func (s *Scope) Get(h Handle) (catalog.Point, error) {
	return s.m.Get(h)
}

// Owned returns the handles allocated through the scope, in order.
func (s *Scope) Owned() []Handle {
	out := make([]Handle, len(s.owned))
	copy(out, s.owned)
	return out
}

// Manager returns the manager the scope allocates from.
func (s *Scope) Manager() *Manager {
	return s.m
}

func (s *Scope) close() error {
	var errs []error
	for i := len(s.owned) - 1; i >= 0; i-- {
		h := s.owned[i]
		if !s.m.IsLive(h) {
			continue
		}
		if err := s.m.Release(h); err != nil {
			errs = append(errs, err)
		}
	}
	s.owned = nil
	return errors.Join(errs...)
}
