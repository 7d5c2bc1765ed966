package container

import (
	"fmt"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
	"github.com/roach88/typematrix/internal/lifecycle"
)

// slot is the stored form of a pointer: a pool name and an index.
type slot struct {
	pool  string
	index int
}

func (b *Builder) encodeSlot(c catalog.Category) encoder[slot] {
	return func(v catalog.Value) (slot, error) {
		r, ok := v.(catalog.Ref)
		if !ok {
			return slot{}, kindError(c, v)
		}
		pool, ok := b.pools[r.Pool]
		if !ok {
			return slot{}, defect.NewConstruction(c.String(), fmt.Sprintf("reference into unknown pool %q", r.Pool))
		}
		if r.Slot < 0 || r.Slot >= pool.Len() {
			return slot{}, defect.NewBounds(r.Pool, r.Slot, pool.Len())
		}
		return slot{pool: r.Pool, index: r.Slot}, nil
	}
}

// decodeSlot dereferences through the pool, so a Load reports the value the
// slot currently refers to.
func (b *Builder) decodeSlot(s slot) (catalog.Value, error) {
	pool, ok := b.pools[s.pool]
	if !ok {
		return nil, fmt.Errorf("dangling reference into pool %q", s.pool)
	}
	target, err := pool.Load(s.index)
	if err != nil {
		return nil, fmt.Errorf("dereference %s[%d]: %w", s.pool, s.index, err)
	}
	return catalog.Ref{Pool: s.pool, Slot: s.index, Target: target}, nil
}

// heapContainer stores lifecycle handles. Loads read through the scope and
// fail with a LifecycleViolation once a handle is released.
type heapContainer struct {
	category catalog.Category
	arr      *Array[lifecycle.Handle]
	heap     *lifecycle.Scope
}

func buildHeap(c catalog.Category, samples []catalog.Value, heap *lifecycle.Scope) (Container, error) {
	hc := &heapContainer{
		category: c,
		arr:      NewArray[lifecycle.Handle](c.String(), len(samples)),
		heap:     heap,
	}
	for i, s := range samples {
		p, ok := s.(catalog.Point)
		if !ok {
			return nil, fmt.Errorf("build %s[%d]: %w", c, i, kindError(c, s))
		}
		h := heap.Allocate(p)
		if err := hc.arr.Set(i, h); err != nil {
			return nil, fmt.Errorf("build %s[%d]: %w", c, i, err)
		}
	}
	return hc, nil
}

func (c *heapContainer) Category() catalog.Category { return c.category }

func (c *heapContainer) Len() int { return c.arr.Len() }

func (c *heapContainer) Handle(i int) (lifecycle.Handle, error) {
	return c.arr.Get(i)
}

func (c *heapContainer) Load(i int) (catalog.Value, error) {
	h, err := c.arr.Get(i)
	if err != nil {
		return nil, err
	}
	p, err := c.heap.Get(h)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Store writes through the handle at i; the handle itself is not replaced.
func (c *heapContainer) Store(i int, v catalog.Value) error {
	h, err := c.arr.Get(i)
	if err != nil {
		return err
	}
	p, ok := v.(catalog.Point)
	if !ok {
		return kindError(c.category, v)
	}
	return c.heap.Manager().Set(h, p)
}
