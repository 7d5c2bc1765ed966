package container

import (
	"fmt"

	"github.com/roach88/typematrix/internal/catalog"
	"github.com/roach88/typematrix/internal/defect"
	"github.com/roach88/typematrix/internal/lifecycle"
)

// Container is a built, fixed-length sequence of one category.
type Container interface {
	// Category returns the category the container holds.
	Category() catalog.Category

	// Len returns the fixed length.
	Len() int

	// Load reads element i back as a catalog value.
	Load(i int) (catalog.Value, error)

	// Store converts v to the category's representation and writes it at i.
	Store(i int, v catalog.Value) error
}

// HeapContainer is a container of lifecycle handles.
type HeapContainer interface {
	Container

	// Handle returns the handle stored at i.
	Handle(i int) (lifecycle.Handle, error)
}

// typed stores elements as T and converts through a codec.
type typed[T any] struct {
	category catalog.Category
	arr      *Array[T]
	enc      encoder[T]
	dec      decoder[T]
}

func (c *typed[T]) Category() catalog.Category { return c.category }

func (c *typed[T]) Len() int { return c.arr.Len() }

func (c *typed[T]) Load(i int) (catalog.Value, error) {
	t, err := c.arr.Get(i)
	if err != nil {
		return nil, err
	}
	return c.dec(t)
}

func (c *typed[T]) Store(i int, v catalog.Value) error {
	if i < 0 || i >= c.arr.Len() {
		return defect.NewBounds(c.category.String(), i, c.arr.Len())
	}
	t, err := c.enc(v)
	if err != nil {
		return err
	}
	return c.arr.Set(i, t)
}

// fill allocates an array sized to the samples and stores each in order.
func fill[T any](cat catalog.Category, samples []catalog.Value, enc encoder[T], dec decoder[T]) (Container, error) {
	c := &typed[T]{
		category: cat,
		arr:      NewArray[T](cat.String(), len(samples)),
		enc:      enc,
		dec:      dec,
	}
	for i, s := range samples {
		if err := c.Store(i, s); err != nil {
			return nil, fmt.Errorf("build %s[%d]: %w", cat, i, err)
		}
	}
	return c, nil
}

// Builder constructs containers for one target. It owns the referent pools
// that pointer containers reference, so pools outlive every pointer check
// made against containers from the same builder.
type Builder struct {
	target catalog.Target
	pools  map[string]Container
}

// NewBuilder creates a builder and populates its referent pools.
func NewBuilder(t catalog.Target) (*Builder, error) {
	b := &Builder{target: t, pools: make(map[string]Container)}

	values, err := catalog.Referents(catalog.PoolValues)
	if err != nil {
		return nil, err
	}
	pool, err := b.nativeInt(catalog.IntCategory, values)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", catalog.PoolValues, err)
	}
	b.pools[catalog.PoolValues] = pool

	texts, err := catalog.Referents(catalog.PoolStrings)
	if err != nil {
		return nil, err
	}
	strPool, err := fill(catalog.TextPointer, texts, encodeText(catalog.TextPointer), decodeText)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", catalog.PoolStrings, err)
	}
	b.pools[catalog.PoolStrings] = strPool

	return b, nil
}

// Target returns the builder's target.
func (b *Builder) Target() catalog.Target {
	return b.target
}

// Pool returns a referent pool by name.
func (b *Builder) Pool(name string) (Container, bool) {
	p, ok := b.pools[name]
	return p, ok
}

// Build allocates a container sized to the category's sample count and
// writes each catalog sample into successive indices.
//
// OwnedAggregatePointer entries are allocated through heap, which must be
// non-nil for that category; the scope owns and eventually releases them.
func (b *Builder) Build(c catalog.Category, heap *lifecycle.Scope) (Container, error) {
	samples, err := catalog.SamplesFor(c)
	if err != nil {
		return nil, err
	}

	switch c {
	case catalog.Int8:
		return fill(c, samples, encodeSigned[int8](c), decodeSigned[int8])
	case catalog.Int16:
		return fill(c, samples, encodeSigned[int16](c), decodeSigned[int16])
	case catalog.Int32:
		return fill(c, samples, encodeSigned[int32](c), decodeSigned[int32])
	case catalog.Int64:
		return fill(c, samples, encodeSigned[int64](c), decodeSigned[int64])
	case catalog.IntCategory:
		return b.nativeInt(c, samples)
	case catalog.UInt8:
		return fill(c, samples, encodeUnsigned[uint8](c), decodeUnsigned[uint8])
	case catalog.UInt16:
		return fill(c, samples, encodeUnsigned[uint16](c), decodeUnsigned[uint16])
	case catalog.UInt32:
		return fill(c, samples, encodeUnsigned[uint32](c), decodeUnsigned[uint32])
	case catalog.UInt64:
		return fill(c, samples, encodeUnsigned[uint64](c), decodeUnsigned[uint64])
	case catalog.UInt:
		if b.target.WordSize == 4 {
			return fill(c, samples, encodeUnsigned[uint32](c), decodeUnsigned[uint32])
		}
		return fill(c, samples, encodeUnsigned[uint64](c), decodeUnsigned[uint64])
	case catalog.ByteCategory:
		return fill(c, samples, encodeByte(c), decodeByte)
	case catalog.Float32, catalog.FloatNative:
		return fill(c, samples, encodeFloat32(c), decodeFloat32)
	case catalog.Float64:
		return fill(c, samples, encodeFloat64(c), decodeFloat64)
	case catalog.BoolCategory:
		return fill(c, samples, encodeBool(c), decodeBool)
	case catalog.Enum:
		if b.target.WordSize == 4 {
			return fill(c, samples, encodeEnum[int32](c), decodeEnum[int32])
		}
		return fill(c, samples, encodeEnum[int64](c), decodeEnum[int64])
	case catalog.Struct:
		return fill(c, samples, encodeRecord(c, b.target), decodeRecord)
	case catalog.TypedPointer, catalog.TextPointer, catalog.RawPointer:
		return fill(c, samples, b.encodeSlot(c), b.decodeSlot)
	case catalog.OwnedAggregatePointer:
		if heap == nil {
			return nil, defect.NewConstruction(c.String(), "heap scope required for owned aggregates")
		}
		return buildHeap(c, samples, heap)
	}
	return nil, defect.NewConstruction(c.String(), "no container layout for category")
}

func (b *Builder) nativeInt(c catalog.Category, samples []catalog.Value) (Container, error) {
	if b.target.WordSize == 4 {
		return fill(c, samples, encodeSigned[int32](c), decodeSigned[int32])
	}
	return fill(c, samples, encodeSigned[int64](c), decodeSigned[int64])
}
