package join

import (
	"iter"
	"maps"
	"reflect"
)

// Mapping is the associative container a join reads from.
//
// Keys are unique by construction; All yields each key once, in the
// container's native order. Join never mutates a Mapping.
type Mapping[K comparable, V any] interface {
	Lookup(key K) (V, bool)
	All() iter.Seq2[K, V]
	Len() int
}

// Map adapts a Go map. Its iteration order is Go's randomized map order.
type Map[K comparable, V any] map[K]V

// Lookup returns the value stored under key.
func (m Map[K, V]) Lookup(key K) (V, bool) {
	v, ok := m[key]
	return v, ok
}

// All yields every entry in map order.
func (m Map[K, V]) All() iter.Seq2[K, V] {
	return maps.All(m)
}

// Len returns the number of entries.
func (m Map[K, V]) Len() int {
	return len(m)
}

// Ordered is a mapping that iterates in insertion order.
//
// Set on an existing key replaces the value in place; Delete followed by Set
// moves a key to the end. The zero value is not usable, use NewOrdered.
type Ordered[K comparable, V any] struct {
	index      map[K]*entry[K, V]
	head, tail *entry[K, V]
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	prev, next *entry[K, V]
}

// NewOrdered creates an empty insertion-ordered mapping.
func NewOrdered[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{index: make(map[K]*entry[K, V])}
}

// Set stores value under key.
func (m *Ordered[K, V]) Set(key K, value V) {
	if e, ok := m.index[key]; ok {
		e.value = value
		return
	}
	e := &entry[K, V]{key: key, value: value, prev: m.tail}
	if m.tail == nil {
		m.head = e
	} else {
		m.tail.next = e
	}
	m.tail = e
	m.index[key] = e
}

// Delete removes key and reports whether it was present.
func (m *Ordered[K, V]) Delete(key K) bool {
	e, ok := m.index[key]
	if !ok {
		return false
	}
	if e.prev == nil {
		m.head = e.next
	} else {
		e.prev.next = e.next
	}
	if e.next == nil {
		m.tail = e.prev
	} else {
		e.next.prev = e.prev
	}
	delete(m.index, key)
	return true
}

// Lookup returns the value stored under key.
func (m *Ordered[K, V]) Lookup(key K) (V, bool) {
	e, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// All yields every entry in insertion order.
func (m *Ordered[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys yields every key in insertion order.
func (m *Ordered[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := m.head; e != nil; e = e.next {
			if !yield(e.key) {
				return
			}
		}
	}
}

// Len returns the number of entries.
func (m *Ordered[K, V]) Len() int {
	return len(m.index)
}

// isNilMapping catches both a nil interface and a typed nil pointer such as
// (*Ordered[K, V])(nil). A nil Map is a valid empty mapping.
func isNilMapping(m any) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
