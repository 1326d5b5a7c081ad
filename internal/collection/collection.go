// Package collection provides the ordered result list returned by query
// execution.
package collection

import (
	"encoding/json"
	"iter"
)

// Collection is an ordered, read-mostly list of results.
type Collection[T any] struct {
	items []T
}

// New returns a collection holding items in order.
func New[T any](items ...T) *Collection[T] {
	return &Collection[T]{items: items}
}

// First returns the head element and whether the collection was non-empty.
func (c *Collection[T]) First() (T, bool) {
	var zero T
	if c == nil || len(c.items) == 0 {
		return zero, false
	}
	return c.items[0], true
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of the elements.
func (c *Collection[T]) Items() []T {
	if c == nil {
		return nil
	}
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// At returns the element at i. It panics when i is out of range.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Append adds elements at the end.
func (c *Collection[T]) Append(items ...T) {
	c.items = append(c.items, items...)
}

// All iterates index/element pairs in order.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c == nil {
			return
		}
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Map applies fn to every element of c and returns the results in order.
func Map[T, R any](c *Collection[T], fn func(T) R) *Collection[R] {
	out := make([]R, 0, c.Len())
	for _, item := range c.All() {
		out = append(out, fn(item))
	}
	return New(out...)
}

// MarshalJSON encodes the collection as a JSON array.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	if c == nil || c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}
