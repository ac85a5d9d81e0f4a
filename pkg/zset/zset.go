// Package zset implements Z-sets: multisets with integer multiplicities. A ZSet is the unordered
// materialization of a change stream, and the reference model the operator tests compare against.
package zset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/l7mp/rcollections/pkg/change"
)

// ZSet maps items to multiplicities. Items with zero multiplicity are not stored.
type ZSet[T comparable] struct {
	counts map[T]int
}

// New creates an empty ZSet.
func New[T comparable]() *ZSet[T] {
	return &ZSet[T]{counts: make(map[T]int)}
}

// FromSlice creates a ZSet holding each element of items with multiplicity 1 per occurrence.
func FromSlice[T comparable](items []T) *ZSet[T] {
	z := New[T]()
	for _, item := range items {
		z.AddItem(item, 1)
	}
	return z
}

// AddItem adds item with the given multiplicity in place.
func (z *ZSet[T]) AddItem(item T, count int) {
	if count == 0 {
		return
	}
	z.counts[item] += count
	if z.counts[item] == 0 {
		delete(z.counts, item)
	}
}

// Add performs Z-set addition in place.
func (z *ZSet[T]) Add(other *ZSet[T]) *ZSet[T] {
	if other == nil {
		return z
	}
	for item, count := range other.counts {
		z.AddItem(item, count)
	}
	return z
}

// Subtract performs Z-set subtraction in place.
func (z *ZSet[T]) Subtract(other *ZSet[T]) *ZSet[T] {
	if other == nil {
		return z
	}
	for item, count := range other.counts {
		z.AddItem(item, -count)
	}
	return z
}

// Distinct returns a new ZSet with set semantics: every positive multiplicity becomes 1 and
// negative ones are dropped.
func (z *ZSet[T]) Distinct() *ZSet[T] {
	ret := New[T]()
	for item, count := range z.counts {
		if count > 0 {
			ret.counts[item] = 1
		}
	}
	return ret
}

// DeepCopy returns an independent copy.
func (z *ZSet[T]) DeepCopy() *ZSet[T] {
	ret := New[T]()
	for item, count := range z.counts {
		ret.counts[item] = count
	}
	return ret
}

// Count returns the multiplicity of item.
func (z *ZSet[T]) Count(item T) int { return z.counts[item] }

// Contains reports whether item has a positive multiplicity.
func (z *ZSet[T]) Contains(item T) bool { return z.counts[item] > 0 }

// UniqueCount returns the number of distinct items.
func (z *ZSet[T]) UniqueCount() int { return len(z.counts) }

// Size returns the sum of all multiplicities.
func (z *ZSet[T]) Size() int {
	n := 0
	for _, count := range z.counts {
		n += count
	}
	return n
}

// IsZero reports whether the ZSet is empty.
func (z *ZSet[T]) IsZero() bool { return len(z.counts) == 0 }

// Items expands the positive multiplicities into a slice in unspecified order.
func (z *ZSet[T]) Items() []T {
	ret := make([]T, 0, len(z.counts))
	for item, count := range z.counts {
		for i := 0; i < count; i++ {
			ret = append(ret, item)
		}
	}
	return ret
}

// Any returns an arbitrary item with positive multiplicity.
func (z *ZSet[T]) Any() (T, bool) {
	for item, count := range z.counts {
		if count > 0 {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Equal reports whether two ZSets hold the same items with the same multiplicities.
func (z *ZSet[T]) Equal(other *ZSet[T]) bool {
	if len(z.counts) != len(other.counts) {
		return false
	}
	for item, count := range z.counts {
		if other.counts[item] != count {
			return false
		}
	}
	return true
}

// Apply folds a collection change event into the ZSet.
func (z *ZSet[T]) Apply(e change.Event[T]) {
	switch ev := e.(type) {
	case change.Insert[T]:
		z.AddItem(ev.Item, 1)
	case change.Remove[T]:
		z.AddItem(ev.Item, -1)
	case change.Replace[T]:
		z.AddItem(ev.OldItem, -1)
		z.AddItem(ev.NewItem, 1)
	case change.Reset[T]:
		z.counts = make(map[T]int)
		for _, item := range ev.NewItems {
			z.AddItem(item, 1)
		}
	}
}

// String returns a deterministic representation.
func (z *ZSet[T]) String() string {
	entries := make([]string, 0, len(z.counts))
	for item, count := range z.counts {
		entries = append(entries, fmt.Sprintf("%v:%d", item, count))
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, ", ") + "}"
}
