// Package testutils provides observable test items, randomized mutation drivers and pure
// reference transformations for checking incremental operators against recomputation.
package testutils

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/l7mp/rcollections/pkg/observable"
)

// Item is a test item with a stable identity and an observable integer value. Items are compared
// by pointer.
type Item struct {
	ID    uuid.UUID
	value *observable.Value[int]
}

// Get returns the current value.
func (i *Item) Get() int { return i.value.Get() }

// Set updates the value, notifying subscribers if it changed.
func (i *Item) Set(v int) { i.value.Set(v) }

func (i *Item) String() string {
	return fmt.Sprintf("%s=%d", i.ID.String()[:8], i.value.Get())
}

// Changes fires whenever the value of item changes.
func Changes(item *Item) observable.Stream[struct{}] {
	return observable.Signal(item.value.Changed())
}

// Value returns the current value of item.
func Value(item *Item) int { return item.Get() }

// Factory creates items with identities drawn from a seeded source, so that runs are
// reproducible.
type Factory struct {
	rnd *rand.Rand
}

// NewFactory creates a factory with the given seed.
func NewFactory(seed int64) *Factory {
	return &Factory{rnd: rand.New(rand.NewSource(seed))}
}

// New creates an item with value v.
func (f *Factory) New(v int) *Item {
	id, err := uuid.NewRandomFromReader(f.rnd)
	if err != nil {
		panic(err)
	}
	return &Item{ID: id, value: observable.NewValue(v)}
}

// Items creates one item per value.
func (f *Factory) Items(values ...int) []*Item {
	ret := make([]*Item, len(values))
	for i, v := range values {
		ret[i] = f.New(v)
	}
	return ret
}
