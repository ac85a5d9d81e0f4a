package collection

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ Collection[int] = &MutableCollection[int]{}

// MutableCollection is an unordered observable collection. Lookups are linear.
type MutableCollection[T comparable] struct {
	items    []T
	snapshot []T // contents at transaction start, nil outside a transaction
	*emitter[change.Event[T]]
}

// NewMutableCollection creates a collection with the given initial items.
func NewMutableCollection[T comparable](items ...T) *MutableCollection[T] {
	return &MutableCollection[T]{
		items:   slices.Clone(items),
		emitter: newEmitter[change.Event[T]](),
	}
}

func (c *MutableCollection[T]) Items() []T { return slices.Clone(c.items) }
func (c *MutableCollection[T]) Count() int { return len(c.items) }

// Contains reports whether item is in the collection.
func (c *MutableCollection[T]) Contains(item T) bool { return indexOf(c.items, item) >= 0 }

// Subscribe registers fn for change batches after replaying the current contents. During an open
// transaction the replay carries the contents as of the transaction start.
func (c *MutableCollection[T]) Subscribe(fn func([]change.Event[T])) observable.Subscription {
	current := c.items
	if c.inTx {
		current = c.snapshot
	}
	fn([]change.Event[T]{change.Reset[T]{NewItems: slices.Clone(current)}})
	return c.subject.Subscribe(fn)
}

// Add appends an item.
func (c *MutableCollection[T]) Add(item T) {
	c.items = append(c.items, item)
	c.emit(change.Insert[T]{Item: item})
}

// Remove removes the first occurrence of item and reports whether it was found.
func (c *MutableCollection[T]) Remove(item T) bool {
	i := indexOf(c.items, item)
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.emit(change.Remove[T]{Item: item})
	return true
}

// Replace removes oldItem and appends newItem. It reports false and does nothing if oldItem is
// absent.
func (c *MutableCollection[T]) Replace(oldItem, newItem T) bool {
	i := indexOf(c.items, oldItem)
	if i < 0 {
		return false
	}
	c.items = append(slices.Delete(c.items, i, i+1), newItem)
	c.emit(change.Replace[T]{OldItem: oldItem, NewItem: newItem})
	return true
}

// Clear removes all items.
func (c *MutableCollection[T]) Clear() {
	c.Reset(nil)
}

// Reset replaces the whole contents.
func (c *MutableCollection[T]) Reset(items []T) {
	old := c.items
	c.items = slices.Clone(items)
	c.emit(change.Reset[T]{OldItems: old, NewItems: slices.Clone(c.items)})
}

// Transaction opens a transaction. It fails with ErrTransactionInProgress if one is already open.
func (c *MutableCollection[T]) Transaction() (*Transaction, error) {
	tx, err := c.begin(func() { c.snapshot = nil })
	if err != nil {
		return nil, err
	}
	c.snapshot = slices.Clone(c.items)
	return tx, nil
}
