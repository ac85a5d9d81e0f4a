package collection

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ List[int] = &MutableList[int]{}

// MutableList is an ordered observable collection with index-addressed mutations.
type MutableList[T comparable] struct {
	items    []T
	snapshot []T
	*emitter[change.ListEvent[T]]
}

// NewMutableList creates a list with the given initial items.
func NewMutableList[T comparable](items ...T) *MutableList[T] {
	return &MutableList[T]{
		items:   slices.Clone(items),
		emitter: newEmitter[change.ListEvent[T]](),
	}
}

func (l *MutableList[T]) Items() []T { return slices.Clone(l.items) }
func (l *MutableList[T]) Count() int { return len(l.items) }
func (l *MutableList[T]) At(i int) T { return l.items[i] }

// IndexOf returns the index of the first occurrence of item, or -1.
func (l *MutableList[T]) IndexOf(item T) int { return indexOf(l.items, item) }

// Contains reports whether item is in the list.
func (l *MutableList[T]) Contains(item T) bool { return l.IndexOf(item) >= 0 }

// SubscribeList registers fn for list change batches after replaying the current contents.
func (l *MutableList[T]) SubscribeList(fn func([]change.ListEvent[T])) observable.Subscription {
	current := l.items
	if l.inTx {
		current = l.snapshot
	}
	fn([]change.ListEvent[T]{change.ListReset[T]{NewItems: slices.Clone(current)}})
	return l.subject.Subscribe(fn)
}

// Subscribe registers fn for collection-level change batches. Moves are delivered as Empty.
func (l *MutableList[T]) Subscribe(fn func([]change.Event[T])) observable.Subscription {
	return l.SubscribeList(func(events []change.ListEvent[T]) { fn(change.Project(events)) })
}

// Add appends an item.
func (l *MutableList[T]) Add(item T) {
	l.items = append(l.items, item)
	l.emit(change.ListInsert[T]{Item: item, Index: len(l.items) - 1})
}

// Insert inserts item at index, which may equal Count.
func (l *MutableList[T]) Insert(index int, item T) error {
	if index < 0 || index > len(l.items) {
		return NewIndexError("insert", index, len(l.items))
	}
	l.items = slices.Insert(l.items, index, item)
	l.emit(change.ListInsert[T]{Item: item, Index: index})
	return nil
}

// RemoveAt removes the item at index.
func (l *MutableList[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(l.items) {
		return NewIndexError("removeAt", index, len(l.items))
	}
	item := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	l.emit(change.ListRemove[T]{Item: item, Index: index})
	return nil
}

// Remove removes the first occurrence of item and reports whether it was found.
func (l *MutableList[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	_ = l.RemoveAt(i)
	return true
}

// Set replaces the item at index.
func (l *MutableList[T]) Set(index int, item T) error {
	if index < 0 || index >= len(l.items) {
		return NewIndexError("set", index, len(l.items))
	}
	old := l.items[index]
	l.items[index] = item
	l.emit(change.ListReplace[T]{OldItem: old, NewItem: item, Index: index})
	return nil
}

// Replace replaces the first occurrence of oldItem in place. It reports false and does nothing if
// oldItem is absent.
func (l *MutableList[T]) Replace(oldItem, newItem T) bool {
	i := l.IndexOf(oldItem)
	if i < 0 {
		return false
	}
	_ = l.Set(i, newItem)
	return true
}

// Move moves the item at oldIndex to newIndex. Both indices must be valid positions in the current
// list.
func (l *MutableList[T]) Move(oldIndex, newIndex int) error {
	if oldIndex < 0 || oldIndex >= len(l.items) {
		return NewIndexError("move", oldIndex, len(l.items))
	}
	if newIndex < 0 || newIndex >= len(l.items) {
		return NewIndexError("move", newIndex, len(l.items))
	}
	item := l.items[oldIndex]
	l.items = slices.Insert(slices.Delete(l.items, oldIndex, oldIndex+1), newIndex, item)
	l.emit(change.ListMove[T]{Item: item, OldIndex: oldIndex, NewIndex: newIndex})
	return nil
}

// Clear removes all items.
func (l *MutableList[T]) Clear() {
	l.Reset(nil)
}

// Reset replaces the whole contents.
func (l *MutableList[T]) Reset(items []T) {
	old := l.items
	l.items = slices.Clone(items)
	l.emit(change.ListReset[T]{OldItems: old, NewItems: slices.Clone(l.items)})
}

// Transaction opens a transaction. It fails with ErrTransactionInProgress if one is already open.
func (l *MutableList[T]) Transaction() (*Transaction, error) {
	tx, err := l.begin(func() { l.snapshot = nil })
	if err != nil {
		return nil, err
	}
	l.snapshot = slices.Clone(l.items)
	return tx, nil
}
