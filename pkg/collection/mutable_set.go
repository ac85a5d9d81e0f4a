package collection

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ Collection[int] = &MutableSet[int]{}

// MutableSet is an observable collection without duplicates. Membership tests are constant time;
// Items returns the members in insertion order.
type MutableSet[T comparable] struct {
	members  mapset.Set[T]
	order    []T
	snapshot []T
	*emitter[change.Event[T]]
}

// NewMutableSet creates a set with the given initial items. Duplicates are dropped.
func NewMutableSet[T comparable](items ...T) *MutableSet[T] {
	s := &MutableSet[T]{emitter: newEmitter[change.Event[T]]()}
	s.load(items)
	return s
}

func (s *MutableSet[T]) load(items []T) {
	s.members = mapset.NewThreadUnsafeSetWithSize[T](len(items))
	s.order = make([]T, 0, len(items))
	for _, item := range items {
		if s.members.Add(item) {
			s.order = append(s.order, item)
		}
	}
}

func (s *MutableSet[T]) Items() []T { return slices.Clone(s.order) }
func (s *MutableSet[T]) Count() int { return len(s.order) }

// Contains reports whether item is a member.
func (s *MutableSet[T]) Contains(item T) bool { return s.members.Contains(item) }

// Subscribe registers fn for change batches after replaying the current members. During an open
// transaction the replay carries the members as of the transaction start.
func (s *MutableSet[T]) Subscribe(fn func([]change.Event[T])) observable.Subscription {
	current := s.order
	if s.inTx {
		current = s.snapshot
	}
	fn([]change.Event[T]{change.Reset[T]{NewItems: slices.Clone(current)}})
	return s.subject.Subscribe(fn)
}

// Add inserts item. It reports false and emits nothing if item is already a member.
func (s *MutableSet[T]) Add(item T) bool {
	if !s.members.Add(item) {
		return false
	}
	s.order = append(s.order, item)
	s.emit(change.Insert[T]{Item: item})
	return true
}

// Remove removes item and reports whether it was a member.
func (s *MutableSet[T]) Remove(item T) bool {
	if !s.members.Contains(item) {
		return false
	}
	s.members.Remove(item)
	i := slices.Index(s.order, item)
	s.order = slices.Delete(s.order, i, i+1)
	s.emit(change.Remove[T]{Item: item})
	return true
}

// Replace swaps oldItem for newItem. It reports false and does nothing if oldItem is absent or
// newItem is already a member.
func (s *MutableSet[T]) Replace(oldItem, newItem T) bool {
	if !s.members.Contains(oldItem) || s.members.Contains(newItem) {
		return false
	}
	s.members.Remove(oldItem)
	s.members.Add(newItem)
	s.order[slices.Index(s.order, oldItem)] = newItem
	s.emit(change.Replace[T]{OldItem: oldItem, NewItem: newItem})
	return true
}

// Clear removes all members.
func (s *MutableSet[T]) Clear() {
	s.Reset(nil)
}

// Reset replaces the members. Duplicates in items are dropped.
func (s *MutableSet[T]) Reset(items []T) {
	old := s.order
	s.load(items)
	s.emit(change.Reset[T]{OldItems: old, NewItems: slices.Clone(s.order)})
}

// Transaction opens a transaction. It fails with ErrTransactionInProgress if one is already open.
func (s *MutableSet[T]) Transaction() (*Transaction, error) {
	tx, err := s.begin(func() { s.snapshot = nil })
	if err != nil {
		return nil, err
	}
	s.snapshot = slices.Clone(s.order)
	return tx, nil
}
