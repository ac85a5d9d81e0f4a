package operator

import (
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
	"github.com/l7mp/rcollections/pkg/zset"
)

// Scalar is an observable value derived from a collection.
type Scalar[V any] struct {
	baseOp
	value *observable.Value[V]
}

func newScalar[V any](name string, value *observable.Value[V]) *Scalar[V] {
	return &Scalar[V]{baseOp: newBaseOp(name), value: value}
}

// Get returns the current value.
func (s *Scalar[V]) Get() V { return s.value.Get() }

// Changed returns the stream of value transitions.
func (s *Scalar[V]) Changed() observable.Stream[observable.Change[V]] { return s.value.Changed() }

// Count tracks the number of items in src.
func Count[T any](src collection.Collection[T]) *Scalar[int] {
	s := newScalar("count", observable.NewValue(0))
	n := 0
	h := change.Funcs[T, int]{
		Insert:  func(T) int { return n + 1 },
		Remove:  func(T) int { return n - 1 },
		Replace: func(_, _ T) int { return n },
		Reset:   func(_, newItems []T) int { return len(newItems) },
		Empty:   func() int { return n },
	}
	s.addSource(src.Subscribe(func(events []change.Event[T]) {
		for _, e := range events {
			n = change.Dispatch[T, int](e, h)
		}
		s.value.Set(n)
	}))
	return s
}

// FirstOrDefault tracks the first item of src, or def if src is empty.
func FirstOrDefault[T comparable](src collection.List[T], def T) *Scalar[T] {
	s := newScalar("first-or-default", observable.NewValue(def))
	s.addSource(src.SubscribeList(func([]change.ListEvent[T]) {
		if src.Count() == 0 {
			s.value.Set(def)
			return
		}
		s.value.Set(src.At(0))
	}))
	return s
}

// SomeItemOrDefault tracks an arbitrary item of src, or def if src is empty. The chosen item is
// kept for as long as it remains in the collection.
func SomeItemOrDefault[T comparable](src collection.Collection[T], def T) *Scalar[T] {
	s := newScalar("some-item-or-default", observable.NewValue(def))
	items := zset.New[T]()
	current, has := def, false
	s.addSource(src.Subscribe(func(events []change.Event[T]) {
		for _, e := range events {
			items.Apply(e)
		}
		if has && items.Contains(current) {
			return
		}
		if current, has = items.Any(); !has {
			current = def
		}
		s.value.Set(current)
	}))
	return s
}
