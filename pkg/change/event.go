package change

import (
	"fmt"
	"slices"
)

// Event is a collection-level change. The set of implementations is closed: Insert, Remove,
// Replace, Reset and Empty.
type Event[T any] interface {
	Kind() Kind
	fmt.Stringer
	event()
}

// Insert reports that an item was added.
type Insert[T any] struct {
	Item T
}

// Remove reports that an item was removed.
type Remove[T any] struct {
	Item T
}

// Replace reports that one item was swapped for another.
type Replace[T any] struct {
	OldItem, NewItem T
}

// Reset reports a bulk replacement of the entire contents.
type Reset[T any] struct {
	OldItems, NewItems []T
}

// Empty is an explicit no-op.
type Empty[T any] struct{}

func (Insert[T]) Kind() Kind  { return KindInsert }
func (Remove[T]) Kind() Kind  { return KindRemove }
func (Replace[T]) Kind() Kind { return KindReplace }
func (Reset[T]) Kind() Kind   { return KindReset }
func (Empty[T]) Kind() Kind   { return KindEmpty }

func (Insert[T]) event()  {}
func (Remove[T]) event()  {}
func (Replace[T]) event() {}
func (Reset[T]) event()   {}
func (Empty[T]) event()   {}

func (e Insert[T]) String() string { return fmt.Sprintf("insert(%v)", e.Item) }
func (e Remove[T]) String() string { return fmt.Sprintf("remove(%v)", e.Item) }
func (e Replace[T]) String() string {
	return fmt.Sprintf("replace(%v->%v)", e.OldItem, e.NewItem)
}
func (e Reset[T]) String() string {
	return fmt.Sprintf("reset(%v->%v)", e.OldItems, e.NewItems)
}
func (Empty[T]) String() string { return "empty" }

// Handler receives one callback per collection-level variant.
type Handler[T, R any] interface {
	OnInsert(item T) R
	OnRemove(item T) R
	OnReplace(oldItem, newItem T) R
	OnReset(oldItems, newItems []T) R
	OnEmpty() R
}

// Dispatch routes e to the matching method of h.
func Dispatch[T, R any](e Event[T], h Handler[T, R]) R {
	switch ev := e.(type) {
	case Insert[T]:
		return h.OnInsert(ev.Item)
	case Remove[T]:
		return h.OnRemove(ev.Item)
	case Replace[T]:
		return h.OnReplace(ev.OldItem, ev.NewItem)
	case Reset[T]:
		return h.OnReset(ev.OldItems, ev.NewItems)
	case Empty[T]:
		return h.OnEmpty()
	default:
		panic(fmt.Sprintf("change: unknown event type %T", e))
	}
}

// Funcs adapts a set of functions to the Handler interface. Nil functions return the zero R.
type Funcs[T, R any] struct {
	Insert  func(item T) R
	Remove  func(item T) R
	Replace func(oldItem, newItem T) R
	Reset   func(oldItems, newItems []T) R
	Empty   func() R
}

var _ Handler[int, struct{}] = Funcs[int, struct{}]{}

func (f Funcs[T, R]) OnInsert(item T) R {
	var r R
	if f.Insert != nil {
		r = f.Insert(item)
	}
	return r
}

func (f Funcs[T, R]) OnRemove(item T) R {
	var r R
	if f.Remove != nil {
		r = f.Remove(item)
	}
	return r
}

func (f Funcs[T, R]) OnReplace(oldItem, newItem T) R {
	var r R
	if f.Replace != nil {
		r = f.Replace(oldItem, newItem)
	}
	return r
}

func (f Funcs[T, R]) OnReset(oldItems, newItems []T) R {
	var r R
	if f.Reset != nil {
		r = f.Reset(oldItems, newItems)
	}
	return r
}

func (f Funcs[T, R]) OnEmpty() R {
	var r R
	if f.Empty != nil {
		r = f.Empty()
	}
	return r
}

// Apply applies a collection event to an unordered slice and returns the result. Remove and
// Replace act on the first equal item; an absent item is a no-op.
func Apply[T comparable](items []T, e Event[T]) []T {
	switch ev := e.(type) {
	case Insert[T]:
		return append(items, ev.Item)
	case Remove[T]:
		if i := indexOf(items, ev.Item); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
	case Replace[T]:
		if i := indexOf(items, ev.OldItem); i >= 0 {
			items = append(items[:i], items[i+1:]...)
			return append(items, ev.NewItem)
		}
	case Reset[T]:
		return slices.Clone(ev.NewItems)
	}
	return items
}

func indexOf[T comparable](items []T, item T) int {
	for i := range items {
		if items[i] == item {
			return i
		}
	}
	return -1
}
