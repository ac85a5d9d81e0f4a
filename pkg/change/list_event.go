package change

import (
	"fmt"
	"slices"
)

// ListEvent is a list-level change: the collection-level variants with an index attached, plus
// Move. Every list event projects to a collection event via Collection.
type ListEvent[T any] interface {
	Kind() Kind
	fmt.Stringer
	// Collection projects the list event to its collection-level equivalent. A move has no
	// collection-level effect and projects to Empty.
	Collection() Event[T]
	listEvent()
}

// ListInsert reports that an item was inserted at Index.
type ListInsert[T any] struct {
	Item  T
	Index int
}

// ListRemove reports that the item at Index was removed.
type ListRemove[T any] struct {
	Item  T
	Index int
}

// ListReplace reports that the item at Index was replaced.
type ListReplace[T any] struct {
	OldItem, NewItem T
	Index            int
}

// ListMove reports that Item moved from OldIndex to NewIndex.
type ListMove[T any] struct {
	Item               T
	OldIndex, NewIndex int
}

// ListReset reports a bulk replacement of the entire list.
type ListReset[T any] struct {
	OldItems, NewItems []T
}

// ListEmpty is an explicit no-op.
type ListEmpty[T any] struct{}

func (ListInsert[T]) Kind() Kind  { return KindInsert }
func (ListRemove[T]) Kind() Kind  { return KindRemove }
func (ListReplace[T]) Kind() Kind { return KindReplace }
func (ListMove[T]) Kind() Kind    { return KindMove }
func (ListReset[T]) Kind() Kind   { return KindReset }
func (ListEmpty[T]) Kind() Kind   { return KindEmpty }

func (ListInsert[T]) listEvent()  {}
func (ListRemove[T]) listEvent()  {}
func (ListReplace[T]) listEvent() {}
func (ListMove[T]) listEvent()    {}
func (ListReset[T]) listEvent()   {}
func (ListEmpty[T]) listEvent()   {}

func (e ListInsert[T]) Collection() Event[T] { return Insert[T]{Item: e.Item} }
func (e ListRemove[T]) Collection() Event[T] { return Remove[T]{Item: e.Item} }
func (e ListReplace[T]) Collection() Event[T] {
	return Replace[T]{OldItem: e.OldItem, NewItem: e.NewItem}
}
func (ListMove[T]) Collection() Event[T] { return Empty[T]{} }
func (e ListReset[T]) Collection() Event[T] {
	return Reset[T]{OldItems: e.OldItems, NewItems: e.NewItems}
}
func (ListEmpty[T]) Collection() Event[T] { return Empty[T]{} }

func (e ListInsert[T]) String() string { return fmt.Sprintf("insert(%v@%d)", e.Item, e.Index) }
func (e ListRemove[T]) String() string { return fmt.Sprintf("remove(%v@%d)", e.Item, e.Index) }
func (e ListReplace[T]) String() string {
	return fmt.Sprintf("replace(%v->%v@%d)", e.OldItem, e.NewItem, e.Index)
}
func (e ListMove[T]) String() string {
	return fmt.Sprintf("move(%v:%d->%d)", e.Item, e.OldIndex, e.NewIndex)
}
func (e ListReset[T]) String() string {
	return fmt.Sprintf("reset(%v->%v)", e.OldItems, e.NewItems)
}
func (ListEmpty[T]) String() string { return "empty" }

// ListHandler receives one callback per list-level variant.
type ListHandler[T, R any] interface {
	OnInsert(item T, index int) R
	OnRemove(item T, index int) R
	OnReplace(oldItem, newItem T, index int) R
	OnMove(item T, oldIndex, newIndex int) R
	OnReset(oldItems, newItems []T) R
	OnEmpty() R
}

// DispatchList routes e to the matching method of h.
func DispatchList[T, R any](e ListEvent[T], h ListHandler[T, R]) R {
	switch ev := e.(type) {
	case ListInsert[T]:
		return h.OnInsert(ev.Item, ev.Index)
	case ListRemove[T]:
		return h.OnRemove(ev.Item, ev.Index)
	case ListReplace[T]:
		return h.OnReplace(ev.OldItem, ev.NewItem, ev.Index)
	case ListMove[T]:
		return h.OnMove(ev.Item, ev.OldIndex, ev.NewIndex)
	case ListReset[T]:
		return h.OnReset(ev.OldItems, ev.NewItems)
	case ListEmpty[T]:
		return h.OnEmpty()
	default:
		panic(fmt.Sprintf("change: unknown list event type %T", e))
	}
}

// ListFuncs adapts a set of functions to the ListHandler interface. Nil functions return the zero
// R.
type ListFuncs[T, R any] struct {
	Insert  func(item T, index int) R
	Remove  func(item T, index int) R
	Replace func(oldItem, newItem T, index int) R
	Move    func(item T, oldIndex, newIndex int) R
	Reset   func(oldItems, newItems []T) R
	Empty   func() R
}

var _ ListHandler[int, struct{}] = ListFuncs[int, struct{}]{}

func (f ListFuncs[T, R]) OnInsert(item T, index int) R {
	var r R
	if f.Insert != nil {
		r = f.Insert(item, index)
	}
	return r
}

func (f ListFuncs[T, R]) OnRemove(item T, index int) R {
	var r R
	if f.Remove != nil {
		r = f.Remove(item, index)
	}
	return r
}

func (f ListFuncs[T, R]) OnReplace(oldItem, newItem T, index int) R {
	var r R
	if f.Replace != nil {
		r = f.Replace(oldItem, newItem, index)
	}
	return r
}

func (f ListFuncs[T, R]) OnMove(item T, oldIndex, newIndex int) R {
	var r R
	if f.Move != nil {
		r = f.Move(item, oldIndex, newIndex)
	}
	return r
}

func (f ListFuncs[T, R]) OnReset(oldItems, newItems []T) R {
	var r R
	if f.Reset != nil {
		r = f.Reset(oldItems, newItems)
	}
	return r
}

func (f ListFuncs[T, R]) OnEmpty() R {
	var r R
	if f.Empty != nil {
		r = f.Empty()
	}
	return r
}

// Project maps a list batch to the equivalent collection batch.
func Project[T any](events []ListEvent[T]) []Event[T] {
	ret := make([]Event[T], 0, len(events))
	for _, e := range events {
		ret = append(ret, e.Collection())
	}
	return ret
}

// ApplyList applies a list event to a slice and returns the result. Indices are trusted.
func ApplyList[T any](items []T, e ListEvent[T]) []T {
	switch ev := e.(type) {
	case ListInsert[T]:
		return slices.Insert(items, ev.Index, ev.Item)
	case ListRemove[T]:
		return slices.Delete(items, ev.Index, ev.Index+1)
	case ListReplace[T]:
		items[ev.Index] = ev.NewItem
	case ListMove[T]:
		item := items[ev.OldIndex]
		items = slices.Delete(items, ev.OldIndex, ev.OldIndex+1)
		return slices.Insert(items, ev.NewIndex, item)
	case ListReset[T]:
		return slices.Clone(ev.NewItems)
	}
	return items
}
