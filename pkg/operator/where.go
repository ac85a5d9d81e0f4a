package operator

import (
	"slices"
	"sort"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.Collection[int] = &Where[int]{}

// Where keeps the items of a collection that satisfy a predicate. Items that fail the predicate
// are still tracked so that a later item change can make them visible. Every source event yields
// exactly one output event, and events on invisible items yield Empty, so the length of a batch
// counts source edits rather than visible changes. Count the non-Empty events, or use Count, to
// learn how many items changed.
type Where[T comparable] struct {
	collectionBase[T]
	predicate func(T) bool
	changes   ItemChanges[T]
	items     *tracker[T, *criteria]
	visible   int
}

type criteria struct {
	visible bool
	sub     observable.Subscription
}

// NewWhere creates a Where over src. changes may be nil.
func NewWhere[T comparable](src collection.Collection[T], predicate func(T) bool, changes ItemChanges[T]) *Where[T] {
	w := &Where[T]{
		predicate: predicate,
		changes:   changes,
		items:     newTracker[T, *criteria](),
	}
	w.collectionBase = newCollectionBase("where", w.values)
	w.onStop = w.release
	w.addSource(attach[T, change.Event[T]](src, change.Funcs[T, []change.Event[T]]{
		Insert:  w.onInsert,
		Remove:  w.onRemove,
		Replace: w.onReplace,
		Reset:   w.onReset,
		Empty:   func() []change.Event[T] { return one[change.Event[T]](change.Empty[T]{}) },
	}, w.publish))
	return w
}

func (w *Where[T]) values() []T {
	ret := make([]T, 0, w.visible)
	w.items.each(func(item T, c *criteria) {
		if c.visible {
			ret = append(ret, item)
		}
	})
	return ret
}

// Count returns the number of visible items.
func (w *Where[T]) Count() int { return w.visible }

func (w *Where[T]) track(item T) *criteria {
	c := &criteria{visible: w.predicate(item)}
	c.sub = w.changes.subscribe(item, func() { w.onItemChanged(item, c) })
	w.items.add(item, c)
	if c.visible {
		w.visible++
	}
	return c
}

func (w *Where[T]) untrack(item T) (*criteria, bool) {
	c, ok := w.items.take(item)
	if !ok {
		w.log.Error(ErrUnknownItem, "ignoring event for untracked item", "item", item)
		return nil, false
	}
	c.sub.Stop()
	if c.visible {
		w.visible--
	}
	return c, true
}

func (w *Where[T]) onItemChanged(item T, c *criteria) {
	v := w.predicate(item)
	if v == c.visible {
		return
	}
	c.visible = v
	if v {
		w.visible++
		w.publish(one[change.Event[T]](change.Insert[T]{Item: item}))
		return
	}
	w.visible--
	w.publish(one[change.Event[T]](change.Remove[T]{Item: item}))
}

func (w *Where[T]) onInsert(item T) []change.Event[T] {
	if c := w.track(item); c.visible {
		return one[change.Event[T]](change.Insert[T]{Item: item})
	}
	return one[change.Event[T]](change.Empty[T]{})
}

func (w *Where[T]) onRemove(item T) []change.Event[T] {
	if c, ok := w.untrack(item); ok && c.visible {
		return one[change.Event[T]](change.Remove[T]{Item: item})
	}
	return one[change.Event[T]](change.Empty[T]{})
}

func (w *Where[T]) onReplace(oldItem, newItem T) []change.Event[T] {
	oc, ok := w.untrack(oldItem)
	wasVisible := ok && oc.visible
	nc := w.track(newItem)

	switch {
	case wasVisible && nc.visible:
		return one[change.Event[T]](change.Replace[T]{OldItem: oldItem, NewItem: newItem})
	case wasVisible:
		return one[change.Event[T]](change.Remove[T]{Item: oldItem})
	case nc.visible:
		return one[change.Event[T]](change.Insert[T]{Item: newItem})
	default:
		return one[change.Event[T]](change.Empty[T]{})
	}
}

func (w *Where[T]) onReset(_, newItems []T) []change.Event[T] {
	old := w.values()
	w.release()
	for _, item := range newItems {
		w.track(item)
	}
	return one[change.Event[T]](change.Reset[T]{OldItems: old, NewItems: w.values()})
}

func (w *Where[T]) release() {
	w.items.each(func(_ T, c *criteria) { c.sub.Stop() })
	w.items.clear()
	w.visible = 0
}

var _ collection.List[int] = &ListWhere[int]{}

// ListWhere is the list variant of Where. It keeps, for every source item, the number of visible
// items preceding it, so the output index of an item is known without rescanning the predicate
// results. Like Where it answers an edit of an invisible item with ListEmpty.
type ListWhere[T comparable] struct {
	listBase[T]
	predicate func(T) bool
	changes   ItemChanges[T]
	entries   []*listCriteria[T]
	visible   int
}

type listCriteria[T any] struct {
	item    T
	visible bool
	before  int
	sub     observable.Subscription
}

func (c *listCriteria[T]) weight() int {
	if c.visible {
		return 1
	}
	return 0
}

// NewListWhere creates a ListWhere over src. changes may be nil.
func NewListWhere[T comparable](src collection.List[T], predicate func(T) bool, changes ItemChanges[T]) *ListWhere[T] {
	w := &ListWhere[T]{predicate: predicate, changes: changes}
	w.listBase = newListBase("list-where", w.values)
	w.onStop = w.release
	w.addSource(attachList[T, change.ListEvent[T]](src, change.ListFuncs[T, []change.ListEvent[T]]{
		Insert:  w.onInsert,
		Remove:  w.onRemove,
		Replace: w.onReplace,
		Move:    w.onMove,
		Reset:   w.onReset,
		Empty:   func() []change.ListEvent[T] { return one[change.ListEvent[T]](change.ListEmpty[T]{}) },
	}, w.publish))
	return w
}

func (w *ListWhere[T]) values() []T {
	ret := make([]T, 0, w.visible)
	for _, c := range w.entries {
		if c.visible {
			ret = append(ret, c.item)
		}
	}
	return ret
}

// Count returns the number of visible items.
func (w *ListWhere[T]) Count() int { return w.visible }

// At returns the i-th visible item.
func (w *ListWhere[T]) At(i int) T {
	if i < 0 || i >= w.visible {
		panic(collection.NewIndexError("at", i, w.visible))
	}
	// last entry with before <= i is the visible one at output index i
	k := sort.Search(len(w.entries), func(k int) bool { return w.entries[k].before > i }) - 1
	return w.entries[k].item
}

func (w *ListWhere[T]) newEntry(item T, index int) *listCriteria[T] {
	c := &listCriteria[T]{item: item, visible: w.predicate(item), before: w.beforeIndex(index)}
	c.sub = w.changes.subscribe(item, func() { w.onItemChanged(c) })
	if c.visible {
		w.visible++
	}
	return c
}

// beforeIndex returns the number of visible items in entries[:index].
func (w *ListWhere[T]) beforeIndex(index int) int {
	if index == 0 {
		return 0
	}
	prev := w.entries[index-1]
	return prev.before + prev.weight()
}

// shift adjusts the visible-before counter of entries[from:] by delta.
func (w *ListWhere[T]) shift(from, delta int) {
	for _, c := range w.entries[from:] {
		c.before += delta
	}
}

func (w *ListWhere[T]) onItemChanged(c *listCriteria[T]) {
	v := w.predicate(c.item)
	if v == c.visible {
		return
	}
	i := slices.Index(w.entries, c)
	if i < 0 {
		return
	}
	c.visible = v
	if v {
		w.visible++
		w.shift(i+1, 1)
		w.publish(one[change.ListEvent[T]](change.ListInsert[T]{Item: c.item, Index: c.before}))
		return
	}
	w.visible--
	w.shift(i+1, -1)
	w.publish(one[change.ListEvent[T]](change.ListRemove[T]{Item: c.item, Index: c.before}))
}

func (w *ListWhere[T]) onInsert(item T, index int) []change.ListEvent[T] {
	c := w.newEntry(item, index)
	w.entries = slices.Insert(w.entries, index, c)
	if !c.visible {
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
	w.shift(index+1, 1)
	return one[change.ListEvent[T]](change.ListInsert[T]{Item: item, Index: c.before})
}

func (w *ListWhere[T]) onRemove(_ T, index int) []change.ListEvent[T] {
	c := w.entries[index]
	c.sub.Stop()
	w.entries = slices.Delete(w.entries, index, index+1)
	if !c.visible {
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
	w.visible--
	w.shift(index, -1)
	return one[change.ListEvent[T]](change.ListRemove[T]{Item: c.item, Index: c.before})
}

func (w *ListWhere[T]) onReplace(oldItem, newItem T, index int) []change.ListEvent[T] {
	old := w.entries[index]
	old.sub.Stop()
	if old.visible {
		w.visible--
	}
	c := w.newEntry(newItem, index)
	w.entries[index] = c

	switch {
	case old.visible && c.visible:
		return one[change.ListEvent[T]](change.ListReplace[T]{OldItem: oldItem, NewItem: newItem, Index: c.before})
	case old.visible:
		w.shift(index+1, -1)
		return one[change.ListEvent[T]](change.ListRemove[T]{Item: oldItem, Index: c.before})
	case c.visible:
		w.shift(index+1, 1)
		return one[change.ListEvent[T]](change.ListInsert[T]{Item: newItem, Index: c.before})
	default:
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
}

func (w *ListWhere[T]) onMove(item T, oldIndex, newIndex int) []change.ListEvent[T] {
	c := w.entries[oldIndex]
	oldBefore := c.before
	w.entries = slices.Delete(w.entries, oldIndex, oldIndex+1)
	if c.visible {
		w.shift(oldIndex, -1)
	}
	c.before = w.beforeIndex(newIndex)
	w.entries = slices.Insert(w.entries, newIndex, c)
	if !c.visible {
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
	w.shift(newIndex+1, 1)
	if c.before == oldBefore {
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
	return one[change.ListEvent[T]](change.ListMove[T]{Item: item, OldIndex: oldBefore, NewIndex: c.before})
}

func (w *ListWhere[T]) onReset(_, newItems []T) []change.ListEvent[T] {
	old := w.values()
	w.release()
	for i, item := range newItems {
		w.entries = append(w.entries, w.newEntry(item, i))
	}
	return one[change.ListEvent[T]](change.ListReset[T]{OldItems: old, NewItems: w.values()})
}

func (w *ListWhere[T]) release() {
	for _, c := range w.entries {
		c.sub.Stop()
	}
	w.entries = nil
	w.visible = 0
}
