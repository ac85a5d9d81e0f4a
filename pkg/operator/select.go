package operator

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.Collection[int] = &Select[string, int]{}

// Select maps every item of a collection through a selector. When an item reports a change, the
// selector is re-evaluated and a Replace is emitted if the derived value differs.
type Select[In, Out comparable] struct {
	collectionBase[Out]
	selector func(In) Out
	changes  ItemChanges[In]
	items    *tracker[In, *selectContainer[Out]]
}

type selectContainer[Out any] struct {
	value Out
	sub   observable.Subscription
}

// NewSelect creates a Select over src. changes may be nil.
func NewSelect[In, Out comparable](src collection.Collection[In], selector func(In) Out, changes ItemChanges[In]) *Select[In, Out] {
	s := &Select[In, Out]{
		selector: selector,
		changes:  changes,
		items:    newTracker[In, *selectContainer[Out]](),
	}
	s.collectionBase = newCollectionBase("select", s.values)
	s.onStop = s.release
	s.addSource(attach[In, change.Event[Out]](src, change.Funcs[In, []change.Event[Out]]{
		Insert:  s.onInsert,
		Remove:  s.onRemove,
		Replace: s.onReplace,
		Reset:   s.onReset,
		Empty:   func() []change.Event[Out] { return one[change.Event[Out]](change.Empty[Out]{}) },
	}, s.publish))
	return s
}

func (s *Select[In, Out]) values() []Out {
	ret := make([]Out, 0, s.items.len())
	s.items.each(func(_ In, c *selectContainer[Out]) { ret = append(ret, c.value) })
	return ret
}

// Count returns the number of items.
func (s *Select[In, Out]) Count() int { return s.items.len() }

func (s *Select[In, Out]) track(item In) *selectContainer[Out] {
	c := &selectContainer[Out]{value: s.selector(item)}
	c.sub = s.changes.subscribe(item, func() { s.onItemChanged(item, c) })
	s.items.add(item, c)
	return c
}

func (s *Select[In, Out]) untrack(item In) (*selectContainer[Out], bool) {
	c, ok := s.items.take(item)
	if !ok {
		s.log.Error(ErrUnknownItem, "ignoring event for untracked item", "item", item)
		return nil, false
	}
	c.sub.Stop()
	return c, true
}

func (s *Select[In, Out]) onItemChanged(item In, c *selectContainer[Out]) {
	v := s.selector(item)
	if v == c.value {
		return
	}
	old := c.value
	c.value = v
	s.publish(one[change.Event[Out]](change.Replace[Out]{OldItem: old, NewItem: v}))
}

func (s *Select[In, Out]) onInsert(item In) []change.Event[Out] {
	c := s.track(item)
	return one[change.Event[Out]](change.Insert[Out]{Item: c.value})
}

func (s *Select[In, Out]) onRemove(item In) []change.Event[Out] {
	c, ok := s.untrack(item)
	if !ok {
		return one[change.Event[Out]](change.Empty[Out]{})
	}
	return one[change.Event[Out]](change.Remove[Out]{Item: c.value})
}

func (s *Select[In, Out]) onReplace(oldItem, newItem In) []change.Event[Out] {
	c, ok := s.untrack(oldItem)
	if !ok {
		return s.onInsert(newItem)
	}
	nc := s.track(newItem)
	return one[change.Event[Out]](change.Replace[Out]{OldItem: c.value, NewItem: nc.value})
}

func (s *Select[In, Out]) onReset(_, newItems []In) []change.Event[Out] {
	old := s.values()
	s.release()
	for _, item := range newItems {
		s.track(item)
	}
	return one[change.Event[Out]](change.Reset[Out]{OldItems: old, NewItems: s.values()})
}

func (s *Select[In, Out]) release() {
	s.items.each(func(_ In, c *selectContainer[Out]) { c.sub.Stop() })
	s.items.clear()
}

var _ collection.List[int] = &ListSelect[string, int]{}

// ListSelect is the index-preserving variant of Select over a list.
type ListSelect[In, Out comparable] struct {
	listBase[Out]
	selector func(In) Out
	changes  ItemChanges[In]
	entries  []*listSelectEntry[In, Out]
}

type listSelectEntry[In, Out any] struct {
	item  In
	value Out
	sub   observable.Subscription
}

// NewListSelect creates a ListSelect over src. changes may be nil.
func NewListSelect[In, Out comparable](src collection.List[In], selector func(In) Out, changes ItemChanges[In]) *ListSelect[In, Out] {
	s := &ListSelect[In, Out]{selector: selector, changes: changes}
	s.listBase = newListBase("list-select", s.values)
	s.onStop = s.release
	s.addSource(attachList[In, change.ListEvent[Out]](src, change.ListFuncs[In, []change.ListEvent[Out]]{
		Insert:  s.onInsert,
		Remove:  s.onRemove,
		Replace: s.onReplace,
		Move:    s.onMove,
		Reset:   s.onReset,
		Empty:   func() []change.ListEvent[Out] { return one[change.ListEvent[Out]](change.ListEmpty[Out]{}) },
	}, s.publish))
	return s
}

func (s *ListSelect[In, Out]) values() []Out {
	ret := make([]Out, len(s.entries))
	for i, e := range s.entries {
		ret[i] = e.value
	}
	return ret
}

func (s *ListSelect[In, Out]) Count() int   { return len(s.entries) }
func (s *ListSelect[In, Out]) At(i int) Out { return s.entries[i].value }

func (s *ListSelect[In, Out]) newEntry(item In) *listSelectEntry[In, Out] {
	e := &listSelectEntry[In, Out]{item: item, value: s.selector(item)}
	e.sub = s.changes.subscribe(item, func() { s.onItemChanged(e) })
	return e
}

func (s *ListSelect[In, Out]) onItemChanged(e *listSelectEntry[In, Out]) {
	v := s.selector(e.item)
	if v == e.value {
		return
	}
	i := slices.Index(s.entries, e)
	if i < 0 {
		return
	}
	old := e.value
	e.value = v
	s.publish(one[change.ListEvent[Out]](change.ListReplace[Out]{OldItem: old, NewItem: v, Index: i}))
}

func (s *ListSelect[In, Out]) onInsert(item In, index int) []change.ListEvent[Out] {
	e := s.newEntry(item)
	s.entries = slices.Insert(s.entries, index, e)
	return one[change.ListEvent[Out]](change.ListInsert[Out]{Item: e.value, Index: index})
}

func (s *ListSelect[In, Out]) onRemove(_ In, index int) []change.ListEvent[Out] {
	e := s.entries[index]
	e.sub.Stop()
	s.entries = slices.Delete(s.entries, index, index+1)
	return one[change.ListEvent[Out]](change.ListRemove[Out]{Item: e.value, Index: index})
}

func (s *ListSelect[In, Out]) onReplace(_, newItem In, index int) []change.ListEvent[Out] {
	old := s.entries[index]
	old.sub.Stop()
	e := s.newEntry(newItem)
	s.entries[index] = e
	return one[change.ListEvent[Out]](change.ListReplace[Out]{OldItem: old.value, NewItem: e.value, Index: index})
}

func (s *ListSelect[In, Out]) onMove(_ In, oldIndex, newIndex int) []change.ListEvent[Out] {
	e := s.entries[oldIndex]
	s.entries = slices.Insert(slices.Delete(s.entries, oldIndex, oldIndex+1), newIndex, e)
	return one[change.ListEvent[Out]](change.ListMove[Out]{Item: e.value, OldIndex: oldIndex, NewIndex: newIndex})
}

func (s *ListSelect[In, Out]) onReset(_, newItems []In) []change.ListEvent[Out] {
	old := s.values()
	s.release()
	for _, item := range newItems {
		s.entries = append(s.entries, s.newEntry(item))
	}
	return one[change.ListEvent[Out]](change.ListReset[Out]{OldItems: old, NewItems: s.values()})
}

func (s *ListSelect[In, Out]) release() {
	for _, e := range s.entries {
		e.sub.Stop()
	}
	s.entries = nil
}
