package operator

import (
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.Collection[int] = &SelectMany[string, int]{}

// SelectMany flattens the nested collections selected from each source item into one collection.
// Edits of a nested collection propagate to the output as the same kind of edit.
type SelectMany[In comparable, Out comparable] struct {
	collectionBase[Out]
	selector func(In) collection.Collection[Out]
	blocks   *tracker[In, *block[Out]]
	count    int
}

// block mirrors the contents of one nested collection.
type block[Out comparable] struct {
	items     []Out
	sub       observable.Subscription
	attaching bool
}

// NewSelectMany creates a SelectMany over src.
func NewSelectMany[In comparable, Out comparable](src collection.Collection[In], selector func(In) collection.Collection[Out]) *SelectMany[In, Out] {
	s := &SelectMany[In, Out]{
		selector: selector,
		blocks:   newTracker[In, *block[Out]](),
	}
	s.collectionBase = newCollectionBase("select-many", s.values)
	s.onStop = s.release
	s.addSource(attach[In, change.Event[Out]](src, change.Funcs[In, []change.Event[Out]]{
		Insert:  s.onInsert,
		Remove:  s.onRemove,
		Replace: s.onReplace,
		Reset:   s.onReset,
		Empty:   s.empty,
	}, s.publish))
	return s
}

func (s *SelectMany[In, Out]) values() []Out {
	ret := make([]Out, 0, s.count)
	s.blocks.each(func(_ In, b *block[Out]) { ret = append(ret, b.items...) })
	return ret
}

// Count returns the total number of flattened items.
func (s *SelectMany[In, Out]) Count() int { return s.count }

func (s *SelectMany[In, Out]) empty() []change.Event[Out] {
	return one[change.Event[Out]](change.Empty[Out]{})
}

// track subscribes to the nested collection of item. The replay delivered during the subscribe
// call seeds the block without producing output events.
func (s *SelectMany[In, Out]) track(item In) *block[Out] {
	b := &block[Out]{attaching: true}
	b.sub = s.selector(item).Subscribe(func(events []change.Event[Out]) { s.onNested(b, events) })
	b.attaching = false
	s.blocks.add(item, b)
	s.count += len(b.items)
	return b
}

func (s *SelectMany[In, Out]) untrack(item In) (*block[Out], bool) {
	b, ok := s.blocks.take(item)
	if !ok {
		s.log.Error(ErrUnknownItem, "ignoring event for untracked item", "item", item)
		return nil, false
	}
	b.sub.Stop()
	s.count -= len(b.items)
	return b, true
}

func (s *SelectMany[In, Out]) onNested(b *block[Out], events []change.Event[Out]) {
	if b.attaching {
		for _, e := range events {
			b.items = change.Apply(b.items, e)
		}
		return
	}

	out := make([]change.Event[Out], 0, len(events))
	for _, e := range events {
		switch ev := e.(type) {
		case change.Reset[Out]:
			// expand to item-level edits so that other blocks are unaffected
			n := len(out)
			for _, item := range b.items {
				out = append(out, change.Remove[Out]{Item: item})
			}
			for _, item := range ev.NewItems {
				out = append(out, change.Insert[Out]{Item: item})
			}
			s.count += len(ev.NewItems) - len(b.items)
			b.items = change.Apply(b.items, e)
			if len(out) == n {
				out = append(out, change.Empty[Out]{})
			}
		case change.Insert[Out]:
			s.count++
			b.items = change.Apply(b.items, e)
			out = append(out, e)
		case change.Remove[Out]:
			s.count--
			b.items = change.Apply(b.items, e)
			out = append(out, e)
		default:
			b.items = change.Apply(b.items, e)
			out = append(out, e)
		}
	}
	s.publish(out)
}

func (s *SelectMany[In, Out]) inserts(b *block[Out]) []change.Event[Out] {
	ret := make([]change.Event[Out], 0, len(b.items))
	for _, item := range b.items {
		ret = append(ret, change.Insert[Out]{Item: item})
	}
	return ret
}

func (s *SelectMany[In, Out]) removes(b *block[Out]) []change.Event[Out] {
	ret := make([]change.Event[Out], 0, len(b.items))
	for _, item := range b.items {
		ret = append(ret, change.Remove[Out]{Item: item})
	}
	return ret
}

func (s *SelectMany[In, Out]) orEmpty(events []change.Event[Out]) []change.Event[Out] {
	if len(events) == 0 {
		return s.empty()
	}
	return events
}

func (s *SelectMany[In, Out]) onInsert(item In) []change.Event[Out] {
	return s.orEmpty(s.inserts(s.track(item)))
}

func (s *SelectMany[In, Out]) onRemove(item In) []change.Event[Out] {
	b, ok := s.untrack(item)
	if !ok {
		return s.empty()
	}
	return s.orEmpty(s.removes(b))
}

func (s *SelectMany[In, Out]) onReplace(oldItem, newItem In) []change.Event[Out] {
	var events []change.Event[Out]
	if b, ok := s.untrack(oldItem); ok {
		events = s.removes(b)
	}
	events = append(events, s.inserts(s.track(newItem))...)
	return s.orEmpty(events)
}

func (s *SelectMany[In, Out]) onReset(_, newItems []In) []change.Event[Out] {
	old := s.values()
	s.release()
	for _, item := range newItems {
		s.track(item)
	}
	return one[change.Event[Out]](change.Reset[Out]{OldItems: old, NewItems: s.values()})
}

func (s *SelectMany[In, Out]) release() {
	s.blocks.each(func(_ In, b *block[Out]) { b.sub.Stop() })
	s.blocks.clear()
	s.count = 0
}
