package operator

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.List[int] = &SkipAndTake[int]{}

// SkipAndTake exposes the window source[skip, skip+take) of a list. Both bounds are observable
// values; negative bounds are treated as zero. Every source edit and every bound change emits
// only the items entering or leaving the window.
type SkipAndTake[T comparable] struct {
	listBase[T]
	data       []T
	skip, take int
}

// NewSkipAndTake creates a window over src.
func NewSkipAndTake[T comparable](src collection.List[T], skip, take *observable.Value[int]) *SkipAndTake[T] {
	s := &SkipAndTake[T]{skip: max(skip.Get(), 0), take: max(take.Get(), 0)}
	s.listBase = newListBase("skip-and-take", s.values)
	s.addSource(attachList[T, change.ListEvent[T]](src, change.ListFuncs[T, []change.ListEvent[T]]{
		Insert:  s.onInsert,
		Remove:  s.onRemove,
		Replace: s.onReplace,
		Move:    s.onMove,
		Reset:   s.onReset,
		Empty:   s.empty,
	}, s.publish))
	s.addSource(skip.Changed().Subscribe(func(c observable.Change[int]) {
		s.setWindow(max(c.New, 0), s.take)
	}))
	s.addSource(take.Changed().Subscribe(func(c observable.Change[int]) {
		s.setWindow(s.skip, max(c.New, 0))
	}))
	return s
}

// bounds returns the window as a half-open index range into the current data.
func (s *SkipAndTake[T]) bounds() (int, int) {
	return window(s.skip, s.take, len(s.data))
}

func window(skip, take, n int) (int, int) {
	return min(skip, n), min(skip+take, n)
}

func (s *SkipAndTake[T]) values() []T {
	lo, hi := s.bounds()
	return slices.Clone(s.data[lo:hi])
}

func (s *SkipAndTake[T]) Count() int {
	lo, hi := s.bounds()
	return hi - lo
}

func (s *SkipAndTake[T]) At(i int) T {
	lo, hi := s.bounds()
	if i < 0 || lo+i >= hi {
		panic(collection.NewIndexError("at", i, hi-lo))
	}
	return s.data[lo+i]
}

func (s *SkipAndTake[T]) empty() []change.ListEvent[T] {
	return one[change.ListEvent[T]](change.ListEmpty[T]{})
}

func (s *SkipAndTake[T]) orEmpty(events []change.ListEvent[T]) []change.ListEvent[T] {
	if len(events) == 0 {
		return s.empty()
	}
	return events
}

func (s *SkipAndTake[T]) onInsert(item T, index int) []change.ListEvent[T] {
	old, sk, end := s.data, s.skip, s.skip+s.take
	s.data = slices.Insert(slices.Clone(s.data), index, item)
	if s.take == 0 || index >= end || sk > len(old) {
		return s.empty()
	}

	var events []change.ListEvent[T]
	// a full window pushes its last item out
	if end <= len(old) {
		events = append(events, change.ListRemove[T]{Item: old[end-1], Index: s.take - 1})
	}
	if index < sk {
		events = append(events, change.ListInsert[T]{Item: old[sk-1], Index: 0})
	} else {
		events = append(events, change.ListInsert[T]{Item: item, Index: index - sk})
	}
	return events
}

func (s *SkipAndTake[T]) onRemove(item T, index int) []change.ListEvent[T] {
	old, sk, end := s.data, s.skip, s.skip+s.take
	s.data = slices.Delete(slices.Clone(s.data), index, index+1)
	if s.take == 0 || index >= end || sk >= len(old) {
		return s.empty()
	}

	var events []change.ListEvent[T]
	if index < sk {
		events = append(events, change.ListRemove[T]{Item: old[sk], Index: 0})
	} else {
		events = append(events, change.ListRemove[T]{Item: item, Index: index - sk})
	}
	// the item after the window slides in
	if end < len(old) {
		events = append(events, change.ListInsert[T]{Item: old[end], Index: s.take - 1})
	}
	return events
}

func (s *SkipAndTake[T]) onReplace(oldItem, newItem T, index int) []change.ListEvent[T] {
	s.data[index] = newItem
	lo, hi := s.bounds()
	if index < lo || index >= hi {
		return s.empty()
	}
	return one[change.ListEvent[T]](change.ListReplace[T]{OldItem: oldItem, NewItem: newItem, Index: index - lo})
}

type region int

const (
	regionBefore region = iota
	regionInside
	regionAfter
)

func regionOf(i, lo, hi int) region {
	switch {
	case i < lo:
		return regionBefore
	case i < hi:
		return regionInside
	default:
		return regionAfter
	}
}

func (s *SkipAndTake[T]) onMove(item T, oldIndex, newIndex int) []change.ListEvent[T] {
	old := s.data
	lo, hi := s.bounds()
	s.data = slices.Insert(slices.Delete(slices.Clone(s.data), oldIndex, oldIndex+1), newIndex, item)
	if lo == hi {
		return s.empty()
	}

	from, to := regionOf(oldIndex, lo, hi), regionOf(newIndex, lo, hi)
	if from == to && from != regionInside {
		return s.empty()
	}

	// the first event takes the leaving item out of the window, the second brings the entering
	// item in; both indices are relative to the window
	var out, in change.ListEvent[T]
	switch from {
	case regionBefore:
		out = change.ListRemove[T]{Item: old[lo], Index: 0}
	case regionInside:
		if to == regionInside {
			return one[change.ListEvent[T]](change.ListMove[T]{Item: item, OldIndex: oldIndex - lo, NewIndex: newIndex - lo})
		}
		out = change.ListRemove[T]{Item: item, Index: oldIndex - lo}
	case regionAfter:
		out = change.ListRemove[T]{Item: old[hi-1], Index: hi - lo - 1}
	}
	switch to {
	case regionBefore:
		in = change.ListInsert[T]{Item: old[lo-1], Index: 0}
	case regionInside:
		in = change.ListInsert[T]{Item: item, Index: newIndex - lo}
	case regionAfter:
		in = change.ListInsert[T]{Item: old[hi], Index: hi - lo - 1}
	}
	return []change.ListEvent[T]{out, in}
}

func (s *SkipAndTake[T]) onReset(_, newItems []T) []change.ListEvent[T] {
	old := s.values()
	s.data = slices.Clone(newItems)
	return one[change.ListEvent[T]](change.ListReset[T]{OldItems: old, NewItems: s.values()})
}

// setWindow moves the window to the new bounds and publishes the difference.
func (s *SkipAndTake[T]) setWindow(skip, take int) {
	lo1, hi1 := s.bounds()
	s.skip, s.take = skip, take
	lo2, hi2 := s.bounds()
	s.log.V(4).Info("window changed", "skip", skip, "take", take)
	s.publish(windowDiff(s.data, lo1, hi1, lo2, hi2))
}

// windowDiff returns the events turning data[lo1:hi1] into data[lo2:hi2].
func windowDiff[T any](data []T, lo1, hi1, lo2, hi2 int) []change.ListEvent[T] {
	var events []change.ListEvent[T]
	if lo1 == hi1 || lo2 == hi2 || hi1 <= lo2 || hi2 <= lo1 {
		// disjoint: drop the old window back to front and insert the new one
		for i := hi1 - 1; i >= lo1; i-- {
			events = append(events, change.ListRemove[T]{Item: data[i], Index: i - lo1})
		}
		for i := lo2; i < hi2; i++ {
			events = append(events, change.ListInsert[T]{Item: data[i], Index: i - lo2})
		}
		return events
	}

	// front edge
	for i := lo1; i < lo2; i++ {
		events = append(events, change.ListRemove[T]{Item: data[i], Index: 0})
	}
	for i := lo1 - 1; i >= lo2; i-- {
		events = append(events, change.ListInsert[T]{Item: data[i], Index: 0})
	}
	// back edge, the window now starts at lo2
	for i := hi1 - 1; i >= hi2; i-- {
		events = append(events, change.ListRemove[T]{Item: data[i], Index: i - lo2})
	}
	for i := hi1; i < hi2; i++ {
		events = append(events, change.ListInsert[T]{Item: data[i], Index: i - lo2})
	}
	return events
}
