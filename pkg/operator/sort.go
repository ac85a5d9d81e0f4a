package operator

import (
	"cmp"
	"slices"
	"sort"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.List[int] = &Sort[int, int]{}

// Sort orders the items of a collection by a key. Each item's key is computed once on arrival and
// stored, so removals locate the item by its stored key even if the item has since changed.
// Items with equal keys keep their arrival order.
type Sort[T comparable, K any] struct {
	listBase[T]
	key     func(T) K
	compare func(a, b K) int
	changes ItemChanges[T]
	sorted  []*sortContainer[T, K]
	index   map[T][]*sortContainer[T, K]
}

type sortContainer[T, K any] struct {
	item T
	key  K
	sub  observable.Subscription
}

// NewSort creates a Sort over src ordering by key under compare. changes may be nil.
func NewSort[T comparable, K any](src collection.Collection[T], key func(T) K, compare func(a, b K) int, changes ItemChanges[T]) *Sort[T, K] {
	s := &Sort[T, K]{
		key:     key,
		compare: compare,
		changes: changes,
		index:   make(map[T][]*sortContainer[T, K]),
	}
	s.listBase = newListBase("sort", s.values)
	s.onStop = s.release
	s.addSource(attach[T, change.ListEvent[T]](src, change.Funcs[T, []change.ListEvent[T]]{
		Insert:  s.onInsert,
		Remove:  s.onRemove,
		Replace: s.onReplace,
		Reset:   s.onReset,
		Empty:   func() []change.ListEvent[T] { return one[change.ListEvent[T]](change.ListEmpty[T]{}) },
	}, s.publish))
	return s
}

// NewSortOrdered is NewSort for naturally ordered keys.
func NewSortOrdered[T comparable, K cmp.Ordered](src collection.Collection[T], key func(T) K, changes ItemChanges[T]) *Sort[T, K] {
	return NewSort(src, key, cmp.Compare[K], changes)
}

func (s *Sort[T, K]) values() []T {
	ret := make([]T, len(s.sorted))
	for i, c := range s.sorted {
		ret[i] = c.item
	}
	return ret
}

func (s *Sort[T, K]) Count() int { return len(s.sorted) }
func (s *Sort[T, K]) At(i int) T { return s.sorted[i].item }

// upperBound returns the index after the last container with a key equal to k.
func (s *Sort[T, K]) upperBound(k K) int {
	return sort.Search(len(s.sorted), func(i int) bool { return s.compare(s.sorted[i].key, k) > 0 })
}

// position locates c by binary search on its stored key, then scans the run of equal keys.
func (s *Sort[T, K]) position(c *sortContainer[T, K]) int {
	i := sort.Search(len(s.sorted), func(i int) bool { return s.compare(s.sorted[i].key, c.key) >= 0 })
	for ; i < len(s.sorted) && s.compare(s.sorted[i].key, c.key) == 0; i++ {
		if s.sorted[i] == c {
			return i
		}
	}
	return -1
}

func (s *Sort[T, K]) insert(c *sortContainer[T, K]) int {
	i := s.upperBound(c.key)
	s.sorted = slices.Insert(s.sorted, i, c)
	return i
}

func (s *Sort[T, K]) delete(c *sortContainer[T, K]) int {
	i := s.position(c)
	if i >= 0 {
		s.sorted = slices.Delete(s.sorted, i, i+1)
	}
	return i
}

func (s *Sort[T, K]) track(item T) *sortContainer[T, K] {
	c := &sortContainer[T, K]{item: item, key: s.key(item)}
	c.sub = s.changes.subscribe(item, func() { s.onItemChanged(c) })
	s.index[item] = append(s.index[item], c)
	return c
}

func (s *Sort[T, K]) untrack(item T) (*sortContainer[T, K], bool) {
	cs := s.index[item]
	if len(cs) == 0 {
		s.log.Error(ErrUnknownItem, "ignoring event for untracked item", "item", item)
		return nil, false
	}
	c := cs[0]
	if len(cs) == 1 {
		delete(s.index, item)
	} else {
		s.index[item] = cs[1:]
	}
	c.sub.Stop()
	return c, true
}

func (s *Sort[T, K]) onItemChanged(c *sortContainer[T, K]) {
	k := s.key(c.item)
	if s.compare(k, c.key) == 0 {
		c.key = k
		return
	}
	oldIndex := s.delete(c)
	c.key = k
	newIndex := s.insert(c)
	if oldIndex == newIndex {
		return
	}
	s.publish(one[change.ListEvent[T]](change.ListMove[T]{Item: c.item, OldIndex: oldIndex, NewIndex: newIndex}))
}

func (s *Sort[T, K]) onInsert(item T) []change.ListEvent[T] {
	c := s.track(item)
	i := s.insert(c)
	return one[change.ListEvent[T]](change.ListInsert[T]{Item: item, Index: i})
}

func (s *Sort[T, K]) onRemove(item T) []change.ListEvent[T] {
	c, ok := s.untrack(item)
	if !ok {
		return one[change.ListEvent[T]](change.ListEmpty[T]{})
	}
	i := s.delete(c)
	return one[change.ListEvent[T]](change.ListRemove[T]{Item: item, Index: i})
}

func (s *Sort[T, K]) onReplace(oldItem, newItem T) []change.ListEvent[T] {
	oc, ok := s.untrack(oldItem)
	if !ok {
		return s.onInsert(newItem)
	}
	oldIndex := s.delete(oc)
	nc := s.track(newItem)
	newIndex := s.insert(nc)
	if oldIndex == newIndex {
		return one[change.ListEvent[T]](change.ListReplace[T]{OldItem: oldItem, NewItem: newItem, Index: newIndex})
	}
	return []change.ListEvent[T]{
		change.ListRemove[T]{Item: oldItem, Index: oldIndex},
		change.ListInsert[T]{Item: newItem, Index: newIndex},
	}
}

func (s *Sort[T, K]) onReset(_, newItems []T) []change.ListEvent[T] {
	old := s.values()
	s.release()
	for _, item := range newItems {
		s.sorted = append(s.sorted, s.track(item))
	}
	slices.SortStableFunc(s.sorted, func(a, b *sortContainer[T, K]) int { return s.compare(a.key, b.key) })
	return one[change.ListEvent[T]](change.ListReset[T]{OldItems: old, NewItems: s.values()})
}

func (s *Sort[T, K]) release() {
	for _, c := range s.sorted {
		c.sub.Stop()
	}
	s.sorted = nil
	s.index = make(map[T][]*sortContainer[T, K])
}
