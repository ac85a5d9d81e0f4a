package operator

import (
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.Collection[int] = &Distinct[int, int]{}

// Distinct keeps one representative item per key. It is a GroupBy on the key followed by a Select
// picking the earliest item of every group; when the representative leaves its group the next
// item takes over.
//
// GroupBy publishes a batch after it has applied all of it, so a group created and dropped within
// one batch is already empty when its Insert arrives. Such groups are filtered out before the
// representative is taken.
type Distinct[T comparable, K comparable] struct {
	*Select[*Group[K, T], T]
	live   *Where[*Group[K, T]]
	groups *GroupBy[T, K]
}

// NewDistinct creates a Distinct over src by key. changes may be nil.
func NewDistinct[T comparable, K comparable](src collection.Collection[T], key func(T) K, changes ItemChanges[T]) *Distinct[T, K] {
	groups := NewGroupBy(src, key, changes)
	live := NewWhere[*Group[K, T]](groups, nonEmpty[K, T], nil)
	return &Distinct[T, K]{
		Select: NewSelect[*Group[K, T], T](live, representative[K, T], groupChanges[K, T]),
		live:   live,
		groups: groups,
	}
}

// NewDistinctItems creates a Distinct over src by item equality.
func NewDistinctItems[T comparable](src collection.Collection[T]) *Distinct[T, T] {
	return NewDistinct(src, func(item T) T { return item }, nil)
}

// Groups exposes the underlying grouping.
func (d *Distinct[T, K]) Groups() *GroupBy[T, K] { return d.groups }

// Stop stops the representative selection and the grouping.
func (d *Distinct[T, K]) Stop() {
	d.Select.Stop()
	d.live.Stop()
	d.groups.Stop()
}

// nonEmpty is stable per group: a dropped group is never refilled.
func nonEmpty[K, T comparable](g *Group[K, T]) bool {
	return g.Count() > 0
}

func representative[K, T comparable](g *Group[K, T]) T {
	return g.At(0)
}

// groupChanges fires on every change of a non-empty group after the initial replay.
func groupChanges[K, T comparable](g *Group[K, T]) observable.Stream[struct{}] {
	return observable.StreamFunc[struct{}](func(fn func(struct{})) observable.Subscription {
		primed := false
		return g.Subscribe(func([]change.Event[T]) {
			if !primed {
				primed = true
				return
			}
			if g.Count() > 0 {
				fn(struct{}{})
			}
		})
	})
}
