package operator

import (
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/maps"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ collection.List[int] = &Group[string, int]{}

// Group is a bucket of GroupBy: the items currently sharing Key. A group is itself an observable
// list of its items in arrival order.
type Group[K comparable, T comparable] struct {
	key   K
	items *collection.MutableList[T]
}

func newGroup[K, T comparable](key K) *Group[K, T] {
	return &Group[K, T]{key: key, items: collection.NewMutableList[T]()}
}

// Key returns the group key.
func (g *Group[K, T]) Key() K               { return g.key }
func (g *Group[K, T]) Items() []T           { return g.items.Items() }
func (g *Group[K, T]) Count() int           { return g.items.Count() }
func (g *Group[K, T]) At(i int) T           { return g.items.At(i) }
func (g *Group[K, T]) Contains(item T) bool { return g.items.Contains(item) }

func (g *Group[K, T]) Subscribe(fn func([]change.Event[T])) observable.Subscription {
	return g.items.Subscribe(fn)
}

func (g *Group[K, T]) SubscribeList(fn func([]change.ListEvent[T])) observable.Subscription {
	return g.items.SubscribeList(fn)
}

var _ collection.Collection[*Group[int, int]] = &GroupBy[int, int]{}

// GroupBy partitions a collection into groups by key. The output is the collection of non-empty
// groups: a group appears when its first item arrives and disappears when its last item leaves.
// Item changes may move an item between groups. A batch is published after all of it has been
// applied, so subscribers see every group in its end-of-batch state; a group created and dropped
// within one batch arrives empty, followed by its Remove.
type GroupBy[T comparable, K comparable] struct {
	collectionBase[*Group[K, T]]
	keyFn   func(T) K
	changes ItemChanges[T]
	groups  *tracker[K, *Group[K, T]]
	items   *tracker[T, *groupContainer[K, T]]
}

type groupContainer[K comparable, T comparable] struct {
	item  T
	group *Group[K, T]
	sub   observable.Subscription
}

// NewGroupBy creates a GroupBy over src. changes may be nil.
func NewGroupBy[T comparable, K comparable](src collection.Collection[T], key func(T) K, changes ItemChanges[T]) *GroupBy[T, K] {
	g := &GroupBy[T, K]{
		keyFn:   key,
		changes: changes,
		groups:  newTracker[K, *Group[K, T]](),
		items:   newTracker[T, *groupContainer[K, T]](),
	}
	g.collectionBase = newCollectionBase("group-by", g.groups.values)
	g.onStop = g.release
	g.addSource(attach[T, change.Event[*Group[K, T]]](src, change.Funcs[T, []change.Event[*Group[K, T]]]{
		Insert:  g.onInsert,
		Remove:  g.onRemove,
		Replace: g.onReplace,
		Reset:   g.onReset,
		Empty:   g.empty,
	}, g.publish))
	return g
}

// Count returns the number of groups.
func (g *GroupBy[T, K]) Count() int { return g.groups.len() }

// Contains reports whether a group exists for key.
func (g *GroupBy[T, K]) Contains(key K) bool {
	_, ok := g.groups.peek(key)
	return ok
}

// Lookup returns the group for key.
func (g *GroupBy[T, K]) Lookup(key K) (*Group[K, T], bool) {
	return g.groups.peek(key)
}

// Keys returns the current group keys in unspecified order.
func (g *GroupBy[T, K]) Keys() []K {
	return maps.Keys(g.groups.index)
}

// KeySet returns a snapshot of the current group keys as a set.
func (g *GroupBy[T, K]) KeySet() mapset.Set[K] {
	return mapset.NewThreadUnsafeSet(g.Keys()...)
}

func (g *GroupBy[T, K]) empty() []change.Event[*Group[K, T]] {
	return one[change.Event[*Group[K, T]]](change.Empty[*Group[K, T]]{})
}

// join adds item to the group for key, creating the group if needed. A new group is populated
// before it is reported.
func (g *GroupBy[T, K]) join(item T, key K) (*Group[K, T], []change.Event[*Group[K, T]]) {
	if grp, ok := g.groups.peek(key); ok {
		grp.items.Add(item)
		return grp, nil
	}
	grp := newGroup[K, T](key)
	grp.items.Add(item)
	g.groups.add(key, grp)
	g.log.V(4).Info("group created", "key", key)
	return grp, one[change.Event[*Group[K, T]]](change.Insert[*Group[K, T]]{Item: grp})
}

// leave removes item from grp and drops the group if it became empty.
func (g *GroupBy[T, K]) leave(item T, grp *Group[K, T]) []change.Event[*Group[K, T]] {
	grp.items.Remove(item)
	if grp.Count() > 0 {
		return nil
	}
	g.groups.take(grp.key)
	g.log.V(4).Info("group dropped", "key", grp.key)
	return one[change.Event[*Group[K, T]]](change.Remove[*Group[K, T]]{Item: grp})
}

func (g *GroupBy[T, K]) track(item T) []change.Event[*Group[K, T]] {
	grp, events := g.join(item, g.keyFn(item))
	c := &groupContainer[K, T]{item: item, group: grp}
	c.sub = g.changes.subscribe(item, func() { g.onItemChanged(c) })
	g.items.add(item, c)
	return events
}

func (g *GroupBy[T, K]) untrack(item T) (*groupContainer[K, T], bool) {
	c, ok := g.items.take(item)
	if !ok {
		g.log.Error(ErrUnknownItem, "ignoring event for untracked item", "item", item)
		return nil, false
	}
	c.sub.Stop()
	return c, true
}

func (g *GroupBy[T, K]) onItemChanged(c *groupContainer[K, T]) {
	key := g.keyFn(c.item)
	if key == c.group.key {
		return
	}
	events := g.leave(c.item, c.group)
	grp, joined := g.join(c.item, key)
	c.group = grp
	g.publish(append(events, joined...))
}

func (g *GroupBy[T, K]) onInsert(item T) []change.Event[*Group[K, T]] {
	if events := g.track(item); len(events) > 0 {
		return events
	}
	return g.empty()
}

func (g *GroupBy[T, K]) onRemove(item T) []change.Event[*Group[K, T]] {
	c, ok := g.untrack(item)
	if !ok {
		return g.empty()
	}
	if events := g.leave(item, c.group); len(events) > 0 {
		return events
	}
	return g.empty()
}

func (g *GroupBy[T, K]) onReplace(oldItem, newItem T) []change.Event[*Group[K, T]] {
	c, ok := g.untrack(oldItem)
	if !ok {
		return g.onInsert(newItem)
	}

	// same key: replace within the group
	if key := g.keyFn(newItem); key == c.group.key {
		c.group.items.Replace(oldItem, newItem)
		nc := &groupContainer[K, T]{item: newItem, group: c.group}
		nc.sub = g.changes.subscribe(newItem, func() { g.onItemChanged(nc) })
		g.items.add(newItem, nc)
		return g.empty()
	}

	events := g.leave(oldItem, c.group)
	events = append(events, g.track(newItem)...)
	if len(events) == 0 {
		return g.empty()
	}
	return events
}

func (g *GroupBy[T, K]) onReset(_, newItems []T) []change.Event[*Group[K, T]] {
	old := g.groups.values()
	g.release()
	for _, item := range newItems {
		g.track(item)
	}
	return one[change.Event[*Group[K, T]]](change.Reset[*Group[K, T]]{OldItems: old, NewItems: g.groups.values()})
}

func (g *GroupBy[T, K]) release() {
	g.items.each(func(_ T, c *groupContainer[K, T]) { c.sub.Stop() })
	g.items.clear()
	g.groups.clear()
}
