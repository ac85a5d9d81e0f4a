package operator

import "container/list"

// tracker is an insertion-ordered multimap. Values sharing a key are kept in arrival order and
// take removes the earliest one.
type tracker[K comparable, V any] struct {
	order *list.List
	index map[K][]*list.Element
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

func newTracker[K comparable, V any]() *tracker[K, V] {
	return &tracker[K, V]{order: list.New(), index: make(map[K][]*list.Element)}
}

func (t *tracker[K, V]) add(key K, value V) {
	el := t.order.PushBack(&entry[K, V]{key: key, value: value})
	t.index[key] = append(t.index[key], el)
}

func (t *tracker[K, V]) peek(key K) (V, bool) {
	els := t.index[key]
	if len(els) == 0 {
		var zero V
		return zero, false
	}
	return els[0].Value.(*entry[K, V]).value, true
}

func (t *tracker[K, V]) take(key K) (V, bool) {
	els := t.index[key]
	if len(els) == 0 {
		var zero V
		return zero, false
	}
	el := els[0]
	if len(els) == 1 {
		delete(t.index, key)
	} else {
		t.index[key] = els[1:]
	}
	t.order.Remove(el)
	return el.Value.(*entry[K, V]).value, true
}

func (t *tracker[K, V]) each(fn func(K, V)) {
	for el := t.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry[K, V])
		fn(e.key, e.value)
	}
}

func (t *tracker[K, V]) values() []V {
	ret := make([]V, 0, t.order.Len())
	t.each(func(_ K, v V) { ret = append(ret, v) })
	return ret
}

func (t *tracker[K, V]) clear() {
	t.order.Init()
	t.index = make(map[K][]*list.Element)
}

func (t *tracker[K, V]) len() int { return t.order.Len() }
