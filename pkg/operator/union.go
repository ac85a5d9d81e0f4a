package operator

import (
	"github.com/l7mp/rcollections/pkg/collection"
)

var (
	_ collection.Collection[int] = &Union[int]{}
	_ collection.Collection[int] = &UnionBy[int, string]{}
)

// UnionBy merges two collections and keeps one item per key. The sources are held in a
// collection of collections that is flattened and then made distinct by key. Item changes
// reported by changes may move an item to another key.
type UnionBy[T comparable, K comparable] struct {
	*Distinct[T, K]
	sources *collection.MutableCollection[collection.Collection[T]]
	flat    *SelectMany[collection.Collection[T], T]
}

// NewUnionBy creates the union of first and second by key. changes may be nil.
func NewUnionBy[T comparable, K comparable](first, second collection.Collection[T], key func(T) K, changes ItemChanges[T]) *UnionBy[T, K] {
	sources := collection.NewMutableCollection(first, second)
	flat := NewSelectMany(sources, func(c collection.Collection[T]) collection.Collection[T] { return c })
	return &UnionBy[T, K]{
		Distinct: NewDistinct[T, K](flat, key, changes),
		sources:  sources,
		flat:     flat,
	}
}

// Stop stops the union and its intermediate stages.
func (u *UnionBy[T, K]) Stop() {
	u.Distinct.Stop()
	u.flat.Stop()
}

// Union merges two collections and removes duplicate items.
type Union[T comparable] struct {
	*UnionBy[T, T]
}

// NewUnion creates the union of first and second.
func NewUnion[T comparable](first, second collection.Collection[T]) *Union[T] {
	return &Union[T]{UnionBy: NewUnionBy(first, second, func(item T) T { return item }, nil)}
}
