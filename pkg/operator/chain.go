package operator

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

// stages is the list of operators created along a chain, in creation order.
type stages []Operator

func (s stages) then(op Operator) stages {
	return append(slices.Clip(s), op)
}

// Stop stops every operator of the chain, the most recent one first.
func (s stages) Stop() {
	for i := len(s) - 1; i >= 0; i-- {
		s[i].Stop()
	}
}

// Stages returns the operators of the chain in creation order.
func (s stages) Stages() []Operator { return slices.Clone(s) }

// CollectionChain wraps a collection for fluent composition. Each call creates a new operator
// subscribed to the current tail.
type CollectionChain[T comparable] struct {
	collection.Collection[T]
	stages
}

// From starts a chain at src.
func From[T comparable](src collection.Collection[T]) CollectionChain[T] {
	return CollectionChain[T]{Collection: src}
}

func extendCollection[T comparable, O interface {
	collection.Collection[T]
	Operator
}](s stages, op O) CollectionChain[T] {
	return CollectionChain[T]{Collection: op, stages: s.then(op)}
}

// Where filters the chain.
func (c CollectionChain[T]) Where(predicate func(T) bool, changes ItemChanges[T]) CollectionChain[T] {
	return extendCollection[T](c.stages, NewWhere(c.Collection, predicate, changes))
}

// Distinct removes duplicates.
func (c CollectionChain[T]) Distinct() CollectionChain[T] {
	return extendCollection[T](c.stages, NewDistinctItems(c.Collection))
}

// Union merges the chain with other and removes duplicates.
func (c CollectionChain[T]) Union(other collection.Collection[T]) CollectionChain[T] {
	return extendCollection[T](c.stages, NewUnion(c.Collection, other))
}

// CountValue returns an observable count of the chain.
func (c CollectionChain[T]) CountValue() *Scalar[int] {
	return Count(c.Collection)
}

// SomeItemOrDefault returns an observable arbitrary item of the chain.
func (c CollectionChain[T]) SomeItemOrDefault(def T) *Scalar[T] {
	return SomeItemOrDefault(c.Collection, def)
}

// ListChain wraps a list for fluent composition.
type ListChain[T comparable] struct {
	collection.List[T]
	stages
}

// FromList starts a chain at src.
func FromList[T comparable](src collection.List[T]) ListChain[T] {
	return ListChain[T]{List: src}
}

func extendList[T comparable, O interface {
	collection.List[T]
	Operator
}](s stages, op O) ListChain[T] {
	return ListChain[T]{List: op, stages: s.then(op)}
}

// Where filters the chain preserving order.
func (l ListChain[T]) Where(predicate func(T) bool, changes ItemChanges[T]) ListChain[T] {
	return extendList[T](l.stages, NewListWhere(l.List, predicate, changes))
}

// Window restricts the chain to the slice [skip, skip+take).
func (l ListChain[T]) Window(skip, take *observable.Value[int]) ListChain[T] {
	return extendList[T](l.stages, NewSkipAndTake(l.List, skip, take))
}

// AsCollection continues the chain without ordering.
func (l ListChain[T]) AsCollection() CollectionChain[T] {
	return CollectionChain[T]{Collection: l.List, stages: l.stages}
}

// FirstOrDefault returns an observable first item of the chain.
func (l ListChain[T]) FirstOrDefault(def T) *Scalar[T] {
	return FirstOrDefault(l.List, def)
}

// Type-changing steps cannot be methods, as Go methods take no type parameters.

// ChainSelect maps a collection chain.
func ChainSelect[In, Out comparable](c CollectionChain[In], selector func(In) Out, changes ItemChanges[In]) CollectionChain[Out] {
	return extendCollection[Out](c.stages, NewSelect(c.Collection, selector, changes))
}

// ChainListSelect maps a list chain preserving order.
func ChainListSelect[In, Out comparable](l ListChain[In], selector func(In) Out, changes ItemChanges[In]) ListChain[Out] {
	return extendList[Out](l.stages, NewListSelect(l.List, selector, changes))
}

// ChainSort orders a collection chain by key.
func ChainSort[T comparable, K any](c CollectionChain[T], key func(T) K, compare func(a, b K) int, changes ItemChanges[T]) ListChain[T] {
	return extendList[T](c.stages, NewSort(c.Collection, key, compare, changes))
}

// ChainDistinct keeps one item per key of a collection chain.
func ChainDistinct[T, K comparable](c CollectionChain[T], key func(T) K, changes ItemChanges[T]) CollectionChain[T] {
	return extendCollection[T](c.stages, NewDistinct(c.Collection, key, changes))
}

// ChainUnionBy merges a collection chain with other keeping one item per key.
func ChainUnionBy[T, K comparable](c CollectionChain[T], other collection.Collection[T], key func(T) K, changes ItemChanges[T]) CollectionChain[T] {
	return extendCollection[T](c.stages, NewUnionBy(c.Collection, other, key, changes))
}

// ChainGroupBy groups a collection chain by key.
func ChainGroupBy[T, K comparable](c CollectionChain[T], key func(T) K, changes ItemChanges[T]) CollectionChain[*Group[K, T]] {
	return extendCollection[*Group[K, T]](c.stages, NewGroupBy(c.Collection, key, changes))
}

// ChainSelectMany flattens a collection chain.
func ChainSelectMany[In, Out comparable](c CollectionChain[In], selector func(In) collection.Collection[Out]) CollectionChain[Out] {
	return extendCollection[Out](c.stages, NewSelectMany(c.Collection, selector))
}
