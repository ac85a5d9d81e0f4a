package operator

import "github.com/l7mp/rcollections/pkg/observable"

// ItemChanges returns a stream that fires whenever the given item's relevant state changes.
type ItemChanges[T any] func(T) observable.Stream[struct{}]

func (f ItemChanges[T]) subscribe(item T, fn func()) observable.Subscription {
	if f == nil {
		return observable.NopSubscription
	}
	return f(item).Subscribe(func(struct{}) { fn() })
}

// ValueChanges adapts an accessor returning an observable value to ItemChanges.
func ValueChanges[T, V any](get func(T) *observable.Value[V]) ItemChanges[T] {
	return func(item T) observable.Stream[struct{}] {
		return observable.Signal(get(item).Changed())
	}
}
