package observable

import "fmt"

// Change describes a transition of an observable value.
type Change[T any] struct {
	Old, New T
}

// String implements fmt.Stringer.
func (c Change[T]) String() string {
	return fmt.Sprintf("%v->%v", c.Old, c.New)
}

// Value is a single-value observable. Setting a value equal to the current one is a no-op.
type Value[T any] struct {
	value   T
	equal   func(a, b T) bool
	changed *Subject[Change[T]]
}

// NewValue creates a value holder for a comparable type.
func NewValue[T comparable](v T) *Value[T] {
	return NewValueFunc(v, func(a, b T) bool { return a == b })
}

// NewValueFunc creates a value holder with a caller-supplied equality.
func NewValueFunc[T any](v T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{value: v, equal: equal, changed: NewSubject[Change[T]]()}
}

// Get returns the current value.
func (v *Value[T]) Get() T { return v.value }

// Set stores a new value and notifies subscribers if it differs from the current one.
func (v *Value[T]) Set(value T) {
	if v.equal(v.value, value) {
		return
	}
	c := Change[T]{Old: v.value, New: value}
	v.value = value
	v.changed.Publish(c)
}

// Changed returns the stream of value transitions.
func (v *Value[T]) Changed() Stream[Change[T]] { return v.changed }

// String implements fmt.Stringer.
func (v *Value[T]) String() string { return fmt.Sprintf("%v", v.value) }
