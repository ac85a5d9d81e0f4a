package operator

import (
	"slices"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

// Scheduler runs the application of a change batch to a sink, for example on a dedicated
// goroutine owning the sink.
type Scheduler interface {
	Schedule(fn func())
}

type immediate struct{}

func (immediate) Schedule(fn func()) { fn() }

// Immediate applies batches synchronously on the publishing goroutine.
var Immediate Scheduler = immediate{}

// QueueScheduler defers batches until Drain is called.
type QueueScheduler struct {
	queue []func()
}

// Schedule enqueues fn.
func (q *QueueScheduler) Schedule(fn func()) { q.queue = append(q.queue, fn) }

// Len returns the number of pending batches.
func (q *QueueScheduler) Len() int { return len(q.queue) }

// Drain runs all pending batches in order.
func (q *QueueScheduler) Drain() {
	for len(q.queue) > 0 {
		fn := q.queue[0]
		q.queue = q.queue[1:]
		fn()
	}
}

// ListSink is an ordered target that mirrors a list.
type ListSink[T any] interface {
	Insert(index int, item T)
	RemoveAt(index int)
	Set(index int, item T)
	Move(oldIndex, newIndex int)
	Reset(items []T)
}

// CollectionSink is an unordered target that mirrors a collection. *zset.ZSet implements it.
type CollectionSink[T any] interface {
	Apply(e change.Event[T])
}

// BindList mirrors src into sink. The current contents are applied first.
func BindList[T any](src collection.List[T], sink ListSink[T], sched Scheduler) observable.Subscription {
	return src.SubscribeList(func(events []change.ListEvent[T]) {
		sched.Schedule(func() {
			for _, e := range events {
				change.DispatchList[T, struct{}](e, change.ListFuncs[T, struct{}]{
					Insert:  func(item T, index int) struct{} { sink.Insert(index, item); return struct{}{} },
					Remove:  func(_ T, index int) struct{} { sink.RemoveAt(index); return struct{}{} },
					Replace: func(_, item T, index int) struct{} { sink.Set(index, item); return struct{}{} },
					Move:    func(_ T, o, n int) struct{} { sink.Move(o, n); return struct{}{} },
					Reset:   func(_, items []T) struct{} { sink.Reset(items); return struct{}{} },
				})
			}
		})
	})
}

// BindCollection mirrors src into sink. The current contents are applied first.
func BindCollection[T any](src collection.Collection[T], sink CollectionSink[T], sched Scheduler) observable.Subscription {
	return src.Subscribe(func(events []change.Event[T]) {
		sched.Schedule(func() {
			for _, e := range events {
				sink.Apply(e)
			}
		})
	})
}

var _ ListSink[int] = &SliceSink[int]{}

// SliceSink is a ListSink backed by a slice.
type SliceSink[T any] struct {
	Items []T
}

func (s *SliceSink[T]) Insert(index int, item T) { s.Items = slices.Insert(s.Items, index, item) }
func (s *SliceSink[T]) RemoveAt(index int)       { s.Items = slices.Delete(s.Items, index, index+1) }
func (s *SliceSink[T]) Set(index int, item T)    { s.Items[index] = item }
func (s *SliceSink[T]) Reset(items []T)          { s.Items = slices.Clone(items) }

func (s *SliceSink[T]) Move(oldIndex, newIndex int) {
	item := s.Items[oldIndex]
	s.Items = slices.Insert(slices.Delete(s.Items, oldIndex, oldIndex+1), newIndex, item)
}
