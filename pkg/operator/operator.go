package operator

import (
	"github.com/go-logr/logr"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

// Operator is the common surface of all operators.
type Operator interface {
	// Name returns the operator name used in logs and metrics.
	Name() string
	// Stop detaches the operator from its sources and releases all per-item subscriptions.
	Stop()
}

// baseOp holds what every operator shares: a name, a logger and the source subscriptions.
type baseOp struct {
	name    string
	log     logr.Logger
	sources []observable.Subscription
	stopped bool
	onStop  func()
}

func newBaseOp(name string) baseOp {
	operatorsActive.WithLabelValues(name).Inc()
	l := log.WithName(name)
	l.V(1).Info("operator created")
	return baseOp{name: name, log: l}
}

func (b *baseOp) Name() string { return b.name }

func (b *baseOp) addSource(sub observable.Subscription) {
	b.sources = append(b.sources, sub)
}

// Stop unsubscribes from all sources. It is idempotent.
func (b *baseOp) Stop() {
	if b.stopped {
		return
	}
	b.stopped = true
	for _, sub := range b.sources {
		sub.Stop()
	}
	b.sources = nil
	if b.onStop != nil {
		b.onStop()
	}
	operatorsActive.WithLabelValues(b.name).Dec()
	b.log.V(1).Info("operator stopped")
}

func (b *baseOp) trace(events []change.Kind) {
	countBatch(b.name, events)
	if b.log.V(5).Enabled() {
		b.log.V(5).Info("publishing batch", "events", events)
	}
}

// collectionBase is the output side of an operator producing an unordered collection.
type collectionBase[Out any] struct {
	baseOp
	subject  *observable.Subject[[]change.Event[Out]]
	snapshot func() []Out
}

func newCollectionBase[Out any](name string, snapshot func() []Out) collectionBase[Out] {
	return collectionBase[Out]{
		baseOp:   newBaseOp(name),
		subject:  observable.NewSubject[[]change.Event[Out]](),
		snapshot: snapshot,
	}
}

func (b *collectionBase[Out]) Items() []Out { return b.snapshot() }
func (b *collectionBase[Out]) Count() int   { return len(b.snapshot()) }

// Subscribe replays the current contents as a Reset and then registers fn for live batches.
func (b *collectionBase[Out]) Subscribe(fn func([]change.Event[Out])) observable.Subscription {
	fn([]change.Event[Out]{change.Reset[Out]{NewItems: b.snapshot()}})
	return b.subject.Subscribe(fn)
}

func (b *collectionBase[Out]) publish(events []change.Event[Out]) {
	if len(events) == 0 {
		return
	}
	kinds := make([]change.Kind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	b.trace(kinds)
	b.subject.Publish(events)
}

// listBase is the output side of an operator producing a list.
type listBase[Out any] struct {
	baseOp
	subject  *observable.Subject[[]change.ListEvent[Out]]
	snapshot func() []Out
}

func newListBase[Out any](name string, snapshot func() []Out) listBase[Out] {
	return listBase[Out]{
		baseOp:   newBaseOp(name),
		subject:  observable.NewSubject[[]change.ListEvent[Out]](),
		snapshot: snapshot,
	}
}

func (b *listBase[Out]) Items() []Out { return b.snapshot() }
func (b *listBase[Out]) Count() int   { return len(b.snapshot()) }

// SubscribeList replays the current contents as a ListReset and then registers fn.
func (b *listBase[Out]) SubscribeList(fn func([]change.ListEvent[Out])) observable.Subscription {
	fn([]change.ListEvent[Out]{change.ListReset[Out]{NewItems: b.snapshot()}})
	return b.subject.Subscribe(fn)
}

// Subscribe delivers the collection-level projection of the list stream.
func (b *listBase[Out]) Subscribe(fn func([]change.Event[Out])) observable.Subscription {
	return b.SubscribeList(func(events []change.ListEvent[Out]) { fn(change.Project(events)) })
}

func (b *listBase[Out]) publish(events []change.ListEvent[Out]) {
	if len(events) == 0 {
		return
	}
	kinds := make([]change.Kind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	b.trace(kinds)
	b.subject.Publish(events)
}

// attach routes every collection batch of src through h and hands the concatenated result to
// publish as a single batch.
func attach[In, R any](src collection.Collection[In], h change.Handler[In, []R], publish func([]R)) observable.Subscription {
	return src.Subscribe(func(events []change.Event[In]) {
		out := make([]R, 0, len(events))
		for _, e := range events {
			out = append(out, change.Dispatch(e, h)...)
		}
		publish(out)
	})
}

// attachList is attach for list sources.
func attachList[In, R any](src collection.List[In], h change.ListHandler[In, []R], publish func([]R)) observable.Subscription {
	return src.SubscribeList(func(events []change.ListEvent[In]) {
		out := make([]R, 0, len(events))
		for _, e := range events {
			out = append(out, change.DispatchList(e, h)...)
		}
		publish(out)
	})
}

func one[E any](e E) []E { return []E{e} }
