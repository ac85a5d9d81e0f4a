package collection

import (
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/observable"
)

// Collection is a read-only observable collection.
type Collection[T any] interface {
	// Items returns a snapshot of the current contents.
	Items() []T
	// Count returns the number of items.
	Count() int
	// Subscribe registers fn for change batches. The first call to fn happens before Subscribe
	// returns and carries a Reset with the current contents.
	Subscribe(fn func([]change.Event[T])) observable.Subscription
}

// List is a read-only observable list.
type List[T any] interface {
	Collection[T]
	// At returns the item at index i. It panics if i is out of range.
	At(i int) T
	// SubscribeList is like Subscribe but delivers list events.
	SubscribeList(fn func([]change.ListEvent[T])) observable.Subscription
}

// Transaction is an open transaction on a mutable collection. Mutations made while the
// transaction is open are published as a single batch when it is closed.
type Transaction struct {
	commit func()
	closed bool
}

// Close publishes the buffered events and ends the transaction. Calling Close more than once is a
// no-op.
func (t *Transaction) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.commit()
}

// emitter publishes events one at a time or buffers them while a transaction is open.
type emitter[E any] struct {
	subject *observable.Subject[[]E]
	pending []E
	inTx    bool
}

func newEmitter[E any]() *emitter[E] {
	return &emitter[E]{subject: observable.NewSubject[[]E]()}
}

func (e *emitter[E]) emit(ev E) {
	if e.inTx {
		e.pending = append(e.pending, ev)
		return
	}
	e.subject.Publish([]E{ev})
}

func (e *emitter[E]) begin(onCommit func()) (*Transaction, error) {
	if e.inTx {
		return nil, ErrTransactionInProgress
	}
	e.inTx = true
	return &Transaction{commit: func() {
		batch := e.pending
		e.pending, e.inTx = nil, false
		onCommit()
		if len(batch) > 0 {
			e.subject.Publish(batch)
		}
	}}, nil
}

func indexOf[T comparable](items []T, item T) int {
	for i := range items {
		if items[i] == item {
			return i
		}
	}
	return -1
}
