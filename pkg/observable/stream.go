package observable

// Subscription is a handle to a live subscription. Stop is idempotent.
type Subscription interface {
	Stop()
}

// SubscriptionFunc adapts a plain function to the Subscription interface.
type SubscriptionFunc func()

// Stop calls f.
func (f SubscriptionFunc) Stop() {
	if f != nil {
		f()
	}
}

// NopSubscription is a subscription that does nothing when stopped.
var NopSubscription Subscription = SubscriptionFunc(nil)

// Stream is a source of events of type E.
type Stream[E any] interface {
	// Subscribe registers fn to be called for each event published after the call returns.
	Subscribe(fn func(E)) Subscription
}

// StreamFunc adapts a subscribe function to the Stream interface.
type StreamFunc[E any] func(fn func(E)) Subscription

// Subscribe calls f.
func (f StreamFunc[E]) Subscribe(fn func(E)) Subscription { return f(fn) }

// Never returns a stream that never fires.
func Never[E any]() Stream[E] {
	return StreamFunc[E](func(func(E)) Subscription { return NopSubscription })
}

// Signal turns any stream into a stream of bare notifications.
func Signal[E any](s Stream[E]) Stream[struct{}] {
	return StreamFunc[struct{}](func(fn func(struct{})) Subscription {
		return s.Subscribe(func(E) { fn(struct{}{}) })
	})
}

// Filter returns a stream that forwards only the events for which keep returns true.
func Filter[E any](s Stream[E], keep func(E) bool) Stream[E] {
	return StreamFunc[E](func(fn func(E)) Subscription {
		return s.Subscribe(func(e E) {
			if keep(e) {
				fn(e)
			}
		})
	})
}

// Map returns a stream that transforms each event with f.
func Map[E, F any](s Stream[E], f func(E) F) Stream[F] {
	return StreamFunc[F](func(fn func(F)) Subscription {
		return s.Subscribe(func(e E) { fn(f(e)) })
	})
}

// Merge combines several streams into one. Stopping the returned subscription stops all inner
// subscriptions.
func Merge[E any](streams ...Stream[E]) Stream[E] {
	return StreamFunc[E](func(fn func(E)) Subscription {
		subs := make([]Subscription, 0, len(streams))
		for _, s := range streams {
			subs = append(subs, s.Subscribe(fn))
		}
		return SubscriptionFunc(func() {
			for _, sub := range subs {
				sub.Stop()
			}
		})
	})
}
