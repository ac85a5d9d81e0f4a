package observable

// Subject is an ordered multi-subscriber broadcast. Subscribers registered later do not see events
// published before they subscribed.
type Subject[E any] struct {
	subscribers []*subscriber[E]
	publishing  int
	dirty       bool
}

type subscriber[E any] struct {
	fn     func(E)
	active bool
}

var _ Stream[int] = &Subject[int]{}

// NewSubject creates an empty subject.
func NewSubject[E any]() *Subject[E] {
	return &Subject[E]{}
}

// Subscribe registers fn. Subscribers are called in registration order.
func (s *Subject[E]) Subscribe(fn func(E)) Subscription {
	sub := &subscriber[E]{fn: fn, active: true}
	s.subscribers = append(s.subscribers, sub)
	return SubscriptionFunc(func() { s.unsubscribe(sub) })
}

// Publish delivers e to every active subscriber. Subscribers may subscribe or unsubscribe from
// within their callback: a subscriber stopped mid-publish is not called afterwards, and one added
// mid-publish first sees the next event.
func (s *Subject[E]) Publish(e E) {
	subs := s.subscribers
	n := len(subs)
	s.publishing++
	defer func() {
		s.publishing--
		if s.publishing == 0 && s.dirty {
			s.compact()
		}
	}()

	for i := 0; i < n; i++ {
		if sub := subs[i]; sub.active {
			sub.fn(e)
		}
	}
}

// Len returns the number of active subscribers.
func (s *Subject[E]) Len() int {
	n := 0
	for _, sub := range s.subscribers {
		if sub.active {
			n++
		}
	}
	return n
}

func (s *Subject[E]) unsubscribe(sub *subscriber[E]) {
	if !sub.active {
		return
	}
	sub.active = false
	if s.publishing > 0 {
		s.dirty = true
		return
	}
	s.compact()
}

func (s *Subject[E]) compact() {
	live := make([]*subscriber[E], 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		if sub.active {
			live = append(live, sub)
		}
	}
	s.subscribers = live
	s.dirty = false
}
