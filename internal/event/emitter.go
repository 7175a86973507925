package event

import (
	"sort"
	"sync"

	"github.com/dshills/geoedit/internal/event/topic"
)

// ErrorHandler receives handler failures.
type ErrorHandler func(err error)

// Emitter is a synchronous, priority-ordered notification channel.
// The zero value is ready to use.
type Emitter struct {
	mu      sync.Mutex
	subs    []*subscription
	seq     uint64
	onError ErrorHandler
}

// NewEmitter creates an emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// SetErrorHandler installs the function that receives handler errors and
// panics. Without one, errors are dropped and panics propagate.
func (e *Emitter) SetErrorHandler(fn ErrorHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onError = fn
}

// On subscribes h to events whose topic matches pattern.
func (e *Emitter) On(pattern string, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	t := topic.Topic(pattern)
	if !t.IsValid() {
		return nil, ErrInvalidTopic
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	sub := newSubscription(t, h, e.seq, opts...)
	e.subs = append(e.subs, sub)
	return sub, nil
}

// Listen subscribes fn to pattern. It panics on an invalid pattern, which
// is a programming error for the fixed topics used inside the module.
func (e *Emitter) Listen(pattern string, fn func(ev *Event), opts ...SubscriptionOption) Subscription {
	sub, err := e.On(pattern, Listen(fn), opts...)
	if err != nil {
		panic("event: " + err.Error() + ": " + pattern)
	}
	return sub
}

// Once subscribes h for a single delivery.
func (e *Emitter) Once(pattern string, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	return e.On(pattern, h, append(opts, WithOnce())...)
}

// Off cancels and removes a subscription.
func (e *Emitter) Off(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.ID() == sub.ID() {
			s.Cancel()
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Clear removes every subscription.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.subs {
		s.Cancel()
	}
	e.subs = nil
}

// Len returns the number of live subscriptions.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pruneLocked()
	return len(e.subs)
}

// HasListeners reports whether any live subscription matches t.
func (e *Emitter) HasListeners(t topic.Topic) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.subs {
		if !s.cancelled() && t.Matches(s.topic) {
			return true
		}
	}
	return false
}

// Fire delivers ev to every matching subscription and returns the number of
// handlers called.
func (e *Emitter) Fire(ev *Event) int {
	if ev == nil {
		return 0
	}

	e.mu.Lock()
	e.pruneLocked()
	targets := make([]*subscription, 0, len(e.subs))
	for _, s := range e.subs {
		if ev.Type.Matches(s.topic) {
			targets = append(targets, s)
		}
	}
	onError := e.onError
	e.mu.Unlock()

	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].opts.priority != targets[j].opts.priority {
			return targets[i].opts.priority < targets[j].opts.priority
		}
		return targets[i].seq < targets[j].seq
	})

	delivered := 0
	for _, s := range targets {
		if !s.accepts(ev) {
			continue
		}
		if s.opts.once {
			s.Cancel()
		}
		delivered++
		if err := e.call(s, ev, onError); err != nil && onError != nil {
			onError(err)
		}
	}
	return delivered
}

// call invokes the handler, converting a panic into a PanicError when an
// error handler is installed.
func (e *Emitter) call(s *subscription, ev *Event, onError ErrorHandler) (err error) {
	if onError != nil {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{SubscriptionID: s.id, Topic: ev.Type.String(), Value: r}
			}
		}()
	}
	if herr := s.handler.Handle(ev); herr != nil {
		return &HandlerError{SubscriptionID: s.id, Topic: ev.Type.String(), Err: herr}
	}
	return nil
}

// pruneLocked drops cancelled subscriptions.
func (e *Emitter) pruneLocked() {
	live := e.subs[:0]
	for _, s := range e.subs {
		if !s.cancelled() {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(e.subs); i++ {
		e.subs[i] = nil
	}
	e.subs = live
}
