package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/event/topic"
)

// Subscription is a handle on a registered handler.
type Subscription interface {
	// ID returns the subscription identifier.
	ID() string

	// Topic returns the pattern the handler was registered for.
	Topic() topic.Topic

	// Paused reports whether delivery is suspended.
	Paused() bool

	// Pause suspends delivery until Resume. Pausing a cancelled
	// subscription has no effect.
	Pause()

	// Resume restarts delivery after Pause.
	Resume()

	// Cancel stops delivery for good.
	Cancel()
}

const (
	subActive int32 = iota
	subPaused
	subCancelled
)

// subOptions holds the per-subscription settings.
type subOptions struct {
	priority Priority
	filter   FilterFunc
	once     bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subOptions)

// WithPriority sets the delivery order relative to other handlers.
func WithPriority(p Priority) SubscriptionOption {
	return func(o *subOptions) { o.priority = p }
}

// WithFilter delivers only the events for which f returns true.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(o *subOptions) { o.filter = f }
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(o *subOptions) { o.once = true }
}

type subscription struct {
	id      string
	topic   topic.Topic
	handler Handler
	opts    subOptions
	state   atomic.Int32

	// seq breaks priority ties in registration order.
	seq uint64
}

func newSubscription(t topic.Topic, h Handler, seq uint64, opts ...SubscriptionOption) *subscription {
	s := &subscription{
		id:      uuid.NewString(),
		topic:   t,
		handler: h,
		opts:    subOptions{priority: PriorityNormal},
		seq:     seq,
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.topic }
func (s *subscription) Paused() bool       { return s.state.Load() == subPaused }
func (s *subscription) Pause()             { s.state.CompareAndSwap(subActive, subPaused) }
func (s *subscription) Resume()            { s.state.CompareAndSwap(subPaused, subActive) }
func (s *subscription) Cancel()            { s.state.Store(subCancelled) }

func (s *subscription) cancelled() bool { return s.state.Load() == subCancelled }

// accepts reports whether ev is due to this subscription right now. The
// state is rechecked at delivery time since earlier handlers may pause or
// cancel later ones.
func (s *subscription) accepts(ev *Event) bool {
	if s.state.Load() != subActive || !ev.Type.Matches(s.topic) {
		return false
	}
	return s.opts.filter == nil || s.opts.filter(ev)
}
