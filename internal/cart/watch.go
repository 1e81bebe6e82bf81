package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/infrastructure/metrics"
)

// Reader loads the current cart; Watch uses it for the initial snapshot.
type Reader interface {
	Get(ctx context.Context, userID string) (Cart, error)
}

// Watcher fans cart states out to live subscribers. Each subscriber holds a
// single pending slot, so a slow consumer sees the latest state and skips
// intermediate ones. States older than what a subscriber already got are
// dropped.
type Watcher struct {
	src Reader
	log logrus.FieldLogger

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

func NewWatcher(src Reader, log logrus.FieldLogger) *Watcher {
	return &Watcher{src: src, log: log, subs: make(map[string]map[*subscriber]struct{})}
}

type subscriber struct {
	fn func(Cart)

	mu      sync.Mutex
	pending *Cart
	last    int64

	// callMu is held while fn runs and by unsubscribe, so fn never runs
	// once unsubscribe has returned.
	callMu sync.Mutex
	closed bool

	wake chan struct{}
	done chan struct{}
}

// Subscribe registers fn for userID's cart and returns a handle that stops
// delivery. The handle is safe to call more than once but must not be
// called from inside fn.
func (w *Watcher) Subscribe(userID string, fn func(Cart)) (unsubscribe func()) {
	_, unsub := w.subscribe(userID, fn)
	return unsub
}

func (w *Watcher) subscribe(userID string, fn func(Cart)) (*subscriber, func()) {
	s := &subscriber{
		fn:   fn,
		last: -1,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	w.mu.Lock()
	set, ok := w.subs[userID]
	if !ok {
		set = make(map[*subscriber]struct{})
		w.subs[userID] = set
	}
	set[s] = struct{}{}
	w.mu.Unlock()
	metrics.LiveSubscribers.Inc()

	go s.run()

	var once sync.Once
	return s, func() {
		once.Do(func() {
			w.mu.Lock()
			if set, ok := w.subs[userID]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(w.subs, userID)
				}
			}
			w.mu.Unlock()

			s.callMu.Lock()
			s.closed = true
			s.callMu.Unlock()
			close(s.done)
			metrics.LiveSubscribers.Dec()
		})
	}
}

// Publish offers c to every subscriber of c.UserID.
func (w *Watcher) Publish(c Cart) {
	w.mu.Lock()
	targets := make([]*subscriber, 0, len(w.subs[c.UserID]))
	for s := range w.subs[c.UserID] {
		targets = append(targets, s)
	}
	w.mu.Unlock()

	for _, s := range targets {
		s.offer(c)
	}
}

// Subscribed lists the users that currently have at least one subscriber.
func (w *Watcher) Subscribed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.subs))
	for id := range w.subs {
		out = append(out, id)
	}
	return out
}

// Watch delivers the current cart and every later state to fn until ctx is
// done. The subscription is released on every return path.
func (w *Watcher) Watch(ctx context.Context, userID string, fn func(Cart)) error {
	s, unsubscribe := w.subscribe(userID, fn)
	defer unsubscribe()

	c, err := w.src.Get(ctx, userID)
	if err != nil {
		w.log.WithError(err).WithField("user_id", userID).Warn("cart watch: initial load failed")
		return err
	}
	s.offer(c)

	<-ctx.Done()
	return ctx.Err()
}

func (s *subscriber) offer(c Cart) {
	s.mu.Lock()
	if c.Version <= s.last {
		s.mu.Unlock()
		return
	}
	s.last = c.Version
	s.pending = &c
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		c := s.pending
		s.pending = nil
		s.mu.Unlock()
		if c == nil {
			continue
		}

		s.callMu.Lock()
		if !s.closed {
			s.fn(*c)
		}
		s.callMu.Unlock()
	}
}
