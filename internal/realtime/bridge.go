package realtime

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/cart"
)

// Hub is the publishing side of cart.Watcher.
type Hub interface {
	Publish(c cart.Cart)
	Subscribed() []string
}

// Bridge listens for cart change notifications from Postgres and republishes
// the reloaded cart to local subscribers, so writes made by other instances
// reach clients connected here.
type Bridge struct {
	notify <-chan *pq.Notification
	close  func() error
	ping   func() error

	carts cart.Reader
	hub   Hub
	log   logrus.FieldLogger

	pingEvery time.Duration
}

// NewBridge opens a pq.Listener on channel.
func NewBridge(dsn, channel string, carts cart.Reader, hub Hub, log logrus.FieldLogger) (*Bridge, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.WithError(err).WithField("event", ev).Warn("cart listener")
		}
	})
	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, err
	}
	return newBridge(listener.Notify, listener.Close, listener.Ping, carts, hub, log), nil
}

func newBridge(notify <-chan *pq.Notification, closeFn, ping func() error, carts cart.Reader, hub Hub, log logrus.FieldLogger) *Bridge {
	return &Bridge{
		notify:    notify,
		close:     closeFn,
		ping:      ping,
		carts:     carts,
		hub:       hub,
		log:       log,
		pingEvery: 90 * time.Second,
	}
}

// Run relays notifications until ctx is done, then closes the listener.
func (b *Bridge) Run(ctx context.Context) error {
	ticker := time.NewTicker(b.pingEvery)
	defer ticker.Stop()
	defer b.close() //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-b.notify:
			if !ok {
				return nil
			}
			if n == nil {
				// the connection was re-established and notifications may
				// have been lost in between
				b.log.Info("cart listener reconnected; refreshing live carts")
				for _, id := range b.hub.Subscribed() {
					b.reload(ctx, id)
				}
				continue
			}
			b.reload(ctx, n.Extra)
		case <-ticker.C:
			if err := b.ping(); err != nil {
				b.log.WithError(err).Warn("cart listener ping failed")
			}
		}
	}
}

func (b *Bridge) reload(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	c, err := b.carts.Get(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Warn("cart listener reload failed")
		return
	}
	b.hub.Publish(c)
}
