// Package realtime pushes live cart updates to websocket clients and relays
// cart change notifications between instances.
package realtime

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/agri-market-backend/internal/cart"
	"github.com/wichananm65/agri-market-backend/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// CartWatcher is the subscription side of cart.Watcher.
type CartWatcher interface {
	Watch(ctx context.Context, userID string, fn func(cart.Cart)) error
}

type TokenParser interface {
	Parse(raw string) (session.Session, error)
}

// Server upgrades /realtime/cart requests and streams cart views until the
// client goes away.
type Server struct {
	watcher  CartWatcher
	tokens   TokenParser
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
	ping     time.Duration
}

func NewServer(watcher CartWatcher, tokens TokenParser, log logrus.FieldLogger) *Server {
	return &Server{
		watcher: watcher,
		tokens:  tokens,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// mobile clients send no Origin header worth checking
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		ping: pingPeriod,
	}
}

func bearer(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sess, err := s.tokens.Parse(bearer(r))
	if err != nil {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	promo := r.URL.Query().Get("promo")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("realtime: upgrade failed")
		return
	}
	log := s.log.WithField("user_id", sess.UserID)
	log.Debug("realtime: client connected")

	ctx, cancel := context.WithCancel(r.Context())
	watchDone := make(chan struct{})
	defer func() {
		cancel()
		<-watchDone
		conn.Close()
		log.Debug("realtime: client gone")
	}()

	// single slot; a newer view replaces one the writer has not sent yet
	out := make(chan cart.View, 1)
	push := func(c cart.Cart) {
		v := cart.NewView(c, promo)
		for {
			select {
			case out <- v:
				return
			default:
			}
			select {
			case <-out:
			default:
			}
		}
	}

	go func() {
		defer close(watchDone)
		defer cancel()
		if err := s.watcher.Watch(ctx, sess.UserID, push); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("realtime: watch ended")
		}
	}()
	go s.read(conn, cancel)

	ticker := time.NewTicker(s.ping)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case v := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// read drains client frames so pongs and close messages are processed.
func (s *Server) read(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
