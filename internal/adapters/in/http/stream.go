package http

import (
	"context"
	"time"

	"dispatch/internal/core/application/broadcast"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// StreamOrder handles GET /orders/{orderId}/stream. The subscription is opened
// before the upgrade so an unknown order is a plain 404.
func (s *Server) StreamOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.FromGoogleUUID(orderId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	sub, err := s.h.Coordinator.Subscribe(ctx.Request().Context(), id)
	if err != nil {
		return s.fail(ctx, err)
	}
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader has already answered the client
		s.log.WithError(err).Debug("websocket upgrade failed")
		return nil
	}
	defer conn.Close()

	log := s.log.WithField("order_id", id.String())
	log.Debug("watcher connected")
	serveStream(ctx.Request().Context(), conn, sub, log)
	log.Debug("watcher disconnected")
	return nil
}

// serveStream writes updates of sub to conn until the order's stream closes or
// the peer goes away. A closed stream ends with a normal closure frame.
func serveStream(ctx context.Context, conn *websocket.Conn, sub *broadcast.Subscription, log *logrus.Entry) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go readPump(conn, cancel)

	updates := make(chan broadcast.Update)
	go func() {
		defer close(updates)
		for {
			u, err := sub.Next(ctx)
			if err != nil {
				return
			}
			select {
			case updates <- u:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream closed"))
				return
			}
			if err := conn.WriteJSON(toStreamEvent(u)); err != nil {
				log.WithError(err).Debug("write to watcher failed")
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// readPump discards client messages and cancels the stream once the peer
// stops answering pings or closes the connection.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(512)
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
