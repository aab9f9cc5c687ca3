// Package client provides the connection manager and state synchronization
// layer used by euchre clients.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// events synthesized or consumed by the connection manager
const (
	// EventDisconnect fires when the underlying connection drops
	EventDisconnect = "disconnect"

	// EventPong is the server's reply to a heartbeat ping
	EventPong = "pong"
)

// Handler handles a single event received from the server
type Handler func(payload json.RawMessage)

// Transport moves events between the client and the server.
// Each handler registered with On receives an event at most once per delivery.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Send(event string, payload interface{}) error
	On(event string, fn Handler)
}

// ErrNotConnected is returned when sending over a transport with no connection
var ErrNotConnected = errors.New("transport is not connected")

const handshakeTimeout = time.Second * 10
const transportWriteWait = time.Second * 10

// wsTransport is a websocket Transport.
// Outbound events are flat JSON objects carrying an "action" field; inbound
// messages are dispatched by their "key" field.
type wsTransport struct {
	url    string
	logger logrus.FieldLogger

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string]Handler
}

// NewWebSocketTransport returns a Transport connected to a game server websocket
func NewWebSocketTransport(logger logrus.FieldLogger, url string) Transport {
	return &wsTransport{
		url:      url,
		logger:   logger,
		handlers: make(map[string]Handler),
	}
}

// Connect dials the server and starts the read loop
func (t *wsTransport) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, t.url, nil)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

// Disconnect closes the current connection, if any
func (t *wsTransport) Disconnect() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	if conn == nil {
		return nil
	}

	return conn.Close()
}

// Send writes an event to the server
// The payload must marshal to a JSON object, or be nil.
func (t *wsTransport) Send(event string, payload interface{}) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	obj := make(map[string]interface{})
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		if err := json.Unmarshal(raw, &obj); err != nil {
			return err
		}
	}
	obj["action"] = event

	_ = conn.SetWriteDeadline(time.Now().Add(transportWriteWait))
	return conn.WriteJSON(obj)
}

// On registers a handler for an event, replacing any previous handler
func (t *wsTransport) On(event string, fn Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if fn == nil {
		delete(t.handlers, event)
		return
	}

	t.handlers[event] = fn
}

func (t *wsTransport) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			active := t.conn == conn
			if active {
				t.conn = nil
			}
			t.mu.Unlock()

			// only the active connection reports a drop
			if active {
				t.logger.WithError(err).Debug("connection closed")
				t.dispatch(EventDisconnect, nil)
			}

			return
		}

		var envelope struct {
			Key string `json:"key"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.logger.WithError(err).Warn("could not parse message")
			continue
		}

		t.dispatch(envelope.Key, raw)
	}
}

func (t *wsTransport) dispatch(event string, payload json.RawMessage) {
	t.mu.Lock()
	fn := t.handlers[event]
	t.mu.Unlock()

	if fn != nil {
		fn(payload)
	}
}
