/*
Package chat contains the realtime fan-out core.

This file defines the Client struct, representing one active WebSocket
connection. It owns the read and write pumps and translates inbound frames
into hub operations (room joins and typing signals). Messages themselves are
created over the REST API; the socket only carries notifications.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"murmur/internal/app/user"
	"murmur/internal/pkg/logx"
)

const (
	// writeWait is the timeout for writing a frame to the connection.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a Pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod is how often the server sends a Ping. Must be below pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxFrameSize bounds inbound frames; clients only send small join and
	// typing envelopes.
	maxFrameSize = 1024

	// sendBufferSize is the per-client outbound queue length.
	sendBufferSize = 256
)

// Client represents an active WebSocket connection and its authenticated user.
type Client struct {
	// hub is the fan-out layer this connection is registered with.
	hub *Hub

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// user is the identity extracted from the connection's bearer token.
	user user.User

	// send queues outbound frames; closed by the hub on removal.
	send chan []byte

	// rooms tracks joined room names. Touched only by the hub run loop.
	rooms map[string]struct{}

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, identity user.User) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		user:   identity,
		send:   make(chan []byte, sendBufferSize),
		rooms:  make(map[string]struct{}),
		logger: logx.Logger().With().Str("component", "ws_client").Str("username", identity.Username).Logger(),
	}
}

// ReadPump reads frames from the connection until it closes, maintaining the
// pong heartbeat and dispatching inbound events to the hub. It unregisters
// the client on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Unexpected connection close")
			}
			break
		}

		c.processInboundFrame(frame)
	}
}

// cleanupOnDisconnect unregisters the client and closes the connection.
func (c *Client) cleanupOnDisconnect() {
	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInboundFrame parses one inbound envelope and routes it to the hub.
// Malformed frames are logged and dropped; the connection stays open.
func (c *Client) processInboundFrame(frame []byte) {
	var envelope Envelope
	if err := json.Unmarshal(frame, &envelope); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON")
		return
	}

	switch envelope.Event {
	case EventJoinChannel:
		var payload JoinChannelPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil || payload.Channel == "" {
			c.logger.Warn().Msg("Client sent invalid joinChannel payload")
			return
		}
		c.joinRoom(payload.Channel)

	case EventJoinPrivateChat:
		var payload JoinPrivateChatPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil || !IsDMRoomKey(payload.Room) {
			c.logger.Warn().Msg("Client sent invalid joinPrivateChat payload")
			return
		}
		c.joinRoom(payload.Room)

	case EventTyping:
		var payload TypingPayload
		if err := json.Unmarshal(envelope.Payload, &payload); err != nil || payload.Channel == "" {
			c.logger.Warn().Msg("Client sent invalid typing payload")
			return
		}
		select {
		case c.hub.typing <- typingEvent{client: c, room: payload.Channel}:
		case <-c.hub.stop:
		}

	default:
		c.logger.Warn().Str("event", envelope.Event).Msg("Client sent unsupported event")
	}
}

// joinRoom hands a join request to the hub run loop.
func (c *Client) joinRoom(room string) {
	select {
	case c.hub.join <- joinRequest{client: c, room: room}:
	case <-c.hub.stop:
	}
}

// WritePump writes queued frames to the connection and keeps the ping
// heartbeat going. It closes the connection on exit.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				// Hub closed the send channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
