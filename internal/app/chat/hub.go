/*
Package chat contains the realtime fan-out core.

This file defines the Hub, the single event loop that owns room membership and
dispatches broadcasts. All membership mutation happens inside the run loop, so
no locking is needed: registration, joins, broadcasts, and typing timers are
fed through channels. Joining a room twice and broadcasting to an empty room
are both no-ops.
*/
package chat

import (
	"time"

	"github.com/rs/zerolog"

	"murmur/internal/app/db"
	"murmur/internal/pkg/logx"
)

const (
	// broadcastChannelBuffer absorbs bursts of HTTP-triggered broadcasts.
	broadcastChannelBuffer = 1024

	// TypingTTL is how long a typing indicator stays alive without a
	// follow-up typing event in the same room.
	TypingTTL = 3 * time.Second
)

// joinRequest subscribes a client to a room.
type joinRequest struct {
	client *Client
	room   string
}

// broadcastRequest carries one ready-to-send frame to a room, or to every
// connected client when room is empty.
type broadcastRequest struct {
	room    string
	exclude *Client
	frame   []byte
}

// typingKey identifies one live typing indicator.
type typingKey struct {
	room   string
	sender string
}

// typingEvent is an inbound typing signal routed through the run loop.
type typingEvent struct {
	client *Client
	room   string
}

// Hub is the room-addressed publish/subscribe layer. Events reach only the
// current subscribers of a room; there is no replay, queueing, or redelivery
// for clients that join late or disconnect.
type Hub struct {
	// clients is the set of all connected clients.
	clients map[*Client]struct{}

	// rooms maps room name to its current subscribers.
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan broadcastRequest
	typing     chan typingEvent

	// typingExpired receives keys whose inactivity timer fired.
	typingExpired chan typingKey

	// typingTimers tracks the live indicator timers, touched only by the run loop.
	typingTimers map[typingKey]*time.Timer

	// typingTTL is the indicator lifetime; overridable in tests.
	typingTTL time.Duration

	stop chan struct{}
	done chan struct{}

	logger zerolog.Logger
}

// NewHub constructs a Hub. Call Run in its own goroutine to start dispatching.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]struct{}),
		rooms:         make(map[string]map[*Client]struct{}),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		join:          make(chan joinRequest),
		broadcast:     make(chan broadcastRequest, broadcastChannelBuffer),
		typing:        make(chan typingEvent),
		typingExpired: make(chan typingKey, 64),
		typingTimers:  make(map[typingKey]*time.Timer),
		typingTTL:     TypingTTL,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logx.Logger().With().Str("component", "hub").Logger(),
	}
}

// Run is the Hub's event loop. It serializes every membership change and
// broadcast, which is the entire concurrency model of the fan-out layer.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub event loop started.")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Info().
				Str("username", client.user.Username).
				Int("total_clients", len(h.clients)).
				Msg("Client connected.")

		case client := <-h.unregister:
			h.removeClient(client)

		case req := <-h.join:
			h.joinRoom(req.client, req.room)

		case req := <-h.broadcast:
			h.deliver(req)

		case ev := <-h.typing:
			h.handleTyping(ev)

		case key := <-h.typingExpired:
			h.expireTyping(key)

		case <-h.stop:
			h.logger.Info().Int("total_clients", len(h.clients)).Msg("Hub stopping.")
			for _, timer := range h.typingTimers {
				timer.Stop()
			}
			for client := range h.clients {
				close(client.send)
			}
			h.clients = nil
			h.rooms = nil
			return
		}
	}
}

// joinRoom subscribes a client to a room. Repeat joins are no-ops.
func (h *Hub) joinRoom(client *Client, room string) {
	if _, ok := h.clients[client]; !ok || room == "" {
		return
	}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}

	if _, joined := members[client]; joined {
		return
	}

	members[client] = struct{}{}
	client.rooms[room] = struct{}{}

	h.logger.Debug().
		Str("username", client.user.Username).
		Str("room", room).
		Int("room_size", len(members)).
		Msg("Client joined room.")
}

// removeClient drops a client from the hub and every room it joined. Safe to
// call twice; the second call finds nothing to do.
func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)

	for room := range client.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	close(client.send)

	h.logger.Info().
		Str("username", client.user.Username).
		Int("total_clients", len(h.clients)).
		Msg("Client disconnected.")
}

// deliver fans a frame out to its target set. A slow client (full send
// buffer) is dropped rather than allowed to stall the loop; its events are
// silently lost, per the no-delivery-guarantee contract.
func (h *Hub) deliver(req broadcastRequest) {
	var targets map[*Client]struct{}
	if req.room == "" {
		targets = h.clients
	} else {
		targets = h.rooms[req.room]
	}

	var slow []*Client
	for client := range targets {
		if client == req.exclude {
			continue
		}

		select {
		case client.send <- req.frame:
		default:
			h.logger.Warn().
				Str("username", client.user.Username).
				Msg("Client send buffer full, dropping client.")
			slow = append(slow, client)
		}
	}

	for _, client := range slow {
		h.removeClient(client)
	}
}

// handleTyping relays a typing indicator to the room (excluding the origin)
// and arms, or re-arms, the per-(room, sender) expiry timer.
func (h *Hub) handleTyping(ev typingEvent) {
	if ev.room == "" {
		return
	}

	frame, err := newFrame(EventUserTyping, UserTypingPayload{
		Sender:  ev.client.user.Username,
		Channel: ev.room,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build userTyping frame.")
		return
	}

	h.deliver(broadcastRequest{room: ev.room, exclude: ev.client, frame: frame})

	key := typingKey{room: ev.room, sender: ev.client.user.Username}
	if timer, ok := h.typingTimers[key]; ok {
		timer.Stop()
	}
	h.typingTimers[key] = time.AfterFunc(h.typingTTL, func() {
		select {
		case h.typingExpired <- key:
		case <-h.stop:
		}
	})
}

// expireTyping clears a typing indicator whose inactivity timer fired.
func (h *Hub) expireTyping(key typingKey) {
	if _, ok := h.typingTimers[key]; !ok {
		return
	}
	delete(h.typingTimers, key)

	frame, err := newFrame(EventStopTyping, UserTypingPayload{
		Sender:  key.sender,
		Channel: key.room,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build stopTyping frame.")
		return
	}

	h.deliver(broadcastRequest{room: key.room, frame: frame})
}

// enqueue hands a broadcast to the run loop without blocking the caller. If
// the buffer is full the event is dropped, consistent with best-effort
// delivery.
func (h *Hub) enqueue(req broadcastRequest) {
	select {
	case h.broadcast <- req:
	default:
		h.logger.Warn().Str("room", req.room).Msg("Broadcast buffer full, dropping event.")
	}
}

// Register adds a new client connection to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.stop:
	}
}

// Unregister removes a client connection from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

// BroadcastNewMessage fans a persisted message out to the room matching its
// channel or DM key. Callers must only invoke this after the persistence
// write succeeded, so a write failure never produces an orphaned broadcast.
func (h *Hub) BroadcastNewMessage(msg db.Message) {
	frame, err := newFrame(EventNewMessage, msg)
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to build newMessage frame.")
		return
	}

	h.enqueue(broadcastRequest{room: msg.Channel, frame: frame})
}

// BroadcastMessageDeleted announces a deletion to every connected client.
// The deleting party may not know which room the message belonged to, so the
// event goes out globally and clients filter by id.
func (h *Hub) BroadcastMessageDeleted(id string) {
	frame, err := newFrame(EventMessageDeleted, MessageDeletedPayload{ID: id})
	if err != nil {
		h.logger.Error().Err(err).Str("message_id", id).Msg("Failed to build messageDeleted frame.")
		return
	}

	h.enqueue(broadcastRequest{frame: frame})
}

// BroadcastChannelUpdated tells every connected client that the channel list
// changed; clients re-fetch it over the REST API.
func (h *Hub) BroadcastChannelUpdated() {
	frame, err := newFrame(EventChannelUpdated, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build channelUpdated frame.")
		return
	}

	h.enqueue(broadcastRequest{frame: frame})
}

// Shutdown stops the run loop and closes every client's send channel.
func (h *Hub) Shutdown() {
	close(h.stop)
	<-h.done
	h.logger.Info().Msg("Hub shutdown complete.")
}
