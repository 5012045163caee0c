/*
Package chat contains the realtime fan-out core: room membership, event
broadcast, and the per-connection WebSocket client lifecycle.

This file defines the event names and payload shapes exchanged with web
clients. Event names are part of the wire contract.
*/
package chat

import "encoding/json"

// Inbound events (client to server).
const (
	// EventJoinChannel subscribes the connection to a channel room.
	EventJoinChannel = "joinChannel"

	// EventJoinPrivateChat subscribes the connection to a DM room by its key.
	EventJoinPrivateChat = "joinPrivateChat"

	// EventTyping signals that the client is composing in a room.
	EventTyping = "typing"
)

// Outbound events (server to client).
const (
	// EventNewMessage delivers a freshly persisted message to its room.
	EventNewMessage = "newMessage"

	// EventMessageDeleted announces a deletion to every connected client;
	// clients filter by message id.
	EventMessageDeleted = "messageDeleted"

	// EventChannelUpdated tells every connected client to re-fetch the
	// channel list after a channel was created or deleted.
	EventChannelUpdated = "channelUpdated"

	// EventUserTyping relays a typing indicator to a room.
	EventUserTyping = "userTyping"

	// EventStopTyping clears a typing indicator after the inactivity timeout.
	EventStopTyping = "stopTyping"
)

// Envelope is the frame exchanged over the WebSocket in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinChannelPayload subscribes to the room named after a channel.
type JoinChannelPayload struct {
	Channel string `json:"channel"`
}

// JoinPrivateChatPayload subscribes to a DM room.
type JoinPrivateChatPayload struct {
	Room string `json:"room"`
}

// TypingPayload is the inbound typing signal; the sender identity comes from
// the connection, never from the payload.
type TypingPayload struct {
	Channel string `json:"channel"`
}

// UserTypingPayload is the outbound typing indicator.
type UserTypingPayload struct {
	Sender  string `json:"sender"`
	Channel string `json:"channel"`
}

// MessageDeletedPayload announces a single deleted message.
type MessageDeletedPayload struct {
	ID string `json:"id"`
}

// newFrame marshals an event payload into a ready-to-send envelope frame.
func newFrame(event string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = encoded
	}

	return json.Marshal(Envelope{Event: event, Payload: raw})
}
