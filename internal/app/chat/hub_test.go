package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"murmur/internal/app/db"
	"murmur/internal/app/user"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	h := NewHub()
	go h.Run()
	t.Cleanup(h.Shutdown)
	return h
}

func newTestClient(h *Hub, username string) *Client {
	return &Client{
		hub:   h,
		user:  user.User{ID: username, Username: username},
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]struct{}),
	}
}

// recvFrame waits for one outbound frame on the client's send channel.
func recvFrame(t *testing.T, c *Client, timeout time.Duration) (Envelope, bool) {
	t.Helper()

	select {
	case frame, ok := <-c.send:
		if !ok {
			return Envelope{}, false
		}
		var envelope Envelope
		require.NoError(t, json.Unmarshal(frame, &envelope))
		return envelope, true
	case <-time.After(timeout):
		return Envelope{}, false
	}
}

// assertNoFrame asserts that nothing arrives on the client's send channel.
func assertNoFrame(t *testing.T, c *Client, wait time.Duration) {
	t.Helper()

	select {
	case frame := <-c.send:
		t.Fatalf("expected no frame, got: %s", frame)
	case <-time.After(wait):
	}
}

func TestHub_RoomTargetedDelivery(t *testing.T) {
	h := startHub(t)

	general := newTestClient(h, "alice")
	random := newTestClient(h, "bob")
	h.Register(general)
	h.Register(random)
	general.joinRoom("General")
	random.joinRoom("Random")

	h.BroadcastNewMessage(db.Message{ID: "m-1", Sender: "carol", Content: "hi", Channel: "General"})

	envelope, ok := recvFrame(t, general, time.Second)
	require.True(t, ok, "subscriber of the matching room must receive the event")
	assert.Equal(t, EventNewMessage, envelope.Event)

	var msg db.Message
	require.NoError(t, json.Unmarshal(envelope.Payload, &msg))
	assert.Equal(t, "m-1", msg.ID)
	assert.Equal(t, "General", msg.Channel)

	assertNoFrame(t, random, 100*time.Millisecond)
}

func TestHub_DMRoomDelivery(t *testing.T) {
	h := startHub(t)

	alice := newTestClient(h, "alice")
	bob := newTestClient(h, "bob")
	h.Register(alice)
	h.Register(bob)

	// Both participants derive the same key independently.
	alice.joinRoom(DMRoomKey("alice", "bob"))
	bob.joinRoom(DMRoomKey("bob", "alice"))

	h.BroadcastNewMessage(db.Message{ID: "m-2", Sender: "alice", Content: "hey", Channel: DMRoomKey("bob", "alice")})

	for _, c := range []*Client{alice, bob} {
		envelope, ok := recvFrame(t, c, time.Second)
		require.True(t, ok)
		assert.Equal(t, EventNewMessage, envelope.Event)
	}
}

func TestHub_GlobalBroadcastsReachEveryClient(t *testing.T) {
	h := startHub(t)

	// Neither client joined any room.
	c1 := newTestClient(h, "alice")
	c2 := newTestClient(h, "bob")
	h.Register(c1)
	h.Register(c2)

	h.BroadcastChannelUpdated()

	for _, c := range []*Client{c1, c2} {
		envelope, ok := recvFrame(t, c, time.Second)
		require.True(t, ok, "channelUpdated must reach every connected client")
		assert.Equal(t, EventChannelUpdated, envelope.Event)
	}

	h.BroadcastMessageDeleted("m-9")

	for _, c := range []*Client{c1, c2} {
		envelope, ok := recvFrame(t, c, time.Second)
		require.True(t, ok, "messageDeleted must reach every connected client")
		assert.Equal(t, EventMessageDeleted, envelope.Event)

		var payload MessageDeletedPayload
		require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
		assert.Equal(t, "m-9", payload.ID)
	}
}

func TestHub_DoubleJoinIsANoOp(t *testing.T) {
	h := startHub(t)

	c := newTestClient(h, "alice")
	h.Register(c)
	c.joinRoom("General")
	c.joinRoom("General")

	h.BroadcastNewMessage(db.Message{ID: "m-3", Channel: "General"})

	_, ok := recvFrame(t, c, time.Second)
	require.True(t, ok)
	assertNoFrame(t, c, 100*time.Millisecond)
}

func TestHub_BroadcastToEmptyRoomIsANoOp(t *testing.T) {
	h := startHub(t)

	c := newTestClient(h, "alice")
	h.Register(c)

	// Nobody subscribed to "Ghost"; nothing should be delivered anywhere.
	h.BroadcastNewMessage(db.Message{ID: "m-4", Channel: "Ghost"})

	assertNoFrame(t, c, 100*time.Millisecond)
}

func TestHub_UnregisterLeavesRooms(t *testing.T) {
	h := startHub(t)

	c := newTestClient(h, "alice")
	h.Register(c)
	c.joinRoom("General")
	h.Unregister(c)

	// The send channel is closed on removal.
	_, open := recvFrame(t, c, time.Second)
	assert.False(t, open)

	h.BroadcastNewMessage(db.Message{ID: "m-5", Channel: "General"})
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := startHub(t)

	slow := newTestClient(h, "alice")
	slow.send = make(chan []byte, 1)
	h.Register(slow)
	slow.joinRoom("General")

	h.BroadcastNewMessage(db.Message{ID: "m-6", Channel: "General"})
	h.BroadcastNewMessage(db.Message{ID: "m-7", Channel: "General"})

	// First frame fills the buffer; the second finds it full and drops the client.
	_, ok := recvFrame(t, slow, time.Second)
	require.True(t, ok)

	_, open := recvFrame(t, slow, time.Second)
	assert.False(t, open, "send channel must be closed once the client is dropped")
}

func TestHub_TypingIndicatorRelayAndExpiry(t *testing.T) {
	h := NewHub()
	h.typingTTL = 100 * time.Millisecond
	go h.Run()
	t.Cleanup(h.Shutdown)

	typist := newTestClient(h, "alice")
	watcher := newTestClient(h, "bob")
	h.Register(typist)
	h.Register(watcher)
	typist.joinRoom("General")
	watcher.joinRoom("General")

	h.typing <- typingEvent{client: typist, room: "General"}

	envelope, ok := recvFrame(t, watcher, time.Second)
	require.True(t, ok)
	assert.Equal(t, EventUserTyping, envelope.Event)

	var payload UserTypingPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "alice", payload.Sender)
	assert.Equal(t, "General", payload.Channel)

	// The typist does not get their own indicator echoed back.
	assertNoFrame(t, typist, 50*time.Millisecond)

	// After the TTL with no further typing, the indicator is cleared.
	envelope, ok = recvFrame(t, watcher, time.Second)
	require.True(t, ok, "expected stopTyping after the inactivity timeout")
	assert.Equal(t, EventStopTyping, envelope.Event)
}

func TestHub_TypingIndicatorRefreshedByActivity(t *testing.T) {
	h := NewHub()
	h.typingTTL = 200 * time.Millisecond
	go h.Run()
	t.Cleanup(h.Shutdown)

	typist := newTestClient(h, "alice")
	watcher := newTestClient(h, "bob")
	h.Register(typist)
	h.Register(watcher)
	typist.joinRoom("General")
	watcher.joinRoom("General")

	h.typing <- typingEvent{client: typist, room: "General"}
	_, ok := recvFrame(t, watcher, time.Second)
	require.True(t, ok)

	// A second typing event before expiry restarts the timer.
	time.Sleep(100 * time.Millisecond)
	h.typing <- typingEvent{client: typist, room: "General"}
	_, ok = recvFrame(t, watcher, time.Second)
	require.True(t, ok)

	// Well before the restarted timer fires, no stopTyping arrives.
	assertNoFrame(t, watcher, 100*time.Millisecond)

	// Eventually it does.
	envelope, ok := recvFrame(t, watcher, time.Second)
	require.True(t, ok)
	assert.Equal(t, EventStopTyping, envelope.Event)
}

func TestClient_ProcessInboundFrame(t *testing.T) {
	h := startHub(t)

	c := newTestClient(h, "alice")
	peer := newTestClient(h, "bob")
	h.Register(c)
	h.Register(peer)

	c.processInboundFrame([]byte(`{"event":"joinChannel","payload":{"channel":"General"}}`))
	peer.processInboundFrame([]byte(`{"event":"joinChannel","payload":{"channel":"General"}}`))

	h.BroadcastNewMessage(db.Message{ID: "m-8", Channel: "General"})
	_, ok := recvFrame(t, c, time.Second)
	require.True(t, ok, "joinChannel frame must subscribe the client")

	_, ok = recvFrame(t, peer, time.Second)
	require.True(t, ok)

	// Typing frame is relayed to the peer only.
	c.processInboundFrame([]byte(`{"event":"typing","payload":{"channel":"General"}}`))
	envelope, ok := recvFrame(t, peer, time.Second)
	require.True(t, ok)
	assert.Equal(t, EventUserTyping, envelope.Event)

	// Garbage input is dropped without side effects.
	c.processInboundFrame([]byte(`not json`))
	c.processInboundFrame([]byte(`{"event":"unknownEvent"}`))
	c.processInboundFrame([]byte(`{"event":"joinPrivateChat","payload":{"room":"General"}}`))
}
