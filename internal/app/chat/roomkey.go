package chat

import "strings"

// dmRoomPrefix marks room names that identify a two-party conversation.
const dmRoomPrefix = "dm_"

// DMRoomKey derives the deterministic room key for a direct-message
// conversation between two participants. The pair is sorted first, so both
// participants converge on the same key regardless of who initiates:
// DMRoomKey(a, b) == DMRoomKey(b, a).
func DMRoomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return dmRoomPrefix + a + "_" + b
}

// IsDMRoomKey reports whether a room name identifies a DM conversation
// rather than a channel.
func IsDMRoomKey(room string) bool {
	return strings.HasPrefix(room, dmRoomPrefix)
}
