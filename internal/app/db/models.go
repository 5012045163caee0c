package db

import (
	"time"

	"murmur/internal/app/user"
)

// User is a user account row. PasswordHash stays inside the server; the
// client-facing view is user.User.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         user.Role
	AvatarKey    string
	CreatedAt    time.Time
}

// Channel is a named group conversation. Channel names are unique and double
// as realtime room names.
type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is a chat message. Channel holds either a channel name or a
// direct-message room key; messages are immutable except for hard deletion.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserParams carries the fields needed to insert a user row.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         user.Role
}

// CreateMessageParams carries the fields needed to insert a message row.
type CreateMessageParams struct {
	Sender  string
	Content string
	Channel string
}
