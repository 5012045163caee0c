/*
Package db provides PostgreSQL persistence for users, channels, and messages.

The Store interface is the persistence contract consumed by the HTTP layer;
Queries is its pgx-backed implementation. Handlers depend on the interface so
tests can substitute a mock.
*/
package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence contract for the messaging domain.
type Store interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserRole(ctx context.Context, username string, role string) (User, error)
	UpdateUserAvatar(ctx context.Context, userID string, avatarKey string) (string, error)

	CreateChannel(ctx context.Context, name string) (Channel, error)
	GetChannelByName(ctx context.Context, name string) (Channel, error)
	ListChannels(ctx context.Context) ([]Channel, error)
	DeleteChannel(ctx context.Context, name string) error

	CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error)
	GetMessageByID(ctx context.Context, id string) (Message, error)
	ListRecentMessages(ctx context.Context, channel string, limit int) ([]Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// Queries implements Store on top of a pgx connection pool.
type Queries struct {
	pool *pgxpool.Pool
}

// New constructs a Queries instance bound to the given pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

const userColumns = "id, username, password_hash, role, avatar_key, created_at"

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.AvatarKey, &u.CreatedAt)
	return u, err
}

// CreateUser inserts a new user account.
func (q *Queries) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	row := q.pool.QueryRow(ctx,
		"INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING "+userColumns,
		uuid.NewString(), params.Username, params.PasswordHash, params.Role,
	)
	return scanUser(row)
}

// GetUserByUsername fetches a user by their unique username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1",
		username,
	)
	return scanUser(row)
}

// ListUsers returns all user accounts, oldest first.
func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.pool.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateUserRole assigns a new role to the named user.
func (q *Queries) UpdateUserRole(ctx context.Context, username string, role string) (User, error) {
	row := q.pool.QueryRow(ctx,
		"UPDATE users SET role = $2 WHERE username = $1 RETURNING "+userColumns,
		username, role,
	)
	return scanUser(row)
}

// UpdateUserAvatar stores the new avatar object key and returns the key it
// replaced, so the caller can delete the stale object.
func (q *Queries) UpdateUserAvatar(ctx context.Context, userID string, avatarKey string) (string, error) {
	var oldKey string
	err := q.pool.QueryRow(ctx,
		`WITH old AS (SELECT avatar_key FROM users WHERE id = $1)
		 UPDATE users SET avatar_key = $2 WHERE id = $1
		 RETURNING (SELECT avatar_key FROM old)`,
		userID, avatarKey,
	).Scan(&oldKey)
	return oldKey, err
}

// CreateChannel inserts a new channel.
func (q *Queries) CreateChannel(ctx context.Context, name string) (Channel, error) {
	var c Channel
	err := q.pool.QueryRow(ctx,
		"INSERT INTO channels (id, name) VALUES ($1, $2) RETURNING id, name, created_at",
		uuid.NewString(), name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

// GetChannelByName fetches a channel by its unique name.
func (q *Queries) GetChannelByName(ctx context.Context, name string) (Channel, error) {
	var c Channel
	err := q.pool.QueryRow(ctx,
		"SELECT id, name, created_at FROM channels WHERE name = $1",
		name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, err
}

// ListChannels returns all channels, oldest first.
func (q *Queries) ListChannels(ctx context.Context) ([]Channel, error) {
	rows, err := q.pool.Query(ctx, "SELECT id, name, created_at FROM channels ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var c Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, c)
	}

	return channels, rows.Err()
}

// DeleteChannel hard-deletes a channel together with its messages in one
// transaction, so no orphaned messages survive a channel removal.
func (q *Queries) DeleteChannel(ctx context.Context, name string) error {
	tx, err := q.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM messages WHERE channel = $1", name); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM channels WHERE name = $1", name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}

	return tx.Commit(ctx)
}

// CreateMessage inserts a new message row.
func (q *Queries) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	var m Message
	err := q.pool.QueryRow(ctx,
		"INSERT INTO messages (id, sender, content, channel) VALUES ($1, $2, $3, $4) RETURNING id, sender, content, channel, created_at",
		uuid.NewString(), params.Sender, params.Content, params.Channel,
	).Scan(&m.ID, &m.Sender, &m.Content, &m.Channel, &m.CreatedAt)
	return m, err
}

// GetMessageByID fetches a single message.
func (q *Queries) GetMessageByID(ctx context.Context, id string) (Message, error) {
	var m Message
	err := q.pool.QueryRow(ctx,
		"SELECT id, sender, content, channel, created_at FROM messages WHERE id = $1",
		id,
	).Scan(&m.ID, &m.Sender, &m.Content, &m.Channel, &m.CreatedAt)
	return m, err
}

// ListRecentMessages returns up to limit messages for a channel or DM room,
// newest first. Callers that need chronological order reverse the slice.
func (q *Queries) ListRecentMessages(ctx context.Context, channel string, limit int) ([]Message, error) {
	rows, err := q.pool.Query(ctx,
		"SELECT id, sender, content, channel, created_at FROM messages WHERE channel = $1 ORDER BY created_at DESC, id DESC LIMIT $2",
		channel, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Sender, &m.Content, &m.Channel, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// DeleteMessage hard-deletes a single message.
func (q *Queries) DeleteMessage(ctx context.Context, id string) error {
	tag, err := q.pool.Exec(ctx, "DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
