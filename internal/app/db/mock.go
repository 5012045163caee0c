package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the Store interface for handler tests.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) ListUsers(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockStore) UpdateUserRole(ctx context.Context, username string, role string) (User, error) {
	args := m.Called(ctx, username, role)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) UpdateUserAvatar(ctx context.Context, userID string, avatarKey string) (string, error) {
	args := m.Called(ctx, userID, avatarKey)
	return args.String(0), args.Error(1)
}

func (m *MockStore) CreateChannel(ctx context.Context, name string) (Channel, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Channel), args.Error(1)
}

func (m *MockStore) GetChannelByName(ctx context.Context, name string) (Channel, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Channel), args.Error(1)
}

func (m *MockStore) ListChannels(ctx context.Context) ([]Channel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Channel), args.Error(1)
}

func (m *MockStore) DeleteChannel(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStore) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(Message), args.Error(1)
}

func (m *MockStore) GetMessageByID(ctx context.Context, id string) (Message, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Message), args.Error(1)
}

func (m *MockStore) ListRecentMessages(ctx context.Context, channel string, limit int) ([]Message, error) {
	args := m.Called(ctx, channel, limit)
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockStore) DeleteMessage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
