package mocks

import (
	"context"
	"errors"
	"time"
)

// MockCacher is a mock implementation of the cache interface for testing
// the handler layer. It uses function-based mocking for flexibility.
type MockCacher struct {
	GetFunc    func(ctx context.Context, key string, dest any) error
	SetFunc    func(ctx context.Context, key string, value any, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, keys ...string) error
	CloseFunc  func() error
}

func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return errors.New("cache miss")
}

func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCacher) Delete(ctx context.Context, keys ...string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, keys...)
	}
	return nil
}

func (m *MockCacher) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
