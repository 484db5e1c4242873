package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPinner struct {
	mock.Mock
}

func (m *MockPinner) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

func (m *MockPinner) Gateway(ctx context.Context, cid string) (string, error) {
	args := m.Called(ctx, cid)
	return args.String(0), args.Error(1)
}

func (m *MockPinner) Name() string {
	return "mock"
}
