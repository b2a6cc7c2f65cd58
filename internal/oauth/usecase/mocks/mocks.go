// Package mocks provides mock implementations for testing CLI commands.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// MockClientUseCase is a mock implementation of ClientUseCase for testing.
type MockClientUseCase struct {
	mock.Mock
}

// Create mocks the Create method of ClientUseCase.
func (m *MockClientUseCase) Create(
	ctx context.Context,
	input *oauthDomain.CreateClientInput,
) (*oauthDomain.CreateClientOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.CreateClientOutput), args.Error(1)
}

// RotateSecret mocks the RotateSecret method of ClientUseCase.
func (m *MockClientUseCase) RotateSecret(ctx context.Context, clientID uuid.UUID) (string, error) {
	args := m.Called(ctx, clientID)
	return args.String(0), args.Error(1)
}

// MockCleanupUseCase is a mock implementation of CleanupUseCase for testing.
type MockCleanupUseCase struct {
	mock.Mock
}

// Sweep mocks the Sweep method of CleanupUseCase.
func (m *MockCleanupUseCase) Sweep(ctx context.Context) (*oauthDomain.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.SweepResult), args.Error(1)
}
