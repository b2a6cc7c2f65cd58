// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/session"
	"github.com/authflow/authflow/internal/user"
)

// MockAuthorizeUseCase is a mock implementation of AuthorizeUseCase for testing.
type MockAuthorizeUseCase struct {
	mock.Mock
}

// Begin mocks the Begin method of AuthorizeUseCase.
func (m *MockAuthorizeUseCase) Begin(
	ctx context.Context,
	input *oauthDomain.BeginAuthorizationInput,
) (*oauthDomain.BeginAuthorizationResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.BeginAuthorizationResult), args.Error(1)
}

// AttachUser mocks the AttachUser method of AuthorizeUseCase.
func (m *MockAuthorizeUseCase) AttachUser(ctx context.Context, requestID, userID, tenantID uuid.UUID) error {
	args := m.Called(ctx, requestID, userID, tenantID)
	return args.Error(0)
}

// GetTicket mocks the GetTicket method of AuthorizeUseCase.
func (m *MockAuthorizeUseCase) GetTicket(
	ctx context.Context,
	requestID, tenantID uuid.UUID,
) (*oauthDomain.ConsentTicket, error) {
	args := m.Called(ctx, requestID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.ConsentTicket), args.Error(1)
}

// MockConsentUseCase is a mock implementation of ConsentUseCase for testing.
type MockConsentUseCase struct {
	mock.Mock
}

// Decide mocks the Decide method of ConsentUseCase.
func (m *MockConsentUseCase) Decide(
	ctx context.Context,
	requestID uuid.UUID,
	userID uuid.UUID,
	tenantID uuid.UUID,
	approved bool,
) (*oauthDomain.AuthorizeRedirect, error) {
	args := m.Called(ctx, requestID, userID, tenantID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.AuthorizeRedirect), args.Error(1)
}

// MockTokenUseCase is a mock implementation of TokenUseCase for testing.
type MockTokenUseCase struct {
	mock.Mock
}

// IssueCode mocks the IssueCode method of TokenUseCase.
func (m *MockTokenUseCase) IssueCode(
	ctx context.Context,
	request *oauthDomain.AuthorizationRequest,
	userID uuid.UUID,
) (string, error) {
	args := m.Called(ctx, request, userID)
	return args.String(0), args.Error(1)
}

// Exchange mocks the Exchange method of TokenUseCase.
func (m *MockTokenUseCase) Exchange(
	ctx context.Context,
	input *oauthDomain.ExchangeCodeInput,
) (*oauthDomain.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenPairOutput), args.Error(1)
}

// Refresh mocks the Refresh method of TokenUseCase.
func (m *MockTokenUseCase) Refresh(
	ctx context.Context,
	input *oauthDomain.RefreshTokenInput,
) (*oauthDomain.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenPairOutput), args.Error(1)
}

// Revoke mocks the Revoke method of TokenUseCase.
func (m *MockTokenUseCase) Revoke(ctx context.Context, input *oauthDomain.RevokeTokenInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockValidateUseCase is a mock implementation of ValidateUseCase for testing.
type MockValidateUseCase struct {
	mock.Mock
}

// Validate mocks the Validate method of ValidateUseCase.
func (m *MockValidateUseCase) Validate(ctx context.Context, bearerToken string) (*oauthDomain.TokenInfo, error) {
	args := m.Called(ctx, bearerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenInfo), args.Error(1)
}

// MockSessionAuthenticator is a mock implementation of session.Authenticator
// for testing.
type MockSessionAuthenticator struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of session.Authenticator.
func (m *MockSessionAuthenticator) Authenticate(ctx context.Context, sessionToken string) (*session.Session, error) {
	args := m.Called(ctx, sessionToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

// MockUserRepository is a mock implementation of user.Repository for testing.
type MockUserRepository struct {
	mock.Mock
}

// Get mocks the Get method of user.Repository.
func (m *MockUserRepository) Get(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}
