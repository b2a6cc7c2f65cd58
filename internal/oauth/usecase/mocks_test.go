package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockClientRepository is a mock implementation of ClientRepository for testing.
type mockClientRepository struct {
	mock.Mock
}

func (m *mockClientRepository) Create(ctx context.Context, client *oauthDomain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepository) Update(ctx context.Context, client *oauthDomain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*oauthDomain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.Client), args.Error(1)
}

// mockAuthorizationRequestRepository is a mock implementation of
// AuthorizationRequestRepository for testing.
type mockAuthorizationRequestRepository struct {
	mock.Mock
}

func (m *mockAuthorizationRequestRepository) Create(ctx context.Context, request *oauthDomain.AuthorizationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockAuthorizationRequestRepository) Get(ctx context.Context, requestID uuid.UUID) (*oauthDomain.AuthorizationRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.AuthorizationRequest), args.Error(1)
}

func (m *mockAuthorizationRequestRepository) AttachUser(ctx context.Context, requestID uuid.UUID, userID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, requestID, userID, now)
	return args.Error(0)
}

func (m *mockAuthorizationRequestRepository) Consume(ctx context.Context, requestID uuid.UUID) (bool, error) {
	args := m.Called(ctx, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAuthorizationRequestRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockAuthorizationCodeRepository is a mock implementation of
// AuthorizationCodeRepository for testing.
type mockAuthorizationCodeRepository struct {
	mock.Mock
}

func (m *mockAuthorizationCodeRepository) Create(ctx context.Context, code *oauthDomain.AuthorizationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *mockAuthorizationCodeRepository) GetByCodeHash(ctx context.Context, codeHash string) (*oauthDomain.AuthorizationCode, error) {
	args := m.Called(ctx, codeHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.AuthorizationCode), args.Error(1)
}

func (m *mockAuthorizationCodeRepository) MarkUsed(ctx context.Context, codeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, codeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAuthorizationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockAccessTokenRepository is a mock implementation of AccessTokenRepository
// for testing.
type mockAccessTokenRepository struct {
	mock.Mock
}

func (m *mockAccessTokenRepository) Create(ctx context.Context, token *oauthDomain.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockAccessTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*oauthDomain.AccessToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.AccessToken), args.Error(1)
}

func (m *mockAccessTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tokenID, now)
	return args.Error(0)
}

func (m *mockAccessTokenRepository) RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, familyID, now)
	return args.Error(0)
}

func (m *mockAccessTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockRefreshTokenRepository is a mock implementation of
// RefreshTokenRepository for testing.
type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *oauthDomain.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*oauthDomain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) Rotate(ctx context.Context, tokenID uuid.UUID, replacedBy uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, tokenID, replacedBy, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tokenID, now)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) RevokeFamily(ctx context.Context, familyID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, familyID, now)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// mockSecretService is a mock implementation of service.SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (plainSecret string, hashedSecret string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (hashedSecret string, error error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// mockCredentialService is a mock implementation of service.CredentialService
// for testing.
type mockCredentialService struct {
	mock.Mock
}

func (m *mockCredentialService) Generate() (plainValue string, valueHash string, error error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockCredentialService) Hash(plainValue string) string {
	args := m.Called(plainValue)
	return args.String(0)
}

// mockPKCEService is a mock implementation of service.PKCEService for testing.
type mockPKCEService struct {
	mock.Mock
}

func (m *mockPKCEService) Verify(challenge string, method oauthDomain.CodeChallengeMethod, verifier string) bool {
	args := m.Called(challenge, method, verifier)
	return args.Bool(0)
}

// mockTokenUseCase is a mock implementation of TokenUseCase for testing the
// consent flow in isolation.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) IssueCode(ctx context.Context, request *oauthDomain.AuthorizationRequest, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, request, userID)
	return args.String(0), args.Error(1)
}

func (m *mockTokenUseCase) Exchange(ctx context.Context, input *oauthDomain.ExchangeCodeInput) (*oauthDomain.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenPairOutput), args.Error(1)
}

func (m *mockTokenUseCase) Refresh(ctx context.Context, input *oauthDomain.RefreshTokenInput) (*oauthDomain.TokenPairOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauthDomain.TokenPairOutput), args.Error(1)
}

func (m *mockTokenUseCase) Revoke(ctx context.Context, input *oauthDomain.RevokeTokenInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
