package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/authflow/authflow/internal/config"
	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
)

func testAuthorizeConfig() *config.Config {
	return &config.Config{
		AuthorizationRequestExpiration: 10 * time.Minute,
		PKCEAllowPlain:                 true,
	}
}

func activeTestClient(tenantID uuid.UUID) *oauthDomain.Client {
	secretHash := "$argon2id$v=19$m=65536,t=3,p=4$test-hash" //nolint:gosec // test fixture, not a real credential
	return &oauthDomain.Client{
		ID:            uuid.Must(uuid.NewV7()),
		TenantID:      tenantID,
		SecretHash:    &secretHash,
		Name:          "dashboard",
		RedirectURIs:  []string{"https://app.example.com/callback"},
		AllowedScopes: []string{"openid", "profile", "email"},
		IsActive:      true,
	}
}

func TestAuthorizeUseCase_Begin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreatesPendingRequest", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		mockRequestRepo.On("Create", ctx, mock.MatchedBy(func(request *oauthDomain.AuthorizationRequest) bool {
			return request.ClientID == client.ID &&
				request.TenantID == tenantID &&
				assert.ObjectsAreEqual([]string{"openid", "profile"}, request.Scopes) &&
				request.RedirectURI == "https://app.example.com/callback" &&
				request.State == "xyz" &&
				request.CodeChallenge == "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM" &&
				request.CodeChallengeMethod == oauthDomain.CodeChallengeMethodS256 &&
				!request.Consumed &&
				request.ExpiresAt.After(request.CreatedAt)
		})).
			Return(nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:            client.ID,
			RedirectURI:         "https://app.example.com/callback",
			Scope:               "openid profile",
			State:               "xyz",
			CodeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			CodeChallengeMethod: "S256",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.NotNil(t, result.Request)
		assert.Nil(t, result.Redirect)
		mockClientRepo.AssertExpectations(t)
		mockRequestRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownClient", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		clientID := uuid.Must(uuid.NewV7())
		mockClientRepo.On("Get", ctx, clientID).
			Return(nil, oauthDomain.ErrClientNotFound).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:    clientID,
			RedirectURI: "https://app.example.com/callback",
			Scope:       "openid",
		})

		assert.Nil(t, result)
		var failure *oauthDomain.AuthorizeFailure
		assert.ErrorAs(t, err, &failure)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidClient, failure.Code)
		mockClientRepo.AssertExpectations(t)
	})

	t.Run("Error_InactiveClient", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)
		client.IsActive = false

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:    client.ID,
			RedirectURI: "https://app.example.com/callback",
			Scope:       "openid",
		})

		assert.Nil(t, result)
		var failure *oauthDomain.AuthorizeFailure
		assert.ErrorAs(t, err, &failure)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidClient, failure.Code)
	})

	t.Run("Error_UnregisteredRedirectURI", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:    client.ID,
			RedirectURI: "https://evil.example.com/callback",
			Scope:       "openid",
		})

		// No redirect: the target is not trusted
		assert.Nil(t, result)
		var failure *oauthDomain.AuthorizeFailure
		assert.ErrorAs(t, err, &failure)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidRequest, failure.Code)
	})

	t.Run("Redirect_EmptyScopeIntersection", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:    client.ID,
			RedirectURI: "https://app.example.com/callback",
			Scope:       "admin superuser",
			State:       "xyz",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Nil(t, result.Request)
		assert.NotNil(t, result.Redirect)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidScope, result.Redirect.ErrorCode)
		assert.Equal(t, "xyz", result.Redirect.State)
	})

	t.Run("Redirect_UnsupportedChallengeMethod", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:            client.ID,
			RedirectURI:         "https://app.example.com/callback",
			Scope:               "openid",
			CodeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			CodeChallengeMethod: "S512",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result.Redirect)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidRequest, result.Redirect.ErrorCode)
	})

	t.Run("Redirect_PlainMethodDisabled", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		cfg := testAuthorizeConfig()
		cfg.PKCEAllowPlain = false

		uc := NewAuthorizeUseCase(cfg, mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:            client.ID,
			RedirectURI:         "https://app.example.com/callback",
			Scope:               "openid",
			CodeChallenge:       "some-plain-challenge",
			CodeChallengeMethod: "plain",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result.Redirect)
		assert.Equal(t, oauthDomain.ErrorCodeInvalidRequest, result.Redirect.ErrorCode)
	})

	t.Run("Success_PlainMethodDefaultedWhenOmitted", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)

		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		mockRequestRepo.On("Create", ctx, mock.MatchedBy(func(request *oauthDomain.AuthorizationRequest) bool {
			return request.CodeChallengeMethod == oauthDomain.CodeChallengeMethodPlain
		})).
			Return(nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:      client.ID,
			RedirectURI:   "https://app.example.com/callback",
			Scope:         "openid",
			CodeChallenge: "some-plain-challenge",
		})

		assert.NoError(t, err)
		assert.NotNil(t, result.Request)
		mockRequestRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		clientID := uuid.Must(uuid.NewV7())
		mockClientRepo.On("Get", ctx, clientID).
			Return(nil, errors.New("connection refused")).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		result, err := uc.Begin(ctx, &oauthDomain.BeginAuthorizationInput{
			ClientID:    clientID,
			RedirectURI: "https://app.example.com/callback",
			Scope:       "openid",
		})

		assert.Nil(t, result)
		assert.Error(t, err)
		var failure *oauthDomain.AuthorizeFailure
		assert.False(t, errors.As(err, &failure))
	})
}

func TestAuthorizeUseCase_AttachUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BindsUserToRequest", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		userID := uuid.Must(uuid.NewV7())
		request := &oauthDomain.AuthorizationRequest{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenantID,
			ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
		}

		mockRequestRepo.On("Get", ctx, request.ID).
			Return(request, nil).
			Once()
		mockRequestRepo.On("AttachUser", ctx, request.ID, userID, mock.AnythingOfType("time.Time")).
			Return(nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		err := uc.AttachUser(ctx, request.ID, userID, tenantID)

		assert.NoError(t, err)
		mockRequestRepo.AssertExpectations(t)
	})

	t.Run("Error_TenantMismatch", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		request := &oauthDomain.AuthorizationRequest{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  uuid.Must(uuid.NewV7()),
			ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
		}

		mockRequestRepo.On("Get", ctx, request.ID).
			Return(request, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		err := uc.AttachUser(ctx, request.ID, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRequestRepo.AssertNotCalled(t, "AttachUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_ExpiredRequest", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		request := &oauthDomain.AuthorizationRequest{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenantID,
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
		}

		mockRequestRepo.On("Get", ctx, request.ID).
			Return(request, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		err := uc.AttachUser(ctx, request.ID, uuid.Must(uuid.NewV7()), tenantID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestAuthorizeUseCase_GetTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsClientDisplayData", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		client := activeTestClient(tenantID)
		client.Description = "Example dashboard application"
		request := &oauthDomain.AuthorizationRequest{
			ID:        uuid.Must(uuid.NewV7()),
			ClientID:  client.ID,
			TenantID:  tenantID,
			Scopes:    []string{"openid", "profile"},
			ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
		}

		mockRequestRepo.On("Get", ctx, request.ID).
			Return(request, nil).
			Once()
		mockClientRepo.On("Get", ctx, client.ID).
			Return(client, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		ticket, err := uc.GetTicket(ctx, request.ID, tenantID)

		assert.NoError(t, err)
		assert.Equal(t, request.ID, ticket.RequestID)
		assert.Equal(t, "dashboard", ticket.ClientName)
		assert.Equal(t, "Example dashboard application", ticket.ClientDescription)
		assert.Equal(t, []string{"openid", "profile"}, ticket.Scopes)
	})

	t.Run("Error_ConsumedRequest", func(t *testing.T) {
		mockClientRepo := &mockClientRepository{}
		mockRequestRepo := &mockAuthorizationRequestRepository{}

		tenantID := uuid.Must(uuid.NewV7())
		request := &oauthDomain.AuthorizationRequest{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenantID,
			Consumed:  true,
			ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
		}

		mockRequestRepo.On("Get", ctx, request.ID).
			Return(request, nil).
			Once()

		uc := NewAuthorizeUseCase(testAuthorizeConfig(), mockClientRepo, mockRequestRepo, testLogger())
		ticket, err := uc.GetTicket(ctx, request.ID, tenantID)

		assert.Nil(t, ticket)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
