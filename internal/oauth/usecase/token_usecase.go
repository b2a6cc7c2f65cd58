package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/authflow/authflow/internal/config"
	"github.com/authflow/authflow/internal/database"
	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/oauth/service"
)

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config            *config.Config
	clientRepo        ClientRepository
	codeRepo          AuthorizationCodeRepository
	accessTokenRepo   AccessTokenRepository
	refreshTokenRepo  RefreshTokenRepository
	secretService     service.SecretService
	credentialService service.CredentialService
	pkceService       service.PKCEService
	txManager         database.TxManager
	logger            *slog.Logger
}

// IssueCode mints a single-use authorization code from a consumed request.
// The code copies the request's grant parameters so the exchange can verify
// them without the request record.
func (t *tokenUseCase) IssueCode(
	ctx context.Context,
	request *oauthDomain.AuthorizationRequest,
	userID uuid.UUID,
) (string, error) {
	plainCode, codeHash, err := t.credentialService.Generate()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	code := &oauthDomain.AuthorizationCode{
		ID:                  uuid.Must(uuid.NewV7()),
		CodeHash:            codeHash,
		ClientID:            request.ClientID,
		TenantID:            request.TenantID,
		UserID:              userID,
		Scopes:              request.Scopes,
		RedirectURI:         request.RedirectURI,
		CodeChallenge:       request.CodeChallenge,
		CodeChallengeMethod: request.CodeChallengeMethod,
		Used:                false,
		ExpiresAt:           now.Add(t.config.AuthorizationCodeExpiration),
		CreatedAt:           now,
	}

	if err := t.codeRepo.Create(ctx, code); err != nil {
		return "", err
	}

	return plainCode, nil
}

// Exchange trades an authorization code for a token pair.
//
// The code is burned in its own auto-committed statement before client and
// PKCE checks run, so a failed exchange still burns it: an attacker who
// triggers a failure cannot retry with the same code. Only the pair mint
// runs in a transaction; wrapping the burn in it would let a later check
// failure roll the burn back. Protocol failures are *OAuth2Error values;
// anything else is an internal error the transport maps to server_error.
func (t *tokenUseCase) Exchange(
	ctx context.Context,
	input *oauthDomain.ExchangeCodeInput,
) (*oauthDomain.TokenPairOutput, error) {
	codeHash := t.credentialService.Hash(input.Code)
	code, err := t.codeRepo.GetByCodeHash(ctx, codeHash)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidGrant,
				"authorization code is invalid or expired",
			)
		}
		return nil, err
	}

	now := time.Now().UTC()
	if code.IsExpired(now) {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidGrant,
			"authorization code is invalid or expired",
		)
	}

	// Burn the code before further checks; the loser of a concurrent
	// exchange sees it as already used
	used, err := t.codeRepo.MarkUsed(ctx, code.ID)
	if err != nil {
		return nil, err
	}
	if !used {
		t.logger.Warn("authorization code replay detected",
			slog.String("client_id", code.ClientID.String()),
		)
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidGrant,
			"authorization code was already used",
		)
	}

	client, err := t.authenticateClient(ctx, input.ClientID, input.ClientSecret)
	if err != nil {
		return nil, err
	}
	if client.ID != code.ClientID {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidClient,
			"authorization code was issued to another client",
		)
	}

	// PKCE is mandatory for public clients
	if client.IsPublic() && !code.HasPKCE() {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidGrant,
			"public clients must use PKCE",
		)
	}

	// Bit-exact comparison against the URI bound at authorization time
	if input.RedirectURI != code.RedirectURI {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidGrant,
			"redirect_uri does not match the authorization request",
		)
	}

	if code.HasPKCE() {
		if input.CodeVerifier == "" {
			return nil, oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidGrant,
				"code_verifier is required",
			)
		}
		if !t.pkceService.Verify(code.CodeChallenge, code.CodeChallengeMethod, input.CodeVerifier) {
			return nil, oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidGrant,
				"code_verifier does not match the code challenge",
			)
		}
	}

	// A code exchange starts a new token family
	familyID := uuid.Must(uuid.NewV7())

	var output *oauthDomain.TokenPairOutput
	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		var mintErr error
		output, mintErr = t.mintPair(ctx, code.ClientID, code.TenantID, code.UserID, code.Scopes, familyID, now)
		return mintErr
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// Refresh rotates a refresh token into a new token pair.
//
// Rotation is single-use: presenting a token that was already rotated is
// treated as theft, and the whole family is revoked on both sides. The
// revocation happens after the refresh transaction ends, in a transaction
// of its own, so returning invalid_grant cannot roll it back.
func (t *tokenUseCase) Refresh(
	ctx context.Context,
	input *oauthDomain.RefreshTokenInput,
) (*oauthDomain.TokenPairOutput, error) {
	var output *oauthDomain.TokenPairOutput
	var reused *oauthDomain.RefreshToken

	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		tokenHash := t.credentialService.Hash(input.RefreshToken)
		token, err := t.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				return oauthDomain.NewOAuth2Error(
					oauthDomain.ErrorCodeInvalidGrant,
					"refresh token is invalid or expired",
				)
			}
			return err
		}

		now := time.Now().UTC()
		if token.IsExpired(now) || token.IsRevoked() {
			return oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidGrant,
				"refresh token is invalid or expired",
			)
		}

		client, err := t.authenticateClient(ctx, input.ClientID, input.ClientSecret)
		if err != nil {
			return err
		}
		if client.ID != token.ClientID {
			return oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidClient,
				"refresh token was issued to another client",
			)
		}

		if token.IsRotated() {
			reused = token
			return nil
		}

		// The replacement ID is minted first so the rotation can link it
		newRefreshTokenID := uuid.Must(uuid.NewV7())
		rotated, err := t.refreshTokenRepo.Rotate(ctx, token.ID, newRefreshTokenID, now)
		if err != nil {
			return err
		}
		if !rotated {
			// Lost a race against a concurrent refresh of the same token
			reused = token
			return nil
		}

		output, err = t.mintPairWithRefreshID(
			ctx, newRefreshTokenID,
			token.ClientID, token.TenantID, token.UserID,
			token.Scopes, token.FamilyID, now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	if reused != nil {
		return nil, t.revokeFamilyOnReuse(ctx, reused)
	}

	return output, nil
}

// Revoke revokes the presented token for an authenticated client. The token
// value is tried as a refresh token first, then as an access token. Unknown
// tokens are not an error per RFC 7009.
func (t *tokenUseCase) Revoke(ctx context.Context, input *oauthDomain.RevokeTokenInput) error {
	client, err := t.authenticateClient(ctx, input.ClientID, input.ClientSecret)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tokenHash := t.credentialService.Hash(input.Token)

	refreshToken, err := t.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err == nil {
		// Only the owning client may revoke its tokens
		if refreshToken.ClientID != client.ID {
			return nil
		}
		// Revoking a refresh token invalidates the whole grant
		if err := t.refreshTokenRepo.RevokeFamily(ctx, refreshToken.FamilyID, now); err != nil {
			return err
		}
		return t.accessTokenRepo.RevokeFamily(ctx, refreshToken.FamilyID, now)
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	accessToken, err := t.accessTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if accessToken.ClientID != client.ID {
		return nil
	}

	return t.accessTokenRepo.Revoke(ctx, accessToken.ID, now)
}

// authenticateClient loads the client and verifies its secret. Confidential
// clients must present the right secret; public clients must present none.
func (t *tokenUseCase) authenticateClient(
	ctx context.Context,
	clientID uuid.UUID,
	clientSecret string,
) (*oauthDomain.Client, error) {
	client, err := t.clientRepo.Get(ctx, clientID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidClient,
				"client authentication failed",
			)
		}
		return nil, err
	}
	if !client.IsActive {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidClient,
			"client authentication failed",
		)
	}

	if client.IsPublic() {
		if clientSecret != "" {
			return nil, oauthDomain.NewOAuth2Error(
				oauthDomain.ErrorCodeInvalidClient,
				"client authentication failed",
			)
		}
		return client, nil
	}

	if clientSecret == "" || !t.secretService.CompareSecret(clientSecret, *client.SecretHash) {
		return nil, oauthDomain.NewOAuth2Error(
			oauthDomain.ErrorCodeInvalidClient,
			"client authentication failed",
		)
	}

	return client, nil
}

// revokeFamilyOnReuse handles a rotated refresh token being presented
// again. The family revocation commits in its own transaction: the refresh
// fails with invalid_grant, and a failure must not undo the revocation.
func (t *tokenUseCase) revokeFamilyOnReuse(
	ctx context.Context,
	token *oauthDomain.RefreshToken,
) error {
	t.logger.Warn("refresh token reuse detected, revoking token family",
		slog.String("client_id", token.ClientID.String()),
		slog.String("family_id", token.FamilyID.String()),
	)

	now := time.Now().UTC()
	err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := t.refreshTokenRepo.RevokeFamily(ctx, token.FamilyID, now); err != nil {
			return err
		}
		return t.accessTokenRepo.RevokeFamily(ctx, token.FamilyID, now)
	})
	if err != nil {
		return err
	}

	return oauthDomain.NewOAuth2Error(
		oauthDomain.ErrorCodeInvalidGrant,
		"refresh token was already used",
	)
}

// mintPair creates a new access and refresh token pair in the given family.
func (t *tokenUseCase) mintPair(
	ctx context.Context,
	clientID, tenantID, userID uuid.UUID,
	scopes []string,
	familyID uuid.UUID,
	now time.Time,
) (*oauthDomain.TokenPairOutput, error) {
	return t.mintPairWithRefreshID(
		ctx, uuid.Must(uuid.NewV7()),
		clientID, tenantID, userID, scopes, familyID, now,
	)
}

func (t *tokenUseCase) mintPairWithRefreshID(
	ctx context.Context,
	refreshTokenID uuid.UUID,
	clientID, tenantID, userID uuid.UUID,
	scopes []string,
	familyID uuid.UUID,
	now time.Time,
) (*oauthDomain.TokenPairOutput, error) {
	plainAccess, accessHash, err := t.credentialService.Generate()
	if err != nil {
		return nil, err
	}
	plainRefresh, refreshHash, err := t.credentialService.Generate()
	if err != nil {
		return nil, err
	}

	accessToken := &oauthDomain.AccessToken{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: accessHash,
		ClientID:  clientID,
		TenantID:  tenantID,
		UserID:    userID,
		Scopes:    scopes,
		FamilyID:  familyID,
		ExpiresAt: now.Add(t.config.AccessTokenExpiration),
		CreatedAt: now,
	}
	refreshToken := &oauthDomain.RefreshToken{
		ID:        refreshTokenID,
		TokenHash: refreshHash,
		ClientID:  clientID,
		TenantID:  tenantID,
		UserID:    userID,
		Scopes:    scopes,
		FamilyID:  familyID,
		ExpiresAt: now.Add(t.config.RefreshTokenExpiration),
		CreatedAt: now,
	}

	if err := t.accessTokenRepo.Create(ctx, accessToken); err != nil {
		return nil, err
	}
	if err := t.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &oauthDomain.TokenPairOutput{
		AccessToken:  plainAccess,
		TokenType:    oauthDomain.TokenTypeBearer,
		ExpiresIn:    int64(t.config.AccessTokenExpiration.Seconds()),
		RefreshToken: plainRefresh,
		Scopes:       scopes,
	}, nil
}

// NewTokenUseCase creates a new TokenUseCase.
func NewTokenUseCase(
	cfg *config.Config,
	clientRepo ClientRepository,
	codeRepo AuthorizationCodeRepository,
	accessTokenRepo AccessTokenRepository,
	refreshTokenRepo RefreshTokenRepository,
	secretService service.SecretService,
	credentialService service.CredentialService,
	pkceService service.PKCEService,
	txManager database.TxManager,
	logger *slog.Logger,
) TokenUseCase {
	return &tokenUseCase{
		config:            cfg,
		clientRepo:        clientRepo,
		codeRepo:          codeRepo,
		accessTokenRepo:   accessTokenRepo,
		refreshTokenRepo:  refreshTokenRepo,
		secretService:     secretService,
		credentialService: credentialService,
		pkceService:       pkceService,
		txManager:         txManager,
		logger:            logger,
	}
}
