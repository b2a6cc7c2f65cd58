package usecase

import (
	"context"
	"time"

	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/oauth/service"
)

// validateUseCase implements ValidateUseCase.
type validateUseCase struct {
	accessTokenRepo   AccessTokenRepository
	credentialService service.CredentialService
}

// Validate hashes the presented bearer token and checks that it exists, is
// not expired, and is not revoked. Every failure, including storage errors,
// is ErrUnauthorized: validation never produces a false positive.
func (v *validateUseCase) Validate(ctx context.Context, bearerToken string) (*oauthDomain.TokenInfo, error) {
	if bearerToken == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "missing bearer token")
	}

	tokenHash := v.credentialService.Hash(bearerToken)
	token, err := v.accessTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid access token")
	}

	if !token.IsActive(time.Now().UTC()) {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid access token")
	}

	return &oauthDomain.TokenInfo{
		UserID:    token.UserID,
		ClientID:  token.ClientID,
		TenantID:  token.TenantID,
		Scopes:    token.Scopes,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// NewValidateUseCase creates a new ValidateUseCase.
func NewValidateUseCase(
	accessTokenRepo AccessTokenRepository,
	credentialService service.CredentialService,
) ValidateUseCase {
	return &validateUseCase{
		accessTokenRepo:   accessTokenRepo,
		credentialService: credentialService,
	}
}
