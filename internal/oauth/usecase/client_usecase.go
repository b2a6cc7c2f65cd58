package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/validation"

	apperrors "github.com/authflow/authflow/internal/errors"
	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	"github.com/authflow/authflow/internal/oauth/service"
	appvalidation "github.com/authflow/authflow/internal/validation"
)

// clientUseCase implements ClientUseCase.
type clientUseCase struct {
	clientRepo    ClientRepository
	secretService service.SecretService
}

// Create registers a new client. Confidential clients get a generated
// secret whose plain value is returned exactly once; only its hash is
// stored.
func (c *clientUseCase) Create(
	ctx context.Context,
	input *oauthDomain.CreateClientInput,
) (*oauthDomain.CreateClientOutput, error) {
	if err := validateCreateClientInput(input); err != nil {
		return nil, err
	}

	var plainSecret string
	var secretHash *string
	if !input.Public {
		plain, hash, err := c.secretService.GenerateSecret()
		if err != nil {
			return nil, err
		}
		plainSecret = plain
		secretHash = &hash
	}

	now := time.Now().UTC()
	client := &oauthDomain.Client{
		ID:            uuid.Must(uuid.NewV7()),
		TenantID:      input.TenantID,
		SecretHash:    secretHash,
		Name:          input.Name,
		Description:   input.Description,
		RedirectURIs:  input.RedirectURIs,
		AllowedScopes: input.AllowedScopes,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &oauthDomain.CreateClientOutput{
		ClientID:    client.ID,
		PlainSecret: plainSecret,
	}, nil
}

// RotateSecret replaces a confidential client's secret. The previous secret
// stops working immediately; issued tokens are unaffected.
func (c *clientUseCase) RotateSecret(ctx context.Context, clientID uuid.UUID) (string, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return "", err
	}

	if client.IsPublic() {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "public clients have no secret to rotate")
	}

	plain, hash, err := c.secretService.GenerateSecret()
	if err != nil {
		return "", err
	}

	client.SecretHash = &hash
	client.UpdatedAt = time.Now().UTC()
	if err := c.clientRepo.Update(ctx, client); err != nil {
		return "", err
	}

	return plain, nil
}

func validateCreateClientInput(input *oauthDomain.CreateClientInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.TenantID, validation.Required),
		validation.Field(&input.Name, validation.Required, appvalidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&input.Description, validation.Length(0, 1024)),
		validation.Field(&input.RedirectURIs,
			validation.Required,
			validation.Each(appvalidation.AbsoluteURL),
		),
		validation.Field(&input.AllowedScopes,
			validation.Required,
			validation.Each(appvalidation.NoWhitespace, appvalidation.NotBlank),
		),
	)
	return appvalidation.WrapValidationError(err)
}

// NewClientUseCase creates a new ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, secretService service.SecretService) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}
