package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	oauthUseCase "github.com/authflow/authflow/internal/oauth/usecase"
)

// RunCreateClient registers a new OAuth2 client for a tenant. Confidential
// clients get a generated secret that is printed exactly once.
//
// Requirements: Database must be migrated and accessible.
func RunCreateClient(
	ctx context.Context,
	clientUseCase oauthUseCase.ClientUseCase,
	logger *slog.Logger,
	tenantID string,
	name string,
	description string,
	redirectURIs string,
	scopes string,
	public bool,
	format string,
	io IOTuple,
) error {
	tenant, err := uuid.Parse(tenantID)
	if err != nil {
		return fmt.Errorf("tenant-id must be a valid UUID: %w", err)
	}

	logger.Info("creating new client",
		slog.String("tenant_id", tenant.String()),
		slog.String("name", name),
		slog.Bool("public", public),
	)

	input := &oauthDomain.CreateClientInput{
		TenantID:      tenant,
		Name:          name,
		Description:   description,
		RedirectURIs:  splitAndTrim(redirectURIs),
		AllowedScopes: splitAndTrim(scopes),
		Public:        public,
	}

	output, err := clientUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if format == "json" {
		outputClientJSON(output, io.Writer)
	} else {
		outputClientText(output, io.Writer)
	}

	logger.Info("client created successfully",
		slog.String("client_id", output.ClientID.String()),
		slog.String("name", name),
	)

	return nil
}

// splitAndTrim converts a comma-separated string into a trimmed slice,
// dropping empty entries.
func splitAndTrim(input string) []string {
	if input == "" {
		return nil
	}

	parts := strings.Split(input, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// outputClientText outputs the result in human-readable text format.
func outputClientText(output *oauthDomain.CreateClientOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient created successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", output.ClientID.String())
	if output.PlainSecret != "" {
		_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
		_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
	} else {
		_, _ = fmt.Fprintln(writer, "Public client: no secret issued, PKCE is required.")
	}
}

// outputClientJSON outputs the result in JSON format for machine consumption.
func outputClientJSON(output *oauthDomain.CreateClientOutput, writer io.Writer) {
	result := map[string]string{
		"client_id": output.ClientID.String(),
		"secret":    output.PlainSecret,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
