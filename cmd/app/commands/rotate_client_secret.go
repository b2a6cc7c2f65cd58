package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	oauthUseCase "github.com/authflow/authflow/internal/oauth/usecase"
)

// RunRotateClientSecret replaces a confidential client's secret. The new
// plain secret is printed exactly once; existing tokens stay valid.
//
// Requirements: Database must be migrated and accessible.
func RunRotateClientSecret(
	ctx context.Context,
	clientUseCase oauthUseCase.ClientUseCase,
	logger *slog.Logger,
	clientID string,
	format string,
	io IOTuple,
) error {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return fmt.Errorf("client-id must be a valid UUID: %w", err)
	}

	logger.Info("rotating client secret", slog.String("client_id", id.String()))

	plainSecret, err := clientUseCase.RotateSecret(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to rotate client secret: %w", err)
	}

	if format == "json" {
		outputRotatedSecretJSON(id, plainSecret, io.Writer)
	} else {
		outputRotatedSecretText(id, plainSecret, io.Writer)
	}

	logger.Info("client secret rotated successfully", slog.String("client_id", id.String()))

	return nil
}

// outputRotatedSecretText outputs the result in human-readable text format.
func outputRotatedSecretText(clientID uuid.UUID, plainSecret string, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nClient secret rotated successfully!")
	_, _ = fmt.Fprintf(writer, "Client ID: %s\n", clientID.String())
	_, _ = fmt.Fprintf(writer, "New secret: %s\n", plainSecret)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

// outputRotatedSecretJSON outputs the result in JSON format for machine consumption.
func outputRotatedSecretJSON(clientID uuid.UUID, plainSecret string, writer io.Writer) {
	result := map[string]string{
		"client_id": clientID.String(),
		"secret":    plainSecret,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
