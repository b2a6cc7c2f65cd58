package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	oauthDomain "github.com/authflow/authflow/internal/oauth/domain"
	oauthUseCase "github.com/authflow/authflow/internal/oauth/usecase"
)

// RunCleanExpired runs one sweep of expired authorization requests, codes,
// and tokens. The server runs the same sweep on a schedule; this command
// exists for operators who want an immediate pass.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpired(
	ctx context.Context,
	cleanupUseCase oauthUseCase.CleanupUseCase,
	logger *slog.Logger,
	format string,
	io IOTuple,
) error {
	logger.Info("sweeping expired credentials")

	result, err := cleanupUseCase.Sweep(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep expired credentials: %w", err)
	}

	if format == "json" {
		outputSweepJSON(result, io.Writer)
	} else {
		outputSweepText(result, io.Writer)
	}

	logger.Info("sweep completed",
		slog.Int64("authorization_requests", result.AuthorizationRequests),
		slog.Int64("authorization_codes", result.AuthorizationCodes),
		slog.Int64("access_tokens", result.AccessTokens),
		slog.Int64("refresh_tokens", result.RefreshTokens),
		slog.Int("failed_categories", len(result.Failed)),
	)

	if len(result.Failed) > 0 {
		return fmt.Errorf("sweep failed for categories: %v", result.Failed)
	}

	return nil
}

// outputSweepText outputs the result in human-readable text format.
func outputSweepText(result *oauthDomain.SweepResult, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "Sweep completed:")
	_, _ = fmt.Fprintf(writer, "  Authorization requests: %d\n", result.AuthorizationRequests)
	_, _ = fmt.Fprintf(writer, "  Authorization codes:    %d\n", result.AuthorizationCodes)
	_, _ = fmt.Fprintf(writer, "  Access tokens:          %d\n", result.AccessTokens)
	_, _ = fmt.Fprintf(writer, "  Refresh tokens:         %d\n", result.RefreshTokens)
	if len(result.Failed) > 0 {
		_, _ = fmt.Fprintf(writer, "  Failed categories:      %v\n", result.Failed)
	}
}

// outputSweepJSON outputs the result in JSON format for machine consumption.
func outputSweepJSON(result *oauthDomain.SweepResult, writer io.Writer) {
	payload := map[string]interface{}{
		"authorization_requests": result.AuthorizationRequests,
		"authorization_codes":    result.AuthorizationCodes,
		"access_tokens":          result.AccessTokens,
		"refresh_tokens":         result.RefreshTokens,
		"failed":                 result.Failed,
	}

	jsonBytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
