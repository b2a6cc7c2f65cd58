package service

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/authflow/authflow/internal/oauth/domain"
)

func TestNewPKCEService(t *testing.T) {
	svc := NewPKCEService()
	assert.NotNil(t, svc)
	assert.IsType(t, &pkceService{}, svc)
}

func TestPKCEService_VerifyS256(t *testing.T) {
	svc := NewPKCEService()

	// RFC 7636 appendix B test vector
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	t.Run("Success_ValidVerifier", func(t *testing.T) {
		assert.True(t, svc.Verify(challenge, domain.CodeChallengeMethodS256, verifier))
	})

	t.Run("Failure_WrongVerifier", func(t *testing.T) {
		assert.False(t, svc.Verify(challenge, domain.CodeChallengeMethodS256, verifier+"x"))
	})

	t.Run("Failure_VerifierIsNotHashed", func(t *testing.T) {
		// Presenting the challenge itself as the verifier must fail under S256
		assert.False(t, svc.Verify(challenge, domain.CodeChallengeMethodS256, challenge))
	})

	t.Run("Success_ComputedVector", func(t *testing.T) {
		v := "another-code-verifier-with-enough-entropy-123"
		hash := sha256.Sum256([]byte(v))
		c := base64.RawURLEncoding.EncodeToString(hash[:])

		assert.True(t, svc.Verify(c, domain.CodeChallengeMethodS256, v))
	})
}

func TestPKCEService_VerifyPlain(t *testing.T) {
	svc := NewPKCEService()

	t.Run("Success_ExactMatch", func(t *testing.T) {
		assert.True(t, svc.Verify("my-verifier", domain.CodeChallengeMethodPlain, "my-verifier"))
	})

	t.Run("Failure_Mismatch", func(t *testing.T) {
		assert.False(t, svc.Verify("my-verifier", domain.CodeChallengeMethodPlain, "other-verifier"))
	})
}

func TestPKCEService_VerifyEdgeCases(t *testing.T) {
	svc := NewPKCEService()

	t.Run("Failure_EmptyChallenge", func(t *testing.T) {
		assert.False(t, svc.Verify("", domain.CodeChallengeMethodS256, "verifier"))
	})

	t.Run("Failure_EmptyVerifier", func(t *testing.T) {
		assert.False(t, svc.Verify("challenge", domain.CodeChallengeMethodS256, ""))
	})

	t.Run("Failure_UnknownMethod", func(t *testing.T) {
		assert.False(t, svc.Verify("challenge", domain.CodeChallengeMethod("S512"), "challenge"))
	})
}
