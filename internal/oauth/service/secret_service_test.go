package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecretService(t *testing.T) {
	svc := NewSecretService()
	assert.NotNil(t, svc)
	assert.IsType(t, &secretService{}, svc)
}

func TestSecretService_GenerateSecret(t *testing.T) {
	svc := NewSecretService()

	t.Run("Success_GeneratesValidSecret", func(t *testing.T) {
		plainSecret, hashedSecret, err := svc.GenerateSecret()
		require.NoError(t, err)

		assert.NotEmpty(t, plainSecret)

		// Verify plain secret is valid base64
		decoded, err := base64.URLEncoding.DecodeString(plainSecret)
		require.NoError(t, err)
		assert.Len(t, decoded, 32) // 32 bytes

		assert.NotEmpty(t, hashedSecret)
		assert.NotEqual(t, plainSecret, hashedSecret)

		// Verify hashed secret is in PHC format
		assert.Contains(t, hashedSecret, "$argon2id$")
	})

	t.Run("Success_GeneratesUniqueSecrets", func(t *testing.T) {
		plainSecret1, hashedSecret1, err := svc.GenerateSecret()
		require.NoError(t, err)

		plainSecret2, hashedSecret2, err := svc.GenerateSecret()
		require.NoError(t, err)

		assert.NotEqual(t, plainSecret1, plainSecret2)
		assert.NotEqual(t, hashedSecret1, hashedSecret2)
	})
}

func TestSecretService_CompareSecret(t *testing.T) {
	svc := NewSecretService()

	plainSecret, hashedSecret, err := svc.GenerateSecret()
	require.NoError(t, err)

	t.Run("Success_MatchingSecret", func(t *testing.T) {
		assert.True(t, svc.CompareSecret(plainSecret, hashedSecret))
	})

	t.Run("Failure_WrongSecret", func(t *testing.T) {
		assert.False(t, svc.CompareSecret("wrong-secret", hashedSecret))
	})

	t.Run("Failure_MalformedHash", func(t *testing.T) {
		assert.False(t, svc.CompareSecret(plainSecret, "not-a-phc-hash"))
	})
}

func TestSecretService_HashSecret(t *testing.T) {
	svc := NewSecretService()

	t.Run("Success_HashIsVerifiable", func(t *testing.T) {
		hashed, err := svc.HashSecret("rotate-me-123")
		require.NoError(t, err)

		assert.Contains(t, hashed, "$argon2id$")
		assert.True(t, svc.CompareSecret("rotate-me-123", hashed))
	})

	t.Run("Success_SaltedHashesDiffer", func(t *testing.T) {
		hash1, err := svc.HashSecret("same-input")
		require.NoError(t, err)
		hash2, err := svc.HashSecret("same-input")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})
}
