package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessToken_IsActive(t *testing.T) {
	now := time.Now()
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name     string
		token    AccessToken
		expected bool
	}{
		{
			name:     "valid token",
			token:    AccessToken{ExpiresAt: now.Add(time.Hour)},
			expected: true,
		},
		{
			name:     "expired token",
			token:    AccessToken{ExpiresAt: now.Add(-time.Hour)},
			expected: false,
		},
		{
			name:     "expiry boundary counts as expired",
			token:    AccessToken{ExpiresAt: now},
			expected: false,
		},
		{
			name:     "revoked token",
			token:    AccessToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.token.IsActive(now))
		})
	}
}

func TestRefreshToken_States(t *testing.T) {
	now := time.Now()
	rotated := now.Add(-time.Minute)
	revoked := now.Add(-time.Minute)

	fresh := RefreshToken{ExpiresAt: now.Add(24 * time.Hour)}
	assert.False(t, fresh.IsExpired(now))
	assert.False(t, fresh.IsRotated())
	assert.False(t, fresh.IsRevoked())

	spent := RefreshToken{ExpiresAt: now.Add(24 * time.Hour), RotatedAt: &rotated}
	assert.True(t, spent.IsRotated())

	dead := RefreshToken{ExpiresAt: now.Add(24 * time.Hour), RevokedAt: &revoked}
	assert.True(t, dead.IsRevoked())

	expired := RefreshToken{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, expired.IsExpired(now))
}

func TestAuthorizationRequest_IsExpired(t *testing.T) {
	now := time.Now()

	pending := AuthorizationRequest{ExpiresAt: now.Add(10 * time.Minute)}
	assert.False(t, pending.IsExpired(now))

	stale := AuthorizationRequest{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, stale.IsExpired(now))
}

func TestAuthorizationCode_HasPKCE(t *testing.T) {
	withChallenge := AuthorizationCode{CodeChallenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"}
	assert.True(t, withChallenge.HasPKCE())

	without := AuthorizationCode{}
	assert.False(t, without.HasPKCE())
}
