package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/authflow/authflow/internal/oauth/domain"
)

// pkceService implements PKCEService per RFC 7636.
type pkceService struct{}

// Verify applies the stored method to the presented verifier and compares
// the result against the stored challenge in constant time.
//
// S256: challenge must equal base64url(SHA-256(verifier)) without padding.
// plain: challenge must equal the verifier directly.
// Unknown methods never verify.
func (p *pkceService) Verify(challenge string, method domain.CodeChallengeMethod, verifier string) bool {
	if challenge == "" || verifier == "" {
		return false
	}

	switch method {
	case domain.CodeChallengeMethodS256:
		hash := sha256.Sum256([]byte(verifier))
		computed := base64.RawURLEncoding.EncodeToString(hash[:])
		return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
	case domain.CodeChallengeMethodPlain:
		return subtle.ConstantTimeCompare([]byte(verifier), []byte(challenge)) == 1
	default:
		return false
	}
}

// NewPKCEService creates a new PKCEService instance.
func NewPKCEService() PKCEService {
	return &pkceService{}
}
