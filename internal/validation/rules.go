// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/authflow/authflow/internal/errors"
)

var (
	// codeVerifierRegex matches the unreserved character set allowed in
	// PKCE code verifiers and challenges (RFC 7636 section 4.1).
	codeVerifierRegex = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// AbsoluteURL validates that a string is an absolute URL with a scheme and
// host and without a fragment. Redirect URIs must satisfy this before they
// are compared against a client's registered set.
var AbsoluteURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return u.Scheme != "" && u.Host != "" && u.Fragment == ""
	},
	validation.NewError("validation_absolute_url", "must be an absolute URL without a fragment"),
)

// CodeVerifier validates the PKCE code verifier character set and length.
var CodeVerifier = validation.NewStringRuleWithError(
	func(s string) bool {
		return codeVerifierRegex.MatchString(s)
	},
	validation.NewError(
		"validation_code_verifier",
		"must be 43-128 characters from the unreserved set",
	),
)
