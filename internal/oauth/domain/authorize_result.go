package domain

import "net/url"

// AuthorizeFailure is a pre-trust authorization failure. The redirect URI
// was not yet validated against the client registry when the failure
// occurred, so the caller must render an error page instead of redirecting
// to a possibly attacker-supplied target.
type AuthorizeFailure struct {
	Code        string // OAuth2 error code
	Description string
}

// Error implements the error interface.
func (f *AuthorizeFailure) Error() string {
	if f.Description == "" {
		return f.Code
	}
	return f.Code + ": " + f.Description
}

// AuthorizeRedirect is a post-trust authorization outcome. The redirect
// URI has been validated against the client's registered set, so sending
// the browser there is safe. Either Code or ErrorCode is set, never both.
type AuthorizeRedirect struct {
	RedirectURI string // Validated redirect target
	State       string // Echoed back unmodified when present
	Code        string // Authorization code value on approval
	ErrorCode   string // OAuth2 error code on failure or denial
}

// URL builds the full redirect URL with code/error and state appended as
// query parameters, preserving any query parameters the registered URI
// already carries.
func (r *AuthorizeRedirect) URL() (string, error) {
	u, err := url.Parse(r.RedirectURI)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if r.ErrorCode != "" {
		q.Set("error", r.ErrorCode)
	} else {
		q.Set("code", r.Code)
	}
	if r.State != "" {
		q.Set("state", r.State)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewCodeRedirect builds an approval redirect carrying the code.
func NewCodeRedirect(redirectURI, state, code string) *AuthorizeRedirect {
	return &AuthorizeRedirect{RedirectURI: redirectURI, State: state, Code: code}
}

// NewErrorRedirect builds a failure redirect carrying the error code.
func NewErrorRedirect(redirectURI, state, errorCode string) *AuthorizeRedirect {
	return &AuthorizeRedirect{RedirectURI: redirectURI, State: state, ErrorCode: errorCode}
}
