package domain

import "context"

// AuthResult is the outcome of a login started in the background.
type AuthResult struct {
	Token string
	Err   error
}

// Authenticator obtains a registry access token for a user. At most one
// login runs at a time.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials, callbacks AuthCallbacks) (string, error)

	// Start runs the login in the background. The channel yields exactly
	// one result and is then closed.
	Start(ctx context.Context, creds Credentials, callbacks AuthCallbacks) <-chan AuthResult

	Busy() bool
}

// TokenVerifier resolves the account a token belongs to.
type TokenVerifier interface {
	WhoAmI(ctx context.Context, registryURL, token string) (string, error)
}
