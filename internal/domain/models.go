package domain

import "strings"

// Registry is one scoped registry record of the package manifest.
type Registry struct {
	Name   string
	URL    string
	Scopes []string
}

// Credentials are the inputs of the registry login handshake.
type Credentials struct {
	Username    string
	Password    string
	RegistryURL string
}

// AuthCallbacks receive the progress and the outcome of a login. Each
// callback may be nil. OnSuccess or OnError is invoked exactly once per
// started login.
type AuthCallbacks struct {
	OnInfo    func(message string)
	OnSuccess func(token string)
	OnError   func(err error)
}

func (c AuthCallbacks) Info(message string) {
	if c.OnInfo != nil {
		c.OnInfo(message)
	}
}

func (c AuthCallbacks) Success(token string) {
	if c.OnSuccess != nil {
		c.OnSuccess(token)
	}
}

func (c AuthCallbacks) Error(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

// SameURL reports whether two registry URLs name the same registry. A
// trailing slash is not significant.
func SameURL(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
