package npm

import (
	"fmt"
	"regexp"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

const minTokenLength = 11

var (
	usernamePattern = regexp.MustCompile(`^[()\-!'*~._a-z0-9]+$`)
	passwordPattern = regexp.MustCompile(`^[_a-zA-Z0-9]{6,}$`)
)

func validateCredentials(creds domain.Credentials) error {
	if creds.Username == "" {
		return fmt.Errorf("%w: user name is empty", domain.ErrValidation)
	}
	if creds.Password == "" {
		return fmt.Errorf("%w: password is empty", domain.ErrValidation)
	}
	if creds.RegistryURL == "" {
		return fmt.Errorf("%w: registry url is empty", domain.ErrValidation)
	}
	return nil
}

// ValidateUsername checks a name against the characters registries accept
// for user accounts.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: user name may only contain lower case letters, digits and ()-!'*~._", domain.ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if !passwordPattern.MatchString(password) {
		return fmt.Errorf("%w: password needs at least 6 letters, digits or underscores", domain.ErrValidation)
	}
	return nil
}

// ValidToken reports whether token looks like a registry access token.
func ValidToken(token string) bool {
	return len(token) >= minTokenLength
}
