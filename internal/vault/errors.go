package vault

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Backend when the vault holds no secret under
// the requested name.
var ErrNotFound = errors.New("vault: secret not found")

// SecretNotFoundError reports a reference the vault answered for but
// without a usable value.  Never cached.
type SecretNotFoundError struct {
	Reference string
}

func (e *SecretNotFoundError) Error() string {
	if e.Reference == "" {
		return "vault: empty secret reference"
	}
	return fmt.Sprintf("vault: secret %q not found or empty", e.Reference)
}

// UnavailableError reports a network or authentication failure while
// reaching the vault.  Never cached, never retried here.
type UnavailableError struct {
	Reference string
	Err       error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("vault: resolve %q: %v", e.Reference, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
