// Package auth stores Google Cloud credentials for metricdocs in the OS
// keychain. The stored value is the full service-account JSON; when no
// credentials are stored, callers fall back to Application Default
// Credentials.
package auth

import (
	"errors"

	"github.com/metricdocs/metricdocs/internal/util"
)

const ServiceName = "metricdocs"

// DefaultAccount is the account alias used when none is given.
const DefaultAccount = "default"

var ErrCredentialsNotFound = errors.New("stored credentials not found")

type Store interface {
	SetCredentials(account string, credentialsJSON string) error
	GetCredentials(account string) (string, error)
	DeleteCredentials(account string) error
}

// DefaultStore returns the standard credential store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeAccount normalizes an account alias for consistent key lookup.
func NormalizeAccount(account string) string {
	return util.NormalizeKey(account)
}
