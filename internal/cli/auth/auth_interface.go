package auth

import "fmt"

// TokenStore defines the interface for credential token storage.
// LoadToken returns ErrNotAuthenticated when nothing is stored and
// DeleteToken succeeds when there is nothing to delete.
type TokenStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
}

// Keyring implements TokenStore using the OS keyring
type Keyring struct{}

func (Keyring) SaveToken(token string) error {
	return SaveToken(token)
}

func (Keyring) LoadToken() (string, error) {
	return LoadToken()
}

func (Keyring) DeleteToken() error {
	return DeleteToken()
}

// Backend names accepted by NewStore.
const (
	BackendKeyring = "keyring"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

// NewStore returns the token store for the configured backend.
// tokenPath is only used by the file backend.
func NewStore(backend, tokenPath string) (TokenStore, error) {
	switch backend {
	case "", BackendKeyring:
		return Keyring{}, nil
	case BackendFile:
		return NewFileStore(tokenPath), nil
	case BackendMemory:
		return NewMemoryStore(""), nil
	default:
		return nil, fmt.Errorf("unknown token store %q (expected %q, %q or %q)", backend, BackendKeyring, BackendFile, BackendMemory)
	}
}
