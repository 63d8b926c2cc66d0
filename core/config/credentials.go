package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name API keys are stored under.
const KeyringService = "chatstream"

// ErrCredentialNotFound is returned by a CredentialStore that holds no key for
// the provider.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialStore yields API keys by provider id.
type CredentialStore interface {
	Get(providerID string) (string, error)
}

// KeyringStore keeps API keys in the OS keyring (Keychain, Secret Service,
// Windows Credential Manager), one entry per provider.
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService}
}

func (k *KeyringStore) Get(providerID string) (string, error) {
	secret, err := keyring.Get(k.service, providerID)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrCredentialNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error retrieving %s key from keyring: %w", providerID, err)
	}
	return secret, nil
}

func (k *KeyringStore) Set(providerID, apiKey string) error {
	if err := keyring.Set(k.service, providerID, apiKey); err != nil {
		return fmt.Errorf("error setting %s key in keyring: %w", providerID, err)
	}
	return nil
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (k *KeyringStore) Delete(providerID string) error {
	err := keyring.Delete(k.service, providerID)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("error deleting %s key from keyring: %w", providerID, err)
	}
	return nil
}

// EnvStore reads keys from each provider's environment variable
// (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).
type EnvStore struct{}

func (EnvStore) Get(providerID string) (string, error) {
	info, ok := Info(providerID)
	if !ok || info.EnvKey == "" {
		return "", ErrCredentialNotFound
	}
	if value := os.Getenv(info.EnvKey); value != "" {
		return value, nil
	}
	return "", ErrCredentialNotFound
}

// DefaultCredentials is the lookup order used when none is given: keyring,
// then environment.
func DefaultCredentials() []CredentialStore {
	return []CredentialStore{NewKeyringStore(), EnvStore{}}
}

// lookupCredential returns the first key found. A store failure other than
// ErrCredentialNotFound (a locked keyring, say) is skipped so later stores
// still get a chance; it is reported only if nothing yields a key.
func lookupCredential(providerID string, stores []CredentialStore) (string, error) {
	var firstErr error
	for _, store := range stores {
		key, err := store.Get(providerID)
		if err == nil && key != "" {
			return key, nil
		}
		if err != nil && !errors.Is(err, ErrCredentialNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrNotConfigured, providerID, firstErr)
	}
	return "", nil
}
