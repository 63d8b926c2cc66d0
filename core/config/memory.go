package config

import (
	"sync"

	"github.com/leofalp/chatstream/providers/ai"
)

// MemorySource holds configurations in memory. Useful for tests and for
// embedding callers that manage settings themselves.
type MemorySource struct {
	credentials []CredentialStore

	mu        sync.RWMutex
	providers map[string]ai.ProviderConfig
}

// NewMemorySource creates an empty source. Keys missing from a stored
// configuration are looked up in credentials, if any.
func NewMemorySource(credentials ...CredentialStore) *MemorySource {
	return &MemorySource{
		credentials: credentials,
		providers:   make(map[string]ai.ProviderConfig),
	}
}

// Set stores config under its ProviderID, replacing any previous entry.
func (m *MemorySource) Set(config ai.ProviderConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[config.ProviderID] = config
}

func (m *MemorySource) Delete(providerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.providers, providerID)
}

func (m *MemorySource) Lookup(providerID string) (ai.ProviderConfig, error) {
	m.mu.RLock()
	entry, present := m.providers[providerID]
	m.mu.RUnlock()
	return resolve(providerID, entry, present, m.credentials)
}

func (m *MemorySource) ProviderIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedIDs(m.providers)
}

var _ Source = (*MemorySource)(nil)
