package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leofalp/chatstream/providers/ai"
)

// fileConfig mirrors the YAML layout:
//
//	providers:
//	  openai:
//	    model: gpt-4o
//	    temperature: 0.7
//	  anthropic:
//	    max_tokens: 1024
type fileConfig struct {
	Providers map[string]ai.ProviderConfig `koanf:"providers"`
}

// FileSource reads provider settings from a YAML file. API keys missing from
// the file are taken from the credential stores in order.
type FileSource struct {
	path        string
	credentials []CredentialStore

	mu        sync.RWMutex
	providers map[string]ai.ProviderConfig
}

// LoadFile reads path. A missing file yields an empty configuration, so the
// known providers still resolve through credentials and defaults. A nil
// credentials slice selects DefaultCredentials.
func LoadFile(path string, credentials []CredentialStore) (*FileSource, error) {
	if credentials == nil {
		credentials = DefaultCredentials()
	}
	source := &FileSource{path: path, credentials: credentials}
	if err := source.Reload(); err != nil {
		return nil, err
	}
	return source, nil
}

// Reload re-reads the file. On failure the previous snapshot is kept.
func (s *FileSource) Reload() error {
	providers, err := loadProviders(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.providers = providers
	s.mu.Unlock()
	return nil
}

func loadProviders(path string) (map[string]ai.ProviderConfig, error) {
	if path == "" {
		return map[string]ai.ProviderConfig{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return map[string]ai.ProviderConfig{}, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading config file %s: %w", path, err)
	}
	var parsed fileConfig
	if err := k.Unmarshal("", &parsed); err != nil {
		return nil, fmt.Errorf("error unmarshaling config file %s: %w", path, err)
	}
	if parsed.Providers == nil {
		parsed.Providers = map[string]ai.ProviderConfig{}
	}
	return parsed.Providers, nil
}

// Lookup implements Source.
func (s *FileSource) Lookup(providerID string) (ai.ProviderConfig, error) {
	s.mu.RLock()
	entry, present := s.providers[providerID]
	s.mu.RUnlock()
	return resolve(providerID, entry, present, s.credentials)
}

// ProviderIDs implements Source.
func (s *FileSource) ProviderIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedIDs(s.providers)
}

// Watch reloads the source whenever the file changes and then calls onChange
// with the reload result. Snapshots already handed out are unaffected.
func (s *FileSource) Watch(onChange func(error)) error {
	if s.path == "" {
		return errors.New("no config file to watch")
	}
	return file.Provider(s.path).Watch(func(_ interface{}, err error) {
		if err == nil {
			err = s.Reload()
		}
		if err != nil {
			slog.Warn("config reload failed", "path", s.path, "error", err)
		}
		if onChange != nil {
			onChange(err)
		}
	})
}

var _ Source = (*FileSource)(nil)
