package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/leofalp/chatstream/providers/ai"
)

type staticStore map[string]string

func (s staticStore) Get(providerID string) (string, error) {
	if key, ok := s[providerID]; ok {
		return key, nil
	}
	return "", ErrCredentialNotFound
}

type brokenStore struct{}

func (brokenStore) Get(string) (string, error) { return "", errors.New("keyring locked") }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatstream.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestWithDefaults(t *testing.T) {
	config := WithDefaults("anthropic", ai.ProviderConfig{})

	assert.Equal(t, "anthropic", config.ProviderID)
	assert.Equal(t, "https://api.anthropic.com", config.BaseURL)
	assert.Equal(t, "claude-3-sonnet-20240229", config.Model)
	assert.Equal(t, 60, config.TimeoutSeconds)
	assert.Equal(t, "2023-06-01", config.AnthropicVersion)
}

func TestWithDefaults_KeepsExplicitValues(t *testing.T) {
	config := WithDefaults("openai", ai.ProviderConfig{BaseURL: "http://localhost:11434", Model: "llama3", TimeoutSeconds: 5})

	assert.Equal(t, "http://localhost:11434", config.BaseURL)
	assert.Equal(t, "llama3", config.Model)
	assert.Equal(t, 5, config.TimeoutSeconds)
}

func TestLoadFile_ParsesProviders(t *testing.T) {
	path := writeConfig(t, `
providers:
  openai:
    api_key: sk-file
    model: gpt-4o
    temperature: 0.2
    max_tokens: 256
  gemini:
    timeout_seconds: 15
`)
	source, err := LoadFile(path, []CredentialStore{staticStore{"gemini": "g-key"}})
	require.NoError(t, err)

	openaiConfig, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-file", openaiConfig.APIKey)
	assert.Equal(t, "gpt-4o", openaiConfig.Model)
	assert.Equal(t, "https://api.openai.com", openaiConfig.BaseURL)
	require.NotNil(t, openaiConfig.Temperature)
	assert.InDelta(t, 0.2, *openaiConfig.Temperature, 1e-9)
	require.NotNil(t, openaiConfig.MaxTokens)
	assert.Equal(t, 256, *openaiConfig.MaxTokens)

	geminiConfig, err := source.Lookup("gemini")
	require.NoError(t, err)
	assert.Equal(t, "g-key", geminiConfig.APIKey)
	assert.Equal(t, 15, geminiConfig.TimeoutSeconds)
	assert.Equal(t, "gemini-pro", geminiConfig.Model)
}

func TestLoadFile_MissingFileIsEmpty(t *testing.T) {
	source, err := LoadFile(filepath.Join(t.TempDir(), "absent.yml"), []CredentialStore{staticStore{"anthropic": "a-key"}})
	require.NoError(t, err)

	config, err := source.Lookup("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "a-key", config.APIKey)
	assert.Equal(t, []string{"anthropic", "gemini", "openai"}, source.ProviderIDs())
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "providers: [unterminated")
	_, err := LoadFile(path, []CredentialStore{})
	assert.Error(t, err)
}

func TestLookup_NoKeyIsNotConfigured(t *testing.T) {
	source, err := LoadFile("", []CredentialStore{})
	require.NoError(t, err)

	_, err = source.Lookup("openai")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestLookup_UnknownProvider(t *testing.T) {
	source := NewMemorySource(staticStore{"mistral": "m-key"})

	_, err := source.Lookup("mistral")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLookup_CustomProviderNeedsBaseURLAndModel(t *testing.T) {
	source := NewMemorySource()
	source.Set(ai.ProviderConfig{ProviderID: "local", APIKey: "x"})

	_, err := source.Lookup("local")
	assert.ErrorIs(t, err, ErrNotConfigured)

	source.Set(ai.ProviderConfig{ProviderID: "local", APIKey: "x", BaseURL: "http://127.0.0.1:8080", Model: "m"})
	config, err := source.Lookup("local")
	require.NoError(t, err)
	assert.Equal(t, "local", config.ProviderID)
	assert.Contains(t, source.ProviderIDs(), "local")
}

func TestLookup_FileKeyWinsOverStores(t *testing.T) {
	source := NewMemorySource(staticStore{"openai": "from-store"})
	source.Set(ai.ProviderConfig{ProviderID: "openai", APIKey: "from-config"})

	config, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "from-config", config.APIKey)
}

func TestLookup_BrokenStoreFallsThrough(t *testing.T) {
	source := NewMemorySource(brokenStore{}, staticStore{"openai": "fallback"})

	config, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "fallback", config.APIKey)

	source = NewMemorySource(brokenStore{})
	_, err = source.Lookup("openai")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorContains(t, err, "keyring locked")
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore()

	_, err := store.Get("openai")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, store.Set("openai", "sk-keyring"))
	key, err := store.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-keyring", key)

	require.NoError(t, store.Delete("openai"))
	require.NoError(t, store.Delete("openai"))
	_, err = store.Get("openai")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestEnvStore(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "")

	key, err := EnvStore{}.Get("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)

	_, err = EnvStore{}.Get("gemini")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
	_, err = EnvStore{}.Get("unknown")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestDefaultCredentials_KeyringBeforeEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("OPENAI_API_KEY", "env-key")
	require.NoError(t, NewKeyringStore().Set("openai", "keyring-key"))

	source, err := LoadFile("", nil)
	require.NoError(t, err)
	config, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "keyring-key", config.APIKey)
}

func TestFileSource_ReloadKeepsSnapshotOnError(t *testing.T) {
	path := writeConfig(t, "providers:\n  openai:\n    api_key: first\n")
	source, err := LoadFile(path, []CredentialStore{})
	require.NoError(t, err)

	snapshot, err := source.Lookup("openai")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("providers:\n  openai:\n    api_key: second\n"), 0o600))
	require.NoError(t, source.Reload())
	updated, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "second", updated.APIKey)
	assert.Equal(t, "first", snapshot.APIKey)

	require.NoError(t, os.WriteFile(path, []byte("providers: [broken"), 0o600))
	assert.Error(t, source.Reload())
	kept, err := source.Lookup("openai")
	require.NoError(t, err)
	assert.Equal(t, "second", kept.APIKey)
}

func TestFileSource_WatchReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "providers:\n  gemini:\n    api_key: before\n")
	source, err := LoadFile(path, []CredentialStore{})
	require.NoError(t, err)

	reloaded := make(chan error, 8)
	require.NoError(t, source.Watch(func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(path, []byte("providers:\n  gemini:\n    api_key: after\n"), 0o600))

	require.Eventually(t, func() bool {
		config, err := source.Lookup("gemini")
		return err == nil && config.APIKey == "after"
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case err := <-reloaded:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}
}

func TestFileSource_WatchWithoutPath(t *testing.T) {
	source, err := LoadFile("", []CredentialStore{})
	require.NoError(t, err)
	assert.Error(t, source.Watch(nil))
}
