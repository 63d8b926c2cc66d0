package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leofalp/chatstream/providers/ai"
	"github.com/leofalp/chatstream/providers/ai/anthropic"
	"github.com/leofalp/chatstream/providers/ai/gemini"
	"github.com/leofalp/chatstream/providers/ai/openai"
)

// ErrNotConfigured is returned by Lookup when a provider has no usable
// configuration or credential. It is a pre-flight failure: no request is sent.
var ErrNotConfigured = errors.New("provider not configured")

// Source resolves provider configuration snapshots.
type Source interface {
	// Lookup returns a complete configuration, API key included, or an error
	// wrapping ErrNotConfigured.
	Lookup(providerID string) (ai.ProviderConfig, error)

	// ProviderIDs lists the providers this source knows about, sorted.
	ProviderIDs() []string
}

// ProviderInfo describes a supported provider and its defaults.
type ProviderInfo struct {
	ID             string
	DisplayName    string
	DefaultBaseURL string
	DefaultModel   string
	EnvKey         string // environment variable holding the API key
}

// KnownProviders lists every provider with a codec.
var KnownProviders = []ProviderInfo{
	{ID: openai.ProviderID, DisplayName: "OpenAI", DefaultBaseURL: openai.DefaultBaseURL, DefaultModel: openai.DefaultModel, EnvKey: "OPENAI_API_KEY"},
	{ID: gemini.ProviderID, DisplayName: "Gemini", DefaultBaseURL: gemini.DefaultBaseURL, DefaultModel: gemini.DefaultModel, EnvKey: "GEMINI_API_KEY"},
	{ID: anthropic.ProviderID, DisplayName: "Anthropic", DefaultBaseURL: anthropic.DefaultBaseURL, DefaultModel: anthropic.DefaultModel, EnvKey: "ANTHROPIC_API_KEY"},
}

// Info returns the ProviderInfo for id.
func Info(providerID string) (ProviderInfo, bool) {
	for _, info := range KnownProviders {
		if info.ID == providerID {
			return info, true
		}
	}
	return ProviderInfo{}, false
}

// WithDefaults fills unset fields of config from the provider defaults and the
// global defaults (60 s timeout, anthropic-version 2023-06-01).
func WithDefaults(providerID string, config ai.ProviderConfig) ai.ProviderConfig {
	config.ProviderID = providerID
	if info, ok := Info(providerID); ok {
		if config.BaseURL == "" {
			config.BaseURL = info.DefaultBaseURL
		}
		if config.Model == "" {
			config.Model = info.DefaultModel
		}
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = ai.DefaultTimeoutSeconds
	}
	if config.AnthropicVersion == "" {
		config.AnthropicVersion = ai.DefaultAnthropicVersion
	}
	return config
}

// resolve completes an entry: defaults, then the API key from the entry or the
// first credential store that has one.
func resolve(providerID string, entry ai.ProviderConfig, present bool, credentials []CredentialStore) (ai.ProviderConfig, error) {
	if _, known := Info(providerID); !present && !known {
		return ai.ProviderConfig{}, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, providerID)
	}

	config := WithDefaults(providerID, entry)
	if config.APIKey == "" {
		key, err := lookupCredential(providerID, credentials)
		if err != nil {
			return ai.ProviderConfig{}, err
		}
		config.APIKey = key
	}
	if config.APIKey == "" {
		return ai.ProviderConfig{}, fmt.Errorf("%w: %s: %w", ErrNotConfigured, providerID, ai.ErrMissingAPIKey)
	}
	if config.BaseURL == "" || config.Model == "" {
		return ai.ProviderConfig{}, fmt.Errorf("%w: %s: base_url and model are required", ErrNotConfigured, providerID)
	}
	return config, nil
}

// sortedIDs merges configured ids with the known providers.
func sortedIDs(configured map[string]ai.ProviderConfig) []string {
	seen := make(map[string]bool, len(configured)+len(KnownProviders))
	ids := make([]string, 0, len(configured)+len(KnownProviders))
	for _, info := range KnownProviders {
		seen[info.ID] = true
		ids = append(ids, info.ID)
	}
	for id := range configured {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
