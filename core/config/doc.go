// Package config resolves provider configuration snapshots for the chat layer.
//
// Settings come from a YAML file loaded with koanf; API keys come from the file,
// the OS keyring or the provider's environment variable, in that order. A
// provider without a key is reported as [ErrNotConfigured] before any request
// is attempted.
package config
