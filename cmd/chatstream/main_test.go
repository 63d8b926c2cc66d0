package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/chatstream/core/config"
	"github.com/leofalp/chatstream/providers/ai"
)

func TestProbeResult(t *testing.T) {
	assert.Equal(t, ai.ProbeSuccess, probeResult(ai.ProbeSuccess, nil))
	assert.Equal(t, "not configured", probeResult("", fmt.Errorf("%w: openai", config.ErrNotConfigured)))
	assert.Equal(t, "failed [AUTH_ERROR] bad key", probeResult("", &ai.StreamError{Code: ai.CodeAuth, Message: "bad key"}))
	assert.Equal(t, "failed: boom", probeResult("", errors.New("boom")))
}

func TestModelOverride(t *testing.T) {
	source := config.NewMemorySource()
	source.Set(ai.ProviderConfig{ProviderID: "gemini", APIKey: "k"})

	resolved, err := modelOverride{Source: source, model: "gemini-1.5-flash"}.Lookup("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", resolved.Model)

	_, err = modelOverride{Source: source, model: "x"}.Lookup("openai")
	assert.ErrorIs(t, err, config.ErrNotConfigured)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, sub := range root.Commands {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"send", "test", "providers", "auth"}, names)
}
