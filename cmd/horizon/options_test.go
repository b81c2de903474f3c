package main

import (
	"testing"

	"github.com/goliatone/go-authform/cmd/horizon/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsOverrideConfig(t *testing.T) {
	opts, err := ParseOptions([]string{"--addr", ":9000", "-d", "file::memory:", "--debug"})
	require.NoError(t, err)

	cfg := &config.BaseConfig{
		App:         config.App{Addr: ":8572"},
		Persistence: config.Persistence{DSN: "file:horizon.db"},
	}
	opts.Apply(cfg)

	assert.Equal(t, ":9000", cfg.App.Addr)
	assert.Equal(t, "file::memory:", cfg.Persistence.DSN)
	assert.True(t, cfg.App.Debug)
}

func TestOptionsEmptyKeepsConfig(t *testing.T) {
	opts, err := ParseOptions(nil)
	require.NoError(t, err)

	cfg := &config.BaseConfig{App: config.App{Addr: ":8572"}}
	opts.Apply(cfg)

	assert.Equal(t, ":8572", cfg.App.Addr)
	assert.False(t, cfg.App.Debug)
}
