package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanforge/oceanforge/internal/config"
)

func TestSelectEnvironment_Default(t *testing.T) {
	cfg := testConfig()

	env, err := selectEnvironment(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "staging", env.Name)
}

func TestSelectEnvironment_ByName(t *testing.T) {
	cfg := testConfig()

	env, err := selectEnvironment(cfg, "production")
	require.NoError(t, err)
	assert.Equal(t, "production", env.Name)
	assert.Equal(t, "ams3", env.Cluster.Region)
}

func TestSelectEnvironment_Unknown(t *testing.T) {
	cfg := testConfig()

	_, err := selectEnvironment(cfg, "qa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qa")
	assert.Contains(t, err.Error(), "staging")
}

func TestSelectEnvironment_NoneConfigured(t *testing.T) {
	cfg := &config.Config{}

	_, err := selectEnvironment(cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no environments")
}

func TestLoadConfig_FindError(t *testing.T) {
	origFind := findConfigFile
	findConfigFile = func(path string) (string, error) {
		return "", assert.AnError
	}
	t.Cleanup(func() { findConfigFile = origFind })

	_, err := loadConfig("")
	assert.Error(t, err)
}
