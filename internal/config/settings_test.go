package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "argocd", s.ArgoNamespace)
	assert.Equal(t, 300*time.Second, s.InstallTimeout)
	assert.Equal(t, "environments.yaml", s.RegistryPath)
	assert.Equal(t, "secrets/langfuse-secrets.yaml", s.SecretsPath)
	assert.NotEmpty(t, s.InstallManifestURL)
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("LANGFUSECTL_ARGOCD_NAMESPACE", "gitops")
	t.Setenv("LANGFUSECTL_INSTALL_TIMEOUT", "90s")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "gitops", s.ArgoNamespace)
	assert.Equal(t, 90*time.Second, s.InstallTimeout)
}
