// Package config contains process-level settings for langfusectl.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds tunables resolved from the process environment.
// Command-line flags override these; built-in defaults apply when neither is set.
type Settings struct {
	// Kubeconfig is the kubeconfig path passed to kubectl, empty for the default chain.
	Kubeconfig string `env:"KUBECONFIG"`
	// KubeContext selects a kubeconfig context by name.
	KubeContext string `env:"LANGFUSECTL_KUBE_CONTEXT"`
	// ArgoNamespace is the namespace the Argo CD control plane is installed into.
	ArgoNamespace string `env:"LANGFUSECTL_ARGOCD_NAMESPACE" envDefault:"argocd"`
	// InstallManifestURL points at the Argo CD install manifest applied by the install step.
	InstallManifestURL string `env:"LANGFUSECTL_ARGOCD_INSTALL_MANIFEST" envDefault:"https://raw.githubusercontent.com/argoproj/argo-cd/stable/manifests/install.yaml"`
	// InstallTimeout bounds the wait for the Argo CD server to become ready.
	InstallTimeout time.Duration `env:"LANGFUSECTL_INSTALL_TIMEOUT" envDefault:"300s"`
	// AcceptTimeout bounds the post-apply wait for the control plane to acknowledge an application.
	AcceptTimeout time.Duration `env:"LANGFUSECTL_ACCEPT_TIMEOUT" envDefault:"30s"`
	// RegistryPath is the path to the environment registry document.
	RegistryPath string `env:"LANGFUSECTL_ENVIRONMENTS" envDefault:"environments.yaml"`
	// SecretsPath is the path to the secrets document applied by the provisioning step.
	SecretsPath string `env:"LANGFUSECTL_SECRETS" envDefault:"secrets/langfuse-secrets.yaml"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse settings from environment: %w", err)
	}
	return s, nil
}
