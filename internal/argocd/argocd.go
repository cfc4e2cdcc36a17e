// Package argocd provides low-level integration with the Argo CD control plane via its CLI.
package argocd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client wraps argocd CLI execution against the control plane running in-cluster.
type Client struct {
	// CoreMode runs the CLI in --core mode, talking to the control plane through
	// the current kubeconfig instead of an exposed API server endpoint.
	CoreMode bool
	// Namespace is the control-plane namespace used in core mode.
	Namespace string
}

// NewClient constructs a new Argo CD client wrapper for the given control-plane namespace.
func NewClient(namespace string) *Client {
	return &Client{
		CoreMode:  true,
		Namespace: namespace,
	}
}

// ClientVersion checks that the argocd CLI binary is functional.
func (c *Client) ClientVersion(ctx context.Context) error {
	_, err := c.runArgocd(ctx, "version", "--client")
	return err
}

// AppGet fetches the state of a named application. A missing application is
// reported through the notFound return, not as an error.
func (c *Client) AppGet(ctx context.Context, name string) (output string, notFound bool, err error) {
	out, err := c.runArgocd(ctx, "app", "get", name)
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "not found") {
			return "", true, nil
		}
		return "", false, err
	}
	return string(out), false, nil
}

// AppSync requests a one-off sync of a named application without waiting for completion.
func (c *Client) AppSync(ctx context.Context, name string) error {
	_, err := c.runArgocd(ctx, "app", "sync", name, "--async")
	return err
}

func (c *Client) runArgocd(ctx context.Context, args ...string) ([]byte, error) {
	cmdArgs := make([]string, 0, len(args)+3)
	cmdArgs = append(cmdArgs, args...)
	if c.CoreMode {
		cmdArgs = append(cmdArgs, "--core")
		if c.Namespace != "" {
			cmdArgs = append(cmdArgs, "-n", c.Namespace)
		}
	}

	cmd := exec.CommandContext(ctx, "argocd", cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("argocd %s failed: %s", strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}
