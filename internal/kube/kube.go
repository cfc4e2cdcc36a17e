// Package kube provides low-level integration with Kubernetes via kubectl.
package kube

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Client wraps kubectl execution with optional kubeconfig and context selection.
type Client struct {
	Kubeconfig string
	Context    string
}

// NewClient constructs a new Kubernetes client wrapper.
func NewClient(kubeconfig, context string) *Client {
	return &Client{
		Kubeconfig: kubeconfig,
		Context:    context,
	}
}

// Version checks that the kubectl client binary is functional.
func (c *Client) Version(ctx context.Context) error {
	_, err := c.runKubectl(ctx, nil, "version", "--client")
	return err
}

// ClusterInfo checks that the cluster API server is reachable.
func (c *Client) ClusterInfo(ctx context.Context) error {
	_, err := c.runKubectl(ctx, nil, "cluster-info")
	return err
}

// Apply applies the given multi-document YAML to the cluster using kubectl apply -f -.
func (c *Client) Apply(ctx context.Context, yaml []byte) error {
	_, err := c.runKubectl(ctx, yaml, "apply", "-f", "-")
	return err
}

// ApplyURL applies a manifest referenced by URL or path into the given namespace.
func (c *Client) ApplyURL(ctx context.Context, namespace, ref string) error {
	args := []string{"apply", "-f", ref}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	_, err := c.runKubectl(ctx, nil, args...)
	return err
}

// EnsureNamespace creates a namespace if it does not exist and leaves it unchanged otherwise.
func (c *Client) EnsureNamespace(ctx context.Context, name string) error {
	_, err := c.runKubectl(ctx, nil, "create", "namespace", name)
	if err != nil {
		if strings.Contains(err.Error(), "AlreadyExists") || strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return err
	}
	return nil
}

// NamespaceExists reports whether a namespace is present in the cluster.
func (c *Client) NamespaceExists(ctx context.Context, name string) bool {
	_, err := c.runKubectl(ctx, nil, "get", "namespace", name)
	return err == nil
}

// WaitForDeployments waits until all deployments in the given namespace are Available.
func (c *Client) WaitForDeployments(ctx context.Context, namespace, timeout string) error {
	if timeout == "" {
		timeout = "300s"
	}
	args := []string{"wait", "--for=condition=Available", "deployment", "--all", fmt.Sprintf("--timeout=%s", timeout)}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	_, err := c.runKubectl(ctx, nil, args...)
	return err
}

// SecretKey reads a single key from a secret via jsonpath and returns the raw (still encoded) value.
func (c *Client) SecretKey(ctx context.Context, namespace, name, key string) (string, error) {
	args := []string{
		"get", "secret", name,
		"-n", namespace,
		"-o", fmt.Sprintf("jsonpath={.data.%s}", key),
	}
	out, err := c.runKubectl(ctx, nil, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// List returns the kubectl get output for the given comma-separated kinds in a namespace.
// A NotFound answer is reported through the notFound return, not as an error.
func (c *Client) List(ctx context.Context, namespace, kinds string) (output string, notFound bool, err error) {
	args := []string{"get", kinds}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}
	out, err := c.runKubectl(ctx, nil, args...)
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "not found") {
			return "", true, nil
		}
		return "", false, err
	}
	if strings.Contains(string(out), "No resources found") {
		return string(out), true, nil
	}
	return string(out), false, nil
}

// runKubectl executes kubectl with the client's kubeconfig/context and returns captured stdout.
// Stderr is folded into the returned error so callers can surface the raw diagnostic.
func (c *Client) runKubectl(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmdArgs := make([]string, 0, len(args)+2)
	if c.Context != "" {
		cmdArgs = append(cmdArgs, "--context", c.Context)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, "kubectl", cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	if c.Kubeconfig != "" {
		env := os.Environ()
		env = append(env, "KUBECONFIG="+c.Kubeconfig)
		cmd.Env = env
	}

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("kubectl %s failed: %s", strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}
