package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/langfuse-k8s/langfusectl/internal/env"
	"github.com/langfuse-k8s/langfusectl/internal/registry"
)

func devRecord() registry.EnvironmentRecord {
	return registry.EnvironmentRecord{
		Name:                   "dev-eu2-su1",
		ClusterURL:             "https://kubernetes.default.svc",
		ChartVersion:           "1.5.18",
		AutoSync:               true,
		Hostname:               "langfuse-dev.typeface.ai",
		PostgresHost:           "pg.dev.internal",
		ClickhouseHost:         "ch.dev.internal",
		ClickhouseMigrationURL: "clickhouse://ch.dev.internal:9440",
		RedisHost:              "redis.dev.internal",
		StorageBucket:          "langfuse-dev-events",
		StorageEndpoint:        "https://storage.dev.internal",
	}
}

func TestApplicationDescriptor(t *testing.T) {
	r := NewRenderer("argocd", nil)

	doc, err := r.Application(devRecord())
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(doc, &parsed), "descriptor must be valid YAML")

	text := string(doc)
	assert.Contains(t, text, "name: langfuse-dev-eu2-su1")
	assert.Contains(t, text, "namespace: argocd")
	assert.Contains(t, text, `targetRevision: "1.5.18"`)
	assert.Contains(t, text, "host: langfuse-dev.typeface.ai")
	assert.Contains(t, text, "server: https://kubernetes.default.svc")
	assert.Contains(t, text, "automated:", "autoSync record enables automated sync policy")
}

func TestApplicationNoAutomatedSyncWhenDisabled(t *testing.T) {
	rec := devRecord()
	rec.AutoSync = false

	doc, err := NewRenderer("argocd", nil).Application(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(doc), "automated:")
	assert.Contains(t, string(doc), "CreateNamespace=true")
}

func TestApplicationChartRepoOverride(t *testing.T) {
	vars := env.Vars{"LANGFUSE_CHART_REPO": "https://mirror.internal/langfuse-k8s"}

	doc, err := NewRenderer("argocd", vars).Application(devRecord())
	require.NoError(t, err)
	assert.Contains(t, string(doc), "repoURL: https://mirror.internal/langfuse-k8s")
}

func TestApplicationSetOneElementPerRecord(t *testing.T) {
	stage := devRecord()
	stage.Name = "stage-eu2-su1"
	stage.AutoSync = false
	stage.Hostname = "langfuse-stage.typeface.ai"

	doc, err := NewRenderer("argocd", nil).ApplicationSet([]registry.EnvironmentRecord{devRecord(), stage})
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(doc, &parsed), "descriptor must be valid YAML")

	text := string(doc)
	assert.Equal(t, 2, strings.Count(text, "- name: "), "one list element per registry record")
	assert.Contains(t, text, "- name: dev-eu2-su1")
	assert.Contains(t, text, "- name: stage-eu2-su1")
	assert.Contains(t, text, "name: 'langfuse-{{ .name }}'", "unit names derive from the record name")
	assert.Contains(t, text, "kind: ApplicationSet")
}

func TestApplicationSetPreservesArgoPlaceholders(t *testing.T) {
	doc, err := NewRenderer("argocd", nil).ApplicationSet([]registry.EnvironmentRecord{devRecord()})
	require.NoError(t, err)

	text := string(doc)
	assert.Contains(t, text, "{{ .chartVersion }}", "Argo CD template placeholders survive rendering")
	assert.Contains(t, text, "{{- if .autoSync }}")
}

func TestApplicationSetRequiresRecords(t *testing.T) {
	_, err := NewRenderer("argocd", nil).ApplicationSet(nil)
	require.Error(t, err)
}
