// Package render produces Argo CD Application and ApplicationSet descriptors
// from environment records using embedded templates.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/langfuse-k8s/langfusectl/internal/env"
	"github.com/langfuse-k8s/langfusectl/internal/registry"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Descriptor templates use [[ ]] delimiters so that Argo CD's own {{ }}
// placeholders pass through rendering untouched.
const (
	leftDelim  = "[["
	rightDelim = "]]"

	applicationTemplate    = "templates/application.yaml.tmpl"
	applicationSetTemplate = "templates/applicationset.yaml.tmpl"
)

// Renderer renders deployment descriptors with a shared variable map.
type Renderer struct {
	argoNamespace string
	vars          env.Vars
}

// NewRenderer constructs a Renderer targeting the given control-plane namespace.
// vars feeds the envOr template function; nil is treated as empty.
func NewRenderer(argoNamespace string, vars env.Vars) *Renderer {
	if vars == nil {
		vars = env.Vars{}
	}
	return &Renderer{
		argoNamespace: argoNamespace,
		vars:          vars,
	}
}

// templateContext is the data exposed to descriptor templates.
type templateContext struct {
	// ArgoNamespace is the control-plane namespace descriptors are created in.
	ArgoNamespace string
	// Record is set for single-environment descriptors.
	Record registry.EnvironmentRecord
	// Records is set for the list-generator descriptor.
	Records []registry.EnvironmentRecord
}

// Application renders the single-environment Application descriptor for a record.
func (r *Renderer) Application(rec registry.EnvironmentRecord) ([]byte, error) {
	return r.render(applicationTemplate, templateContext{
		ArgoNamespace: r.argoNamespace,
		Record:        rec,
	})
}

// ApplicationSet renders the list-generator descriptor covering every record.
// The control plane expands it into exactly one deployment unit per record.
func (r *Renderer) ApplicationSet(records []registry.EnvironmentRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("applicationset requires at least one environment record")
	}
	return r.render(applicationSetTemplate, templateContext{
		ArgoNamespace: r.argoNamespace,
		Records:       records,
	})
}

func (r *Renderer) render(name string, ctx templateContext) ([]byte, error) {
	raw, err := builtinTemplates.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read builtin template %q: %w", name, err)
	}

	tmpl, err := template.New(name).Delims(leftDelim, rightDelim).Funcs(r.funcMap()).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// funcMap constructs the helper functions available in descriptor templates.
func (r *Renderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"default": funcDef,
		"envOr":   funcEnvOr(r.vars),
		"slug":    funcSlug,
	}
}

// funcDef returns def when value is empty or whitespace, otherwise value.
func funcDef(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// funcEnvOr returns a function that looks up a key in vars and falls back to def.
func funcEnvOr(vars env.Vars) func(key, def string) string {
	return func(key, def string) string {
		if v, ok := vars[key]; ok && v != "" {
			return v
		}
		return def
	}
}

// funcSlug normalizes a value into a lower-case dash-separated slug.
func funcSlug(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.ReplaceAll(v, " ", "-")
	v = strings.ReplaceAll(v, "_", "-")
	return v
}
