// Package registry contains the loader and typed model for environments.yaml.
package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvironmentRecord describes one target environment as declared in environments.yaml.
// Records are immutable once loaded; each maps to exactly one deployment unit.
type EnvironmentRecord struct {
	// Name uniquely identifies the environment within the registry.
	Name string `yaml:"name"`
	// ClusterURL is the destination cluster API server for the deployment unit.
	ClusterURL string `yaml:"clusterURL"`
	// ChartVersion pins the Langfuse chart version deployed to this environment.
	ChartVersion string `yaml:"chartVersion"`
	// AutoSync enables automated reconciliation for this environment's application.
	AutoSync bool `yaml:"autoSync"`
	// Hostname is the external hostname served by the environment's ingress.
	Hostname string `yaml:"hostname"`
	// PostgresHost is the Postgres endpoint for the environment.
	PostgresHost string `yaml:"postgresHost"`
	// ClickhouseHost is the ClickHouse endpoint for the environment.
	ClickhouseHost string `yaml:"clickhouseHost"`
	// ClickhouseMigrationURL is the ClickHouse migration connection string.
	ClickhouseMigrationURL string `yaml:"clickhouseMigrationURL"`
	// RedisHost is the Redis endpoint for the environment.
	RedisHost string `yaml:"redisHost"`
	// StorageBucket is the object-storage bucket backing event uploads.
	StorageBucket string `yaml:"storageBucket"`
	// StorageEndpoint is the object-storage API endpoint.
	StorageEndpoint string `yaml:"storageEndpoint"`
}

// UnitName derives the deterministic deployment-unit name for the record.
func (r EnvironmentRecord) UnitName() string {
	return "langfuse-" + r.Name
}

// Registry is the loaded, validated set of environment records.
type Registry struct {
	// Records lists environments in declaration order.
	Records []EnvironmentRecord
	// EnvFiles lists .env files declared for descriptor templating.
	EnvFiles []string
	// BaseDir is the directory the registry document was loaded from.
	BaseDir string
}

// document mirrors the top-level structure of environments.yaml.
type document struct {
	EnvFiles     []string            `yaml:"envFiles"`
	Environments []EnvironmentRecord `yaml:"environments"`
}

// ParseError indicates the registry document could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse registry %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IncompleteRecordError indicates a record is missing a required field.
type IncompleteRecordError struct {
	// Env is the record name, or its positional description when the name itself is missing.
	Env string
	// Field is the required field that is absent.
	Field string
}

func (e *IncompleteRecordError) Error() string {
	return fmt.Sprintf("environment %q: missing required field %q", e.Env, e.Field)
}

// DuplicateEnvironmentError indicates two records share the same name.
type DuplicateEnvironmentError struct {
	Env string
}

func (e *DuplicateEnvironmentError) Error() string {
	return fmt.Sprintf("duplicate environment name %q", e.Env)
}

// Load reads and validates the registry document at path.
// On any validation failure no partial registry is returned.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if len(doc.Environments) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("no environments declared")}
	}

	seen := make(map[string]struct{}, len(doc.Environments))
	for i, rec := range doc.Environments {
		if err := validateRecord(i, rec); err != nil {
			return nil, err
		}
		if _, dup := seen[rec.Name]; dup {
			return nil, &DuplicateEnvironmentError{Env: rec.Name}
		}
		seen[rec.Name] = struct{}{}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &Registry{
		Records:  doc.Environments,
		EnvFiles: doc.EnvFiles,
		BaseDir:  filepath.Dir(absPath),
	}, nil
}

// Get returns the record with the given name.
func (r *Registry) Get(name string) (EnvironmentRecord, error) {
	for _, rec := range r.Records {
		if rec.Name == name {
			return rec, nil
		}
	}
	return EnvironmentRecord{}, fmt.Errorf("environment %q not declared in registry", name)
}

func validateRecord(index int, rec EnvironmentRecord) error {
	name := rec.Name
	if name == "" {
		return &IncompleteRecordError{Env: fmt.Sprintf("record #%d", index), Field: "name"}
	}

	required := []struct {
		field string
		value string
	}{
		{"clusterURL", rec.ClusterURL},
		{"chartVersion", rec.ChartVersion},
		{"hostname", rec.Hostname},
		{"postgresHost", rec.PostgresHost},
		{"clickhouseHost", rec.ClickhouseHost},
		{"clickhouseMigrationURL", rec.ClickhouseMigrationURL},
		{"redisHost", rec.RedisHost},
		{"storageBucket", rec.StorageBucket},
		{"storageEndpoint", rec.StorageEndpoint},
	}
	for _, req := range required {
		if req.value == "" {
			return &IncompleteRecordError{Env: name, Field: req.field}
		}
	}
	return nil
}
