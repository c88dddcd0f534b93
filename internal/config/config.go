// Package config loads the compiler's project configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config describes one project. Relative paths are resolved against the
// directory holding the config file.
type Config struct {
	// Schema is a directory of *.graphql schema files, or a single file.
	Schema string `yaml:"schema"`
	// ProjectRoot holds the *.iso.graphql client documents.
	ProjectRoot       string    `yaml:"project_root"`
	ArtifactDirectory string    `yaml:"artifact_directory"`
	Options           Options   `yaml:"options"`
	Telemetry         Telemetry `yaml:"telemetry"`
	Verbosity         int       `yaml:"verbosity"`
}

type Options struct {
	// EmitQueryText adds GraphQL text for the entrypoint and refetch
	// queries to each artifact.
	EmitQueryText bool `yaml:"emit_query_text"`
}

type Telemetry struct {
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

const DefaultService = "selectiongraph"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Schema:            ".",
		ProjectRoot:       ".",
		ArtifactDirectory: "__generated__",
		Options:           Options{EmitQueryText: true},
		Telemetry:         Telemetry{Service: DefaultService},
	}
}

// Load reads the YAML (or JSON) file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes data over the defaults without resolving paths.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Schema == "" {
		return errors.New("schema is required")
	}
	if c.ArtifactDirectory == "" {
		return errors.New("artifact_directory is required")
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative, got %d", c.Verbosity)
	}
	if c.Telemetry.Service == "" {
		c.Telemetry.Service = DefaultService
	}
	return nil
}

func (c *Config) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Schema = abs(c.Schema)
	c.ProjectRoot = abs(c.ProjectRoot)
	c.ArtifactDirectory = abs(c.ArtifactDirectory)
}
