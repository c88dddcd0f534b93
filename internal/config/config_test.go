package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selectiongraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema: schema
project_root: src
artifact_directory: /tmp/out
options:
  emit_query_text: false
telemetry:
  endpoint: localhost:4317
verbosity: 2
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	want := &Config{
		Schema:            filepath.Join(dir, "schema"),
		ProjectRoot:       filepath.Join(dir, "src"),
		ArtifactDirectory: "/tmp/out",
		Options:           Options{EmitQueryText: false},
		Telemetry:         Telemetry{Endpoint: "localhost:4317", Service: DefaultService},
		Verbosity:         2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	got, err := Parse(nil)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	// JSON is valid YAML
	got, err = Parse([]byte(`{"schema": "api.graphql", "options": {"emit_query_text": true}}`))
	require.NoError(t, err)
	require.Equal(t, "api.graphql", got.Schema)
	require.Equal(t, "__generated__", got.ArtifactDirectory)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown field", "schmea: x\n", "field schmea not found"},
		{"empty schema", "schema: \"\"\n", "schema is required"},
		{"negative verbosity", "verbosity: -1\n", "verbosity must not be negative"},
		{"bad yaml", "schema: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config")
}
