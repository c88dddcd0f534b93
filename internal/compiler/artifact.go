package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	eventbus "github.com/hanpama/selectiongraph/internal/eventbus"
	events "github.com/hanpama/selectiongraph/internal/events"
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/merged"
)

// Artifact is everything generated for one entrypoint.
type Artifact struct {
	Entrypoint     ir.SelectableID          `json:"entrypoint"`
	QueryName      string                   `json:"queryName"`
	Operation      string                   `json:"operation"`
	Variables      []*ir.ArgumentDefinition `json:"variables"`
	Selections     *merged.Map              `json:"selections"`
	QueryText      string                   `json:"queryText,omitempty"`
	RefetchQueries []*RefetchArtifact       `json:"refetchQueries"`
}

type RefetchArtifact struct {
	*merged.RefetchQuery
	QueryName string `json:"queryName"`
	Operation string `json:"operation"`
	QueryText string `json:"queryText,omitempty"`
	// RefetchQueries shadows the embedded field with named, rendered queries.
	RefetchQueries []*RefetchArtifact `json:"refetchQueries,omitempty"`
}

const (
	artifactFileName  = "entrypoint.json"
	queryTextFileName = "query_text.graphql"
)

// ArtifactPath is where WriteArtifacts puts the artifact of id under dir.
func ArtifactPath(dir string, id ir.SelectableID) string {
	return filepath.Join(dir, id.Parent, id.Name, artifactFileName)
}

// WriteArtifacts writes each artifact as indented JSON, plus its query text
// when present.
func WriteArtifacts(ctx context.Context, dir string, artifacts []*Artifact) error {
	for _, a := range artifacts {
		path := ArtifactPath(dir, a.Entrypoint)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("encode artifact %s: %w", a.Entrypoint, err)
		}
		data = append(data, '\n')
		if err := writeFile(ctx, a.Entrypoint, path, data); err != nil {
			return err
		}
		if a.QueryText == "" {
			continue
		}
		textPath := filepath.Join(filepath.Dir(path), queryTextFileName)
		if err := writeFile(ctx, a.Entrypoint, textPath, []byte(a.QueryText)); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(ctx context.Context, id ir.SelectableID, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", id, err)
	}
	eventbus.Publish(ctx, events.ArtifactWritten{Entrypoint: id, Path: path, Bytes: len(data)})
	return nil
}
