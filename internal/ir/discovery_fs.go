package ir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const clientDocumentSuffix = ".iso.graphql"

// FileSystemDiscovery finds schema files (*.graphql, *.graphqls) under the
// schema root and client documents (*.iso.graphql) under the client root.
type FileSystemDiscovery struct {
	paths map[SourceID]string
	metas map[SourceID]*SourceMetadata
}

// NewFileSystemDiscovery creates a new FileSystemDiscovery. The two roots may
// be the same directory.
func NewFileSystemDiscovery(ctx context.Context, schemaRoot, clientRoot string) (*FileSystemDiscovery, error) {
	if schemaRoot == "" {
		return nil, fmt.Errorf("schema root cannot be empty")
	}
	discovery := &FileSystemDiscovery{
		paths: make(map[SourceID]string),
		metas: make(map[SourceID]*SourceMetadata),
	}
	if err := discovery.walk(schemaRoot, SourceSchema); err != nil {
		return nil, err
	}
	if clientRoot != "" {
		if err := discovery.walk(clientRoot, SourceClient); err != nil {
			return nil, err
		}
	}
	return discovery, nil
}

func (d *FileSystemDiscovery) walk(root string, kind SourceKind) error {
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if sourceKindOf(entry.Name()) != kind {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %q: %w", path, err)
		}
		id := SourceID(string(kind) + ":" + filepath.ToSlash(relPath))
		d.paths[id] = path
		d.metas[id] = &SourceMetadata{
			ID:       id,
			Kind:     kind,
			FilePath: filepath.ToSlash(relPath),
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory %q: %w", root, err)
	}
	return nil
}

func sourceKindOf(name string) SourceKind {
	switch {
	case strings.HasSuffix(name, clientDocumentSuffix):
		return SourceClient
	case filepath.Ext(name) == ".graphql", filepath.Ext(name) == ".graphqls":
		return SourceSchema
	default:
		return ""
	}
}

func (d *FileSystemDiscovery) ListMetadata(ctx context.Context) ([]*SourceMetadata, error) {
	metas := make([]*SourceMetadata, 0, len(d.metas))
	for _, m := range d.metas {
		metas = append(metas, m)
	}
	return metas, nil
}

func (d *FileSystemDiscovery) ReadSource(ctx context.Context, id SourceID) (string, error) {
	fp, ok := d.paths[id]
	if !ok {
		return "", fmt.Errorf("source %q not found", id)
	}
	content, err := os.ReadFile(fp)
	if err != nil {
		return "", fmt.Errorf("failed to read source %q: %w", id, err)
	}
	return string(content), nil
}

// Load is a convenience function that creates a FileSystemDiscovery and builds the project
func Load(ctx context.Context, schemaRoot, clientRoot string) (*Project, error) {
	discovery, err := NewFileSystemDiscovery(ctx, schemaRoot, clientRoot)
	if err != nil {
		return nil, err
	}
	return Build(ctx, discovery)
}
