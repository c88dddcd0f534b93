package ir

import (
	"context"
	"fmt"
)

type InMemorySource struct {
	Name    string
	Kind    SourceKind
	Content string
}

// InMemoryDiscovery is a test implementation of Discovery that stores data in memory
type InMemoryDiscovery struct {
	sources  []*SourceMetadata
	contents map[SourceID]string
}

// NewInMemoryDiscovery creates a new InMemoryDiscovery instance
func NewInMemoryDiscovery(srcs []InMemorySource) *InMemoryDiscovery {
	discovery := &InMemoryDiscovery{
		contents: make(map[SourceID]string),
	}
	for _, src := range srcs {
		id := SourceID(src.Name)
		discovery.sources = append(discovery.sources, &SourceMetadata{
			ID:       id,
			Kind:     src.Kind,
			FilePath: src.Name,
		})
		discovery.contents[id] = src.Content
	}
	return discovery
}

// SchemaSource is shorthand for an in-memory schema file.
func SchemaSource(name, content string) InMemorySource {
	return InMemorySource{Name: name, Kind: SourceSchema, Content: content}
}

// ClientSource is shorthand for an in-memory client document.
func ClientSource(name, content string) InMemorySource {
	return InMemorySource{Name: name, Kind: SourceClient, Content: content}
}

// ListMetadata implements Discovery interface
func (d *InMemoryDiscovery) ListMetadata(ctx context.Context) ([]*SourceMetadata, error) {
	return append([]*SourceMetadata(nil), d.sources...), nil
}

// ReadSource implements Discovery interface
func (d *InMemoryDiscovery) ReadSource(ctx context.Context, id SourceID) (string, error) {
	content, exists := d.contents[id]
	if !exists {
		return "", fmt.Errorf("source %q not found", id)
	}
	return content, nil
}
