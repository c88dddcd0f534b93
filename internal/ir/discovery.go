package ir

import (
	"context"
)

type SourceKind string

const (
	SourceSchema SourceKind = "SCHEMA"
	SourceClient SourceKind = "CLIENT"
)

// SourceID is a unique identifier for a source file.
// ex. "schema/user.graphql"
type SourceID string

type SourceMetadata struct {
	ID       SourceID   `json:"id"`
	Kind     SourceKind `json:"kind"`
	FilePath string     `json:"filePath"`
}

type Discovery interface {
	ListMetadata(ctx context.Context) ([]*SourceMetadata, error)
	ReadSource(ctx context.Context, id SourceID) (string, error)
}
