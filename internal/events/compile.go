package events

import (
	"time"

	"github.com/hanpama/selectiongraph/internal/ir"
)

// PassStart is published when a compile pass begins.
type PassStart struct {
	Entrypoints int
}

// PassFinish is published when a compile pass ends, successful or not.
type PassFinish struct {
	Artifacts   int
	Diagnostics int
	Failed      int
	Err         error
	Duration    time.Duration
}

// ValidationFinish carries the diagnostics found before merging.
type ValidationFinish struct {
	Selectables int
	Diagnostics int
}

type EntrypointStart struct {
	Entrypoint ir.SelectableID
}

type EntrypointFinish struct {
	Entrypoint     ir.SelectableID
	RefetchQueries int
	Variables      int
	Err            error
	Duration       time.Duration
}

// ArtifactWritten is published for every file written to the artifact
// directory.
type ArtifactWritten struct {
	Entrypoint ir.SelectableID
	Path       string
	Bytes      int
}
