// Package compiler runs a compile pass: it validates every client selectable,
// merges each entrypoint into one normalized selection tree and splits its
// refetch queries out.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventbus "github.com/hanpama/selectiongraph/internal/eventbus"
	events "github.com/hanpama/selectiongraph/internal/events"
	"github.com/hanpama/selectiongraph/internal/ir"
	"github.com/hanpama/selectiongraph/internal/merged"
	passid "github.com/hanpama/selectiongraph/internal/passid"
	"github.com/hanpama/selectiongraph/internal/querytext"
	"github.com/hanpama/selectiongraph/internal/validate"
)

type Options struct {
	EmitQueryText bool
}

// Compiler owns the memo shared by the entrypoints of a pass. It is not safe
// for concurrent use.
type Compiler struct {
	project *ir.Project
	memo    *merged.Memo
	opts    Options
}

func New(project *ir.Project, opts Options) *Compiler {
	return &Compiler{project: project, memo: merged.NewMemo(), opts: opts}
}

// SetProject replaces the catalog used by the next pass.
func (c *Compiler) SetProject(project *ir.Project) { c.project = project }

func (c *Compiler) Memo() *merged.Memo { return c.memo }

// Result holds the outcome of one pass. An entrypoint that fails does not
// prevent artifacts for the others.
type Result struct {
	Artifacts   []*Artifact
	Diagnostics validate.Diagnostics
	Failed      []*EntrypointError
}

// Err reports every diagnostic and failed entrypoint, or nil.
func (r *Result) Err() error {
	var errs []error
	if err := r.Diagnostics.Err(); err != nil {
		errs = append(errs, err)
	}
	for _, f := range r.Failed {
		if _, ok := f.Err.(validate.Diagnostics); ok {
			continue
		}
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

type EntrypointError struct {
	Entrypoint ir.SelectableID
	Err        error
}

func (e *EntrypointError) Error() string {
	return fmt.Sprintf("entrypoint %s: %v", e.Entrypoint, e.Err)
}

func (e *EntrypointError) Unwrap() error { return e.Err }

// Compile runs one pass over the project. The memo is reset first, so the
// pass sees the catalog as it is now. The returned error is non-nil only for
// internal errors; user-facing failures are in the result.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	ctx, _ = passid.NewContext(ctx)
	start := time.Now()
	entrypoints := c.project.Entrypoints()
	eventbus.Publish(ctx, events.PassStart{Entrypoints: len(entrypoints)})

	c.memo.Reset()
	result := &Result{}
	selectables := c.project.ClientSelectables()
	result.Diagnostics = validate.New(c.project).ValidateAll(selectables)
	eventbus.Publish(ctx, events.ValidationFinish{
		Selectables: len(selectables),
		Diagnostics: len(result.Diagnostics),
	})
	invalid := make(map[ir.SelectableID]validate.Diagnostics)
	for _, d := range result.Diagnostics {
		invalid[d.Owner] = append(invalid[d.Owner], d)
	}

	b := merged.NewBuilder(c.project, c.memo)
	var internal []error
	for _, id := range entrypoints {
		var artifact *Artifact
		var err error
		if ds := blockingDiagnostics(c.project, id, invalid); len(ds) > 0 {
			err = ds
		} else {
			artifact, err = c.compileEntrypoint(ctx, b, id)
		}
		if err != nil {
			result.Failed = append(result.Failed, &EntrypointError{Entrypoint: id, Err: err})
			if errors.Is(err, merged.ErrInternal) {
				internal = append(internal, err)
			}
			continue
		}
		result.Artifacts = append(result.Artifacts, artifact)
	}

	err := errors.Join(internal...)
	finish := events.PassFinish{
		Artifacts:   len(result.Artifacts),
		Diagnostics: len(result.Diagnostics),
		Failed:      len(result.Failed),
		Err:         err,
		Duration:    time.Since(start),
	}
	if finish.Err == nil {
		finish.Err = result.Err()
	}
	eventbus.Publish(ctx, finish)
	if err != nil {
		return result, err
	}
	return result, nil
}

func (c *Compiler) compileEntrypoint(ctx context.Context, b *merged.Builder, id ir.SelectableID) (artifact *Artifact, err error) {
	start := time.Now()
	eventbus.Publish(ctx, events.EntrypointStart{Entrypoint: id})
	defer func() {
		finish := events.EntrypointFinish{Entrypoint: id, Err: err, Duration: time.Since(start)}
		if artifact != nil {
			finish.RefetchQueries = len(artifact.RefetchQueries)
			finish.Variables = len(artifact.Variables)
		}
		eventbus.Publish(ctx, finish)
	}()

	s, ok := c.project.Selectable(id.Parent, id.Name)
	if !ok {
		return nil, fmt.Errorf("%w: entrypoint %s not found", merged.ErrInternal, id)
	}
	traversal, err := b.MergeClientSelectable(id)
	if err != nil {
		return nil, err
	}
	index, err := b.IndexRefetchPaths(traversal.Selections, traversal.State, s.Arguments)
	if err != nil {
		return nil, err
	}

	name := queryName(id)
	artifact = &Artifact{
		Entrypoint: id,
		QueryName:  name,
		Operation:  c.project.OperationFor(id.Parent),
		Variables:  merged.PruneVariables(s.Arguments, merged.ReachableVariables(traversal.Selections)),
		Selections: traversal.Selections,
	}
	artifact.RefetchQueries = c.refetchArtifacts(name, index.Queries)
	if c.opts.EmitQueryText {
		artifact.QueryText = querytext.Render(&querytext.Operation{
			Kind:       artifact.Operation,
			Name:       artifact.QueryName,
			Variables:  artifact.Variables,
			Selections: artifact.Selections,
		})
	}
	return artifact, nil
}

// refetchArtifacts names each query after its parent, recursing into the
// queries split out of loadables.
func (c *Compiler) refetchArtifacts(parent string, queries []*merged.RefetchQuery) []*RefetchArtifact {
	var out []*RefetchArtifact
	for _, q := range queries {
		r := &RefetchArtifact{
			RefetchQuery: q,
			QueryName:    refetchQueryName(parent, q.Index),
			Operation:    c.project.OperationFor(q.RootFetchableType),
		}
		if c.opts.EmitQueryText {
			r.QueryText = querytext.Render(&querytext.Operation{
				Kind:       r.Operation,
				Name:       r.QueryName,
				Variables:  q.VariableDefinitions,
				Selections: q.Selections,
			})
		}
		r.RefetchQueries = c.refetchArtifacts(r.QueryName, q.RefetchQueries)
		out = append(out, r)
	}
	return out
}

func queryName(id ir.SelectableID) string { return id.Parent + "__" + id.Name }

func refetchQueryName(entrypoint string, index int) string {
	return fmt.Sprintf("%s__refetch__%d", entrypoint, index)
}
