// Package logging writes compile lifecycle events to a logr.Logger.
package logging

import (
	"context"
	"io"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	eventbus "github.com/hanpama/selectiongraph/internal/eventbus"
	events "github.com/hanpama/selectiongraph/internal/events"
	passid "github.com/hanpama/selectiongraph/internal/passid"
)

// New returns a stdr logger writing to w. Entrypoint progress is logged at
// V(1) and artifact writes at V(2).
func New(w io.Writer, verbosity int) logr.Logger {
	stdr.SetVerbosity(verbosity)
	return stdr.New(log.New(w, "", log.LstdFlags)).WithName("selectiongraph")
}

// Register subscribes logger to b, or to the global bus when b is nil.
func Register(b *eventbus.Bus, logger logr.Logger) (unsubscribe func()) {
	l := &subscriber{logger: logger}
	var subs []func()
	if b == nil {
		subs = append(subs,
			eventbus.Subscribe(l.passStart),
			eventbus.Subscribe(l.validationFinish),
			eventbus.Subscribe(l.entrypointFinish),
			eventbus.Subscribe(l.artifactWritten),
			eventbus.Subscribe(l.passFinish),
		)
	} else {
		subs = append(subs,
			eventbus.On(b, l.passStart),
			eventbus.On(b, l.validationFinish),
			eventbus.On(b, l.entrypointFinish),
			eventbus.On(b, l.artifactWritten),
			eventbus.On(b, l.passFinish),
		)
	}
	return func() {
		for _, sub := range subs {
			sub()
		}
	}
}

type subscriber struct {
	logger logr.Logger
}

func (l *subscriber) with(ctx context.Context) logr.Logger {
	if pid, ok := passid.FromContext(ctx); ok {
		return l.logger.WithValues("pass", pid)
	}
	return l.logger
}

func (l *subscriber) passStart(ctx context.Context, e events.PassStart) {
	l.with(ctx).Info("compile started", "entrypoints", e.Entrypoints)
}

func (l *subscriber) validationFinish(ctx context.Context, e events.ValidationFinish) {
	if e.Diagnostics > 0 {
		l.with(ctx).Info("validation found errors", "selectables", e.Selectables, "diagnostics", e.Diagnostics)
	}
}

func (l *subscriber) entrypointFinish(ctx context.Context, e events.EntrypointFinish) {
	logger := l.with(ctx).WithValues("entrypoint", e.Entrypoint.String())
	if e.Err != nil {
		logger.Error(e.Err, "entrypoint failed")
		return
	}
	logger.V(1).Info("entrypoint compiled",
		"refetchQueries", e.RefetchQueries,
		"variables", e.Variables,
		"duration", e.Duration)
}

func (l *subscriber) artifactWritten(ctx context.Context, e events.ArtifactWritten) {
	l.with(ctx).V(2).Info("artifact written", "path", e.Path, "bytes", e.Bytes)
}

func (l *subscriber) passFinish(ctx context.Context, e events.PassFinish) {
	logger := l.with(ctx)
	if e.Err != nil {
		logger.Error(e.Err, "compile failed", "failed", e.Failed, "diagnostics", e.Diagnostics)
		return
	}
	logger.Info("compile finished", "artifacts", e.Artifacts, "duration", e.Duration)
}
