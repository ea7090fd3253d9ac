package engine

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"UUIDRenamer/internal/access"
	"UUIDRenamer/internal/expand"
	"UUIDRenamer/internal/fsops"
	"UUIDRenamer/internal/naming"
	"UUIDRenamer/internal/resolve"
)

// Options configures an Engine. Zero values select the defaults noted on
// each field.
type Options struct {
	Fs          afero.Fs         // Default: afero.NewOsFs().
	Generator   naming.Generator // Default: upper-case UUIDs.
	Renamer     fsops.Renamer    // Default: fsops.NewRenamer(Fs).
	Acquirer    access.Acquirer  // Default: access.Nop{}.
	Workers     int              // Concurrent handle resolutions. Default: resolve.DefaultWorkers.
	MaxAttempts int              // Random names tried per file. Default: naming.DefaultMaxAttempts.
	DryRun      bool             // Plan names without renaming.
	Log         zerolog.Logger
}

// Engine runs one rename batch at a time.
type Engine struct {
	opts     Options
	state    atomic.Int32
	resolver *resolve.Resolver
	expander *expand.Expander
	names    *naming.Resolver
}

// New builds an Engine, filling unset options with defaults.
func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Generator == nil {
		opts.Generator = naming.UUIDGenerator{}
	}
	if opts.Renamer == nil {
		opts.Renamer = fsops.NewRenamer(opts.Fs)
	}
	if opts.Acquirer == nil {
		opts.Acquirer = access.Nop{}
	}
	return &Engine{
		opts:     opts,
		resolver: &resolve.Resolver{Workers: opts.Workers, Log: opts.Log},
		expander: &expand.Expander{Fs: opts.Fs, Log: opts.Log},
		names:    naming.NewResolver(opts.Fs, opts.Generator, opts.MaxAttempts),
	}
}

// State reports where the current batch is, or StateIdle.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Start runs a batch on its own goroutine and returns immediately. It
// returns ErrBusy, without touching the active batch, if one is running.
// ctx bounds handle resolution only; once renaming starts the batch runs to
// completion.
func (e *Engine) Start(ctx context.Context, handles []resolve.Handle, obs Observer) error {
	if !e.begin() {
		return ErrBusy
	}
	go e.run(ctx, handles, obs)
	return nil
}

// Run is the blocking form of Start.
func (e *Engine) Run(ctx context.Context, handles []resolve.Handle, obs Observer) (BatchResult, error) {
	if !e.begin() {
		return BatchResult{}, ErrBusy
	}
	return e.run(ctx, handles, obs), nil
}

func (e *Engine) begin() bool {
	return e.state.CompareAndSwap(int32(StateIdle), int32(StateResolving))
}

func (e *Engine) set(s State) {
	e.state.Store(int32(s))
}

func (e *Engine) run(ctx context.Context, handles []resolve.Handle, obs Observer) BatchResult {
	defer e.set(StateIdle)
	if obs == nil {
		obs = ObserverFuncs{}
	}

	res := e.batch(ctx, handles, obs)
	res.Status = summarize(res)
	e.opts.Log.Info().
		Int("renamed", len(res.Succeeded)).
		Int("failed", len(res.Failed)).
		Int("skipped", len(res.Skipped)).
		Bool("dry_run", res.DryRun).
		Msg(res.Status)
	obs.Finish(res)
	return res
}

// batch runs Resolving through Renaming and leaves the engine in StateDone.
// A batch with no files returns from the phase it was in and never enters
// StateDone; run then goes straight back to StateIdle. Access grants are
// released before it returns.
func (e *Engine) batch(ctx context.Context, handles []resolve.Handle, obs Observer) BatchResult {
	res := BatchResult{DryRun: e.opts.DryRun}

	roots := e.resolver.Resolve(ctx, handles)
	if len(roots) == 0 {
		res.NoFiles = true
		return res
	}

	scope := access.Enter(e.opts.Acquirer, roots, e.opts.Log)
	defer scope.Close()

	e.set(StateExpanding)
	expansion := e.expander.Expand(roots)
	res.Skipped = expansion.Skipped
	if len(expansion.Files) == 0 {
		res.NoFiles = true
		return res
	}

	e.set(StateRenaming)
	total := len(expansion.Files)
	e.opts.Log.Info().Int("files", total).Int("roots", len(roots)).Msgf("Renaming %d item(s)", total)
	for i, leaf := range expansion.Files {
		target, err := e.renameOne(leaf)
		if err != nil {
			e.opts.Log.Warn().Err(err).Str("file", leaf.Path).Msg("rename failed")
			res.Failed = append(res.Failed, Failure{Name: leaf.Name, Path: leaf.Path, Err: err})
		} else {
			e.opts.Log.Debug().Str("from", leaf.Path).Str("to", target).Bool("dry_run", e.opts.DryRun).Msg("renamed")
			res.Succeeded = append(res.Succeeded, Renamed{Name: leaf.Name, From: leaf.Path, To: target})
		}
		obs.Progress(Progress{Completed: i + 1, Total: total, Current: leaf.Name, Err: err})
	}
	e.set(StateDone)
	return res
}

// renameOne picks a free name beside leaf and moves it there.
func (e *Engine) renameOne(leaf expand.LeafFile) (string, error) {
	target, err := e.names.Resolve(leaf.Dir, leaf.Ext)
	if err != nil {
		return "", err
	}
	if e.opts.DryRun {
		return target, nil
	}
	if err := e.opts.Renamer.Rename(leaf.Path, target); err != nil {
		return "", err
	}
	return target, nil
}
