// Package generator runs resolution, reachability and emission for every injector of a workspace.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/engine/implicit"
	"go.trai.ch/weave/internal/engine/reachability"
	"go.trai.ch/weave/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Status represents the outcome of generating one injector.
type Status string

const (
	// StatusPending indicates the injector has not been processed yet.
	StatusPending Status = "Pending"
	// StatusChecked indicates the injector resolved without errors and nothing was written.
	StatusChecked Status = "Checked"
	// StatusGenerated indicates the injector was written.
	StatusGenerated Status = "Generated"
	// StatusUpToDate indicates the previous output is still valid.
	StatusUpToDate Status = "UpToDate"
	// StatusFailed indicates resolution reported errors.
	StatusFailed Status = "Failed"
)

// Options controls a generation run.
type Options struct {
	// OutDir is where the code writer puts generated units.
	OutDir string
	// Injectors restricts the run to the named injectors. Empty means all.
	Injectors []string
	// Parallelism bounds the number of trees processed at once. Zero means one per CPU.
	Parallelism int
	// Force regenerates injectors whose inputs did not change.
	Force bool
	// CheckOnly stops after resolution.
	CheckOnly bool
}

// Result reports what happened to one injector.
type Result struct {
	Injector    string
	Status      Status
	OutputPath  string
	Getters     int
	Diagnostics []domain.Diagnostic
	// Err is set when the injector could not be generated.
	Err error
}

// Generator processes the injector trees of a workspace. Trees share no mutable
// state, so each one runs with its own diagnostics, creator and resolver.
type Generator struct {
	writer ports.CodeWriter
	store  ports.GenerationStore
	hasher ports.Hasher
	tracer ports.Tracer
	logger ports.Logger

	mu     sync.RWMutex
	status map[string]Status
}

// New creates a Generator with the given dependencies.
func New(
	writer ports.CodeWriter,
	store ports.GenerationStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	logger ports.Logger,
) *Generator {
	return &Generator{
		writer: writer,
		store:  store,
		hasher: hasher,
		tracer: tracer,
		logger: logger,
		status: make(map[string]Status),
	}
}

// Status returns the last known status of an injector.
func (g *Generator) Status(injector string) Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if s, ok := g.status[injector]; ok {
		return s
	}
	return StatusPending
}

func (g *Generator) updateStatus(injector string, status Status) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status[injector] = status
}

// Run generates the selected injectors. Trees with resolution errors are not
// written; their errors are joined under domain.ErrGenerationFailed. An internal
// invariant violation stops the whole run.
func (g *Generator) Run(ctx context.Context, ws *domain.Workspace, opts Options) ([]Result, error) {
	trees, err := selectTrees(ws, opts.Injectors)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(trees))
	for i, tree := range trees {
		names[i] = tree.Name()
		g.updateStatus(names[i], StatusPending)
	}
	g.tracer.EmitPlan(ctx, names)

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	results := make([]Result, len(trees))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, tree := range trees {
		eg.Go(func() error {
			res, err := g.generate(ctx, ws, tree, opts)
			results[i] = res
			g.updateStatus(res.Injector, res.Status)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}

	failures := make([]error, 0, len(results))
	for _, res := range results {
		failures = append(failures, res.Err)
	}
	if joined := errors.Join(failures...); joined != nil {
		return results, errors.Join(domain.ErrGenerationFailed, joined)
	}
	return results, nil
}

func selectTrees(ws *domain.Workspace, filter []string) ([]*domain.Tree, error) {
	if len(filter) == 0 {
		return ws.Injectors, nil
	}
	trees := make([]*domain.Tree, 0, len(filter))
	for _, name := range filter {
		tree, ok := ws.Injector(name)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrInjectorNotFound, "unknown injector"), "injector", name)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

// generate processes one tree. Problems of the tree itself end up in Result.Err;
// the returned error is fatal for the run.
func (g *Generator) generate(ctx context.Context, ws *domain.Workspace, tree *domain.Tree, opts Options) (Result, error) {
	name := tree.Name()
	res := Result{Injector: name, Status: StatusFailed}

	ctx, span := g.tracer.Start(ctx, name, ports.WithAttribute("weave.injector", name))
	defer span.End()

	diags := domain.NewDiagnostics()
	r := resolver.New(implicit.NewCreator(ws.Types), diags, g.logger)
	if err := r.ResolveTree(tree); err != nil {
		span.RecordError(err)
		g.reportDiagnostics(name, diags)
		return res, zerr.With(zerr.Wrap(err, "internal error while resolving"), "injector", name)
	}

	res.Diagnostics = diags.Entries()
	g.reportDiagnostics(name, diags)
	if err := diags.Err(); err != nil {
		span.RecordError(err)
		res.Err = zerr.With(err, "injector", name)
		return res, nil
	}

	if opts.CheckOnly {
		res.Status = StatusChecked
		return res, nil
	}

	plan := BuildPlan(tree, reachability.New(tree), domain.DefaultNamer{})
	res.Getters = plan.GetterCount()
	span.SetAttribute("weave.getters", res.Getters)

	inputHash, err := g.hasher.ComputeInputHash(ws, name)
	if err != nil {
		span.RecordError(err)
		res.Err = zerr.With(zerr.Wrap(err, "failed to fingerprint injector"), "injector", name)
		return res, nil
	}

	if !opts.Force {
		if path, ok := g.upToDate(name, inputHash); ok {
			span.SetAttribute("weave.cached", true)
			res.Status = StatusUpToDate
			res.OutputPath = path
			return res, nil
		}
	}

	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	path, err := g.writer.Write(ctx, opts.OutDir, plan)
	if err != nil {
		span.RecordError(err)
		res.Err = zerr.With(zerr.Wrap(err, "failed to write injector"), "injector", name)
		return res, nil
	}
	_, _ = fmt.Fprintf(span, "wrote %d getters to %s\n", res.Getters, path)

	outputHash, err := g.hasher.ComputePlanHash(plan)
	if err != nil {
		span.RecordError(err)
		res.Err = zerr.With(zerr.Wrap(err, "failed to fingerprint plan"), "injector", name)
		return res, nil
	}

	record := domain.GenerationRecord{
		Injector:   name,
		InputHash:  inputHash,
		OutputHash: outputHash,
		OutputPath: path,
		Timestamp:  time.Now(),
	}
	if err := g.store.Put(record); err != nil {
		span.RecordError(err)
		res.Err = zerr.With(zerr.Wrap(err, "failed to store generation record"), "injector", name)
		return res, nil
	}

	res.Status = StatusGenerated
	res.OutputPath = path
	return res, nil
}

// upToDate reports whether the stored record matches inputHash and its output still exists.
func (g *Generator) upToDate(injector, inputHash string) (string, bool) {
	record, err := g.store.Get(injector)
	if err != nil || record == nil || record.InputHash != inputHash {
		return "", false
	}
	if _, err := os.Stat(record.OutputPath); err != nil {
		return "", false
	}
	return record.OutputPath, true
}

func (g *Generator) reportDiagnostics(injector string, diags *domain.Diagnostics) {
	for _, d := range diags.Entries() {
		if d.Severity == domain.SeverityWarning {
			g.logger.Warn(injector + ": " + d.Error())
			continue
		}
		g.logger.Error(zerr.With(zerr.Wrap(d, "resolution failed"), "injector", injector))
	}
}
