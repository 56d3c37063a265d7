// Package app implements the application layer for weave.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/engine/generator"
	"go.trai.ch/weave/internal/ui/style"
	"go.trai.ch/zerr"
)

// App loads declarations and drives the generator.
type App struct {
	configLoader ports.ConfigLoader
	generator    *generator.Generator
	watcher      ports.Watcher
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, gen *generator.Generator, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		generator:    gen,
		logger:       log,
	}
}

// WithWatcher enables Watch.
func (a *App) WithWatcher(w ports.Watcher) *App {
	a.watcher = w
	return a
}

// RunOptions configures Generate and Check.
type RunOptions struct {
	ConfigPath string
	OutDir     string
	Injectors  []string
	Jobs       int
	Force      bool
}

// Generate resolves every selected injector and writes the plans of those that
// resolved cleanly.
func (a *App) Generate(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, false)
}

// Check resolves every selected injector without writing anything.
func (a *App) Check(ctx context.Context, opts RunOptions) error {
	return a.run(ctx, opts, true)
}

// Watch generates once and again every time the declaration file changes, until ctx
// is done. Failed runs are reported and do not end the loop.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	if a.watcher == nil {
		return zerr.New("watching is not available")
	}
	if err := a.watcher.Start(ctx, opts.ConfigPath); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to watch declarations"), "path", opts.ConfigPath)
	}
	defer func() { _ = a.watcher.Stop() }()

	a.regenerate(ctx, opts)
	a.logger.Info(fmt.Sprintf("%s watching %s", style.Dot, opts.ConfigPath))
	for paths := range a.watcher.Changes() {
		a.logger.Debug("changed: " + strings.Join(paths, ", "))
		a.regenerate(ctx, opts)
	}
	return nil
}

func (a *App) regenerate(ctx context.Context, opts RunOptions) {
	err := a.run(ctx, opts, false)
	if err == nil || errors.Is(err, domain.ErrGenerationFailed) || ctx.Err() != nil {
		return
	}
	a.logger.Error(err)
}

func (a *App) run(ctx context.Context, opts RunOptions, checkOnly bool) error {
	ws, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load declarations")
	}

	results, err := a.generator.Run(ctx, ws, generator.Options{
		OutDir:      opts.OutDir,
		Injectors:   opts.Injectors,
		Parallelism: opts.Jobs,
		Force:       opts.Force,
		CheckOnly:   checkOnly,
	})
	for _, res := range results {
		a.summarize(res)
	}
	return err
}

func (a *App) summarize(res generator.Result) {
	switch res.Status {
	case generator.StatusGenerated:
		a.logger.Info(fmt.Sprintf("%s %s: %d getters written to %s", style.Check, res.Injector, res.Getters, res.OutputPath))
	case generator.StatusUpToDate:
		a.logger.Info(fmt.Sprintf("%s %s: up to date", style.Tilde, res.Injector))
	case generator.StatusChecked:
		a.logger.Info(fmt.Sprintf("%s %s: ok", style.Check, res.Injector))
	case generator.StatusFailed:
		a.logger.Info(fmt.Sprintf("%s %s: %d problems", style.Cross, res.Injector, countErrors(res.Diagnostics)))
	default:
		a.logger.Debug(fmt.Sprintf("%s %s: %s", style.Dot, res.Injector, res.Status))
	}
}

func countErrors(diags []domain.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == domain.SeverityError {
			n++
		}
	}
	return n
}

// Clean removes the generation record store so the next run regenerates everything.
func (a *App) Clean(_ context.Context) error {
	if err := os.Remove(domain.DefaultStatePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove generation records"), "path", domain.DefaultStatePath)
	}
	a.logger.Info("removed generation records")
	return nil
}
