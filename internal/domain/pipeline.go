package domain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/remix/internal/adapter"
	"github.com/mouse-blink/remix/internal/controller"
	m "github.com/mouse-blink/remix/internal/model"
)

// BuildArgs holds the parameters for one end-to-end pipeline run.
type BuildArgs struct {
	Source    m.Path
	Output    m.Path
	Threads   int
	Overrides ManifestOverrides
}

// Pipeline is the end-to-end variant build workflow: one recipe, one
// dispatch pass, one patch pass, one descriptor, one summary.
type Pipeline interface {
	Build(ctx context.Context, args BuildArgs) error
}

type pipeline struct {
	fs          adapter.BundleFSAdapter
	transformer adapter.ScriptTransformer
	ui          controller.UI
	seed        func() int64
}

// NewPipeline creates a Pipeline instance with the provided dependencies.
func NewPipeline(fs adapter.BundleFSAdapter, transformer adapter.ScriptTransformer, ui controller.UI) Pipeline {
	return &pipeline{
		fs:          fs,
		transformer: transformer,
		ui:          ui,
		seed:        func() int64 { return time.Now().UnixNano() },
	}
}

// Build runs the full pipeline. The recipe is generated once, before any
// transform starts; dispatch and module patching carry no data dependency
// on each other and run concurrently. Only a missing source root or an
// unavailable transform engine aborts the run.
func (p *pipeline) Build(ctx context.Context, args BuildArgs) error {
	info, err := p.fs.FileInfo(args.Source)
	if err != nil {
		return fmt.Errorf("source root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("source root %s is not a directory", args.Source)
	}

	if err := p.transformer.Check(); err != nil {
		return err
	}

	// Directory lifecycle: the output root starts empty on every run.
	if err := p.fs.RemoveAll(args.Output); err != nil {
		return fmt.Errorf("clean output root: %w", err)
	}

	if err := p.fs.MkdirAll(args.Output); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}

	r := rand.New(rand.NewSource(p.seed())) // #nosec G404 - build diversity, not key material

	recipe := NewRecipe(r)

	slog.Info("build started",
		"source", args.Source,
		"output", args.Output,
		"threads", args.Threads,
	)

	dispatcher := NewDispatcher(p.fs, p.transformer)
	patcher := NewPatcher(p.fs, rand.New(rand.NewSource(r.Int63()))) // #nosec G404

	var (
		outcome m.RunOutcome
		patches []m.PatchResult
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error

		outcome, err = dispatcher.Run(groupCtx, args.Source, args.Output, recipe, args.Threads)

		return err
	})

	group.Go(func() error {
		patches = patcher.PatchModules(args.Source, args.Output, args.Threads)
		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	for _, patch := range patches {
		switch {
		case patch.OK:
			outcome.Patched++
		case patch.Err != nil:
			outcome.Failed++
		}
	}

	if err := AssembleManifest(p.fs, args.Source, args.Output, args.Overrides, r); err != nil {
		slog.Warn("descriptor assembly failed", "error", err)

		outcome.Failed++
	}

	slog.Info("build finished",
		"transformed", outcome.Transformed,
		"copied", outcome.Copied,
		"skipped", outcome.Skipped,
		"patched", outcome.Patched,
		"failed", outcome.Failed,
	)

	return p.ui.DisplaySummary(outcome, patches)
}
