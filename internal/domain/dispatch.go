package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/remix/internal/adapter"
	m "github.com/mouse-blink/remix/internal/model"
)

const (
	// ScriptExtension marks files routed through the transform engine.
	ScriptExtension = ".js"

	// BundleConfigName is the bundle's own config script. It is assembled by
	// an external collaborator and never transformed or copied here.
	BundleConfigName = "config.js"

	// DescriptorName is the package descriptor, owned by the manifest
	// assembly step.
	DescriptorName = "package.json"
)

// Dispatcher walks the direct entries of a source root and routes each one
// to exactly one terminal action: transform, copy, or skip. Binary modules
// are counted as skipped here and handled by the Patcher; subdirectories
// are never descended into.
type Dispatcher struct {
	fs          adapter.BundleFSAdapter
	transformer adapter.ScriptTransformer
}

// NewDispatcher constructs a Dispatcher from the filesystem adapter and the
// external transform capability.
func NewDispatcher(fs adapter.BundleFSAdapter, transformer adapter.ScriptTransformer) *Dispatcher {
	return &Dispatcher{
		fs:          fs,
		transformer: transformer,
	}
}

// Classify maps a direct entry name to its routing kind. Directories and
// collaborator-owned names classify as metadata so the dispatcher counts
// them without touching them.
func Classify(name string, isDir bool) m.EntryKind {
	switch {
	case isDir:
		return m.KindMetadata
	case IsNativeModule(name):
		return m.KindBinaryModule
	case name == BundleConfigName || name == DescriptorName:
		return m.KindMetadata
	case strings.HasSuffix(name, ScriptExtension):
		return m.KindScript
	default:
		return m.KindAsset
	}
}

// Run dispatches every direct entry of source into output using the shared
// recipe. Per-entry failures are absorbed into the outcome counters; only a
// missing source root aborts. Transformed + Copied + Skipped always equals
// the number of direct entries.
func (d *Dispatcher) Run(ctx context.Context, source, output m.Path, recipe m.ObfuscationRecipe, threads int) (m.RunOutcome, error) {
	dirEntries, err := d.fs.ListDir(source)
	if err != nil {
		return m.RunOutcome{}, fmt.Errorf("source root: %w", err)
	}

	if threads < 1 {
		threads = 1
	}

	entries := make([]m.SourceEntry, 0, len(dirEntries))

	for _, entry := range dirEntries {
		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		entries = append(entries, m.SourceEntry{
			RelPath: m.Path(entry.Name()),
			Kind:    Classify(entry.Name(), entry.IsDir()),
			Size:    size,
			IsDir:   entry.IsDir(),
		})
	}

	var (
		mu      sync.Mutex
		outcome m.RunOutcome
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for _, entry := range entries {
		group.Go(func() error {
			transformed, copied, failed := d.dispatch(groupCtx, entry, source, output, recipe)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case transformed:
				outcome.Transformed++
			case copied:
				outcome.Copied++
			default:
				outcome.Skipped++
			}

			if failed {
				outcome.Failed++
			}

			return nil
		})
	}

	_ = group.Wait()

	return outcome, nil
}

// dispatch routes one entry and reports (transformed, copied, failed).
// Exactly one of transformed/copied is true for a processed entry; skips
// report neither.
func (d *Dispatcher) dispatch(ctx context.Context, entry m.SourceEntry, source, output m.Path, recipe m.ObfuscationRecipe) (bool, bool, bool) {
	name := string(entry.RelPath)

	switch entry.Kind {
	case m.KindBinaryModule:
		// Owned by the patcher; accounted here so no entry goes uncounted.
		slog.Debug("binary module deferred to patcher", "entry", name)
		return false, false, false

	case m.KindMetadata:
		slog.Debug("metadata entry skipped", "entry", name)
		return false, false, false

	case m.KindScript:
		if err := d.transformScript(ctx, entry, source, output, recipe); err != nil {
			// Never fall back to copying: an untransformed script in the
			// output bundle is worse than a missing one.
			slog.Warn("script transform failed", "entry", name, "error", err)
			return false, false, true
		}

		return true, false, false

	default:
		if err := d.copyVerbatim(entry, source, output); err != nil {
			slog.Warn("copy failed", "entry", name, "error", err)
			return false, false, true
		}

		return false, true, false
	}
}

func (d *Dispatcher) transformScript(ctx context.Context, entry m.SourceEntry, source, output m.Path, recipe m.ObfuscationRecipe) error {
	srcPath := d.fs.JoinPath(string(source), string(entry.RelPath))

	content, err := d.fs.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	rewritten, err := d.transformer.Transform(ctx, string(content), recipe)
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	dstPath := d.fs.JoinPath(string(output), string(entry.RelPath))
	if err := d.fs.WriteFile(dstPath, []byte(rewritten)); err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	return nil
}

func (d *Dispatcher) copyVerbatim(entry m.SourceEntry, source, output m.Path) error {
	srcPath := d.fs.JoinPath(string(source), string(entry.RelPath))
	dstPath := d.fs.JoinPath(string(output), string(entry.RelPath))

	return d.fs.CopyFile(srcPath, dstPath)
}
