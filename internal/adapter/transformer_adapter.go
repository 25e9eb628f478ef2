package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	m "github.com/mouse-blink/remix/internal/model"
)

// DefaultTransformTimeout bounds a single script transform. Pathological
// inputs can make the engine spin on control-flow flattening.
const DefaultTransformTimeout = 60 * time.Second

// ScriptTransformer abstracts the external code-rewriting engine. The engine
// is consumed purely through the recipe contract: source text in, rewritten
// text out. On failure nothing is returned; a partially transformed script
// must never leak into the output bundle.
type ScriptTransformer interface {
	// Check verifies the engine is available before a run starts. An
	// unavailable engine is the only transformer condition that aborts a run.
	Check() error

	// Transform rewrites source according to the shared recipe and returns
	// the rewritten text.
	Transform(ctx context.Context, source string, recipe m.ObfuscationRecipe) (string, error)
}

// LocalObfuscatorAdapter drives the obfuscation engine's CLI through os/exec.
type LocalObfuscatorAdapter struct {
	binary  string
	timeout time.Duration
}

// NewLocalObfuscatorAdapter constructs a LocalObfuscatorAdapter invoking the
// given engine binary with the default per-script timeout.
func NewLocalObfuscatorAdapter(binary string) *LocalObfuscatorAdapter {
	return &LocalObfuscatorAdapter{
		binary:  binary,
		timeout: DefaultTransformTimeout,
	}
}

// Check resolves the engine binary on PATH.
func (a *LocalObfuscatorAdapter) Check() error {
	if _, err := exec.LookPath(a.binary); err != nil {
		return fmt.Errorf("transform engine %q not available: %w", a.binary, err)
	}

	return nil
}

// Transform writes the source and the recipe to a scratch directory, runs
// the engine CLI, and reads back the rewritten script.
func (a *LocalObfuscatorAdapter) Transform(ctx context.Context, source string, recipe m.ObfuscationRecipe) (string, error) {
	scratch, err := os.MkdirTemp("", "remix-transform-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	defer func() { _ = os.RemoveAll(scratch) }()

	inPath := filepath.Join(scratch, "in.js")
	outPath := filepath.Join(scratch, "out.js")
	configPath := filepath.Join(scratch, "recipe.json")

	if err := os.WriteFile(inPath, []byte(source), 0o600); err != nil {
		return "", fmt.Errorf("write transform input: %w", err)
	}

	configJSON, err := json.Marshal(recipe)
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}

	if err := os.WriteFile(configPath, configJSON, 0o600); err != nil {
		return "", fmt.Errorf("write recipe config: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, a.binary, inPath, "--config", configPath, "--output", outPath)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("transform engine failed: %w: %s", err, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("read transform output: %w", err)
	}

	return string(out), nil
}
