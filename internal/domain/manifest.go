package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/tailscale/hujson"

	"github.com/mouse-blink/remix/internal/adapter"
	m "github.com/mouse-blink/remix/internal/model"
)

// ManifestOverrides carries the CLI-provided descriptor fields. Empty
// values fall back to whatever the source descriptor declares.
type ManifestOverrides struct {
	Name    string
	Version string
}

const buildIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// AssembleManifest reads the optional source descriptor, merges the CLI
// overrides and a randomized build identifier, and writes the final
// descriptor into the output root. Hand-edited descriptors with comments or
// trailing commas are tolerated.
func AssembleManifest(fs adapter.BundleFSAdapter, source, output m.Path, overrides ManifestOverrides, r *rand.Rand) error {
	descriptor := map[string]any{}

	srcPath := fs.JoinPath(string(source), DescriptorName)

	raw, err := fs.ReadFile(srcPath)

	switch {
	case err == nil:
		standardized, err := hujson.Standardize(raw)
		if err != nil {
			return fmt.Errorf("descriptor %s: %w", DescriptorName, err)
		}

		if err := json.Unmarshal(standardized, &descriptor); err != nil {
			return fmt.Errorf("descriptor %s: %w", DescriptorName, err)
		}
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("no source descriptor, starting from defaults")
	default:
		return fmt.Errorf("read descriptor: %w", err)
	}

	if overrides.Name != "" {
		descriptor["name"] = overrides.Name
	}

	if overrides.Version != "" {
		descriptor["version"] = overrides.Version
	}

	if _, ok := descriptor["name"]; !ok {
		descriptor["name"] = "bundle"
	}

	if _, ok := descriptor["version"]; !ok {
		descriptor["version"] = "1.0.0"
	}

	descriptor["build"] = buildID(r)

	out, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}

	dstPath := fs.JoinPath(string(output), DescriptorName)
	if err := fs.WriteFile(dstPath, append(out, '\n')); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}

	return nil
}

// buildID returns a short random identifier so consecutive bundles are
// distinguishable in logs and descriptors.
func buildID(r *rand.Rand) string {
	id := make([]byte, 8)
	for i := range id {
		id[i] = buildIDAlphabet[r.Intn(len(buildIDAlphabet))]
	}

	return string(id)
}
