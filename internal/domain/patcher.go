package domain

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/remix/internal/adapter"
	m "github.com/mouse-blink/remix/internal/model"
)

// NativeModules is the fixed set of compiled binary modules the patcher
// targets. The set is not discovered dynamically; a module absent from the
// source tree is skipped, not failed.
var NativeModules = []string{"binding.node", "vendor.node", "updater.node"}

const (
	// headerPointerOffset is the fixed position of the 4-byte little-endian
	// header pointer (e_lfanew) in the DOS stub.
	headerPointerOffset = 0x3C

	// headerMagic is "PE\0\0" read big-endian at the header pointer.
	headerMagic = 0x50450000

	// timestampFieldDelta is the offset of the COFF TimeDateStamp field
	// relative to the header pointer.
	timestampFieldDelta = 8

	// trailerLength is the size of the random block appended after all
	// format-significant content. A correct loader ignores it, but it
	// changes the whole-file digest on every build.
	trailerLength = 128

	// timestampJitter bounds how far into the past the rewritten build
	// timestamp may fall, in seconds.
	timestampJitter = 100000
)

// Patcher rewrites binary module headers so their content digest differs
// between builds while runtime behavior is preserved.
type Patcher struct {
	fs   adapter.BundleFSAdapter
	rand *rand.Rand
	mu   sync.Mutex // rand.Rand is not safe for concurrent module patches
	now  func() time.Time
}

// NewPatcher constructs a Patcher backed by the provided filesystem adapter.
func NewPatcher(fs adapter.BundleFSAdapter, r *rand.Rand) *Patcher {
	return &Patcher{
		fs:   fs,
		rand: r,
		now:  time.Now,
	}
}

// PatchModule returns a patched copy of the module bytes and the result of
// the attempt. The input buffer is never mutated.
//
// The header pointer at 0x3C is validated before any field rewrite: it must
// reference a position with at least 4 readable bytes, and those bytes must
// hold the header magic. On validation failure the field rewrite is skipped
// but the random trailer is still appended, so patching stays best-effort
// and the digest still changes.
func (p *Patcher) PatchModule(name string, data []byte) ([]byte, m.PatchResult) {
	result := m.PatchResult{
		Module:      name,
		InputDigest: adapter.DigestBytes(data),
	}

	patched := make([]byte, len(data), len(data)+trailerLength)
	copy(patched, data)

	if ptr, ok := p.locateHeader(patched); ok {
		result.HeaderLocated = true
		p.rewriteTimestamp(patched, ptr)
	}

	trailer := make([]byte, trailerLength)
	if _, err := cryptorand.Read(trailer); err != nil {
		result.Err = fmt.Errorf("random trailer: %w", err)
		return data, result
	}

	patched = append(patched, trailer...)

	result.BytesAppended = trailerLength
	result.OutputDigest = adapter.DigestBytes(patched)
	result.OK = true

	return patched, result
}

// locateHeader reads the header pointer and verifies the magic behind it.
func (p *Patcher) locateHeader(data []byte) (uint32, bool) {
	if len(data) < headerPointerOffset+4 {
		return 0, false
	}

	ptr := binary.LittleEndian.Uint32(data[headerPointerOffset:])
	if int(ptr)+4 > len(data) {
		return 0, false
	}

	// The original packer read the magic big-endian regardless of the
	// pointer value; keep that behavior.
	if binary.BigEndian.Uint32(data[ptr:]) != headerMagic {
		return 0, false
	}

	return ptr, true
}

// rewriteTimestamp overwrites the TimeDateStamp field with a plausible-past
// value so consecutive builds never share a header timestamp.
func (p *Patcher) rewriteTimestamp(data []byte, headerPtr uint32) {
	offset := int(headerPtr) + timestampFieldDelta
	if offset+4 > len(data) {
		return
	}

	p.mu.Lock()
	jitter := int64(p.rand.Intn(timestampJitter))
	p.mu.Unlock()

	stamp := uint32(p.now().Unix() - jitter)
	binary.LittleEndian.PutUint32(data[offset:], stamp)
}

// PatchModules runs the patcher over the fixed module set, reading each
// module from the source root and writing the patched copy into the output
// root. One module's failure never aborts the others.
func (p *Patcher) PatchModules(source, output m.Path, threads int) []m.PatchResult {
	if threads < 1 {
		threads = 1
	}

	results := make([]m.PatchResult, len(NativeModules))

	var group errgroup.Group

	group.SetLimit(threads)

	for i, name := range NativeModules {
		group.Go(func() error {
			results[i] = p.patchOne(name, source, output)
			return nil
		})
	}

	_ = group.Wait()

	return results
}

func (p *Patcher) patchOne(name string, source, output m.Path) m.PatchResult {
	srcPath := p.fs.JoinPath(string(source), name)

	if _, err := p.fs.FileInfo(srcPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("binary module not present, skipping", "module", name)
			return m.PatchResult{Module: name}
		}

		slog.Warn("binary module unreadable", "module", name, "error", err)

		return m.PatchResult{Module: name, Err: err}
	}

	data, err := p.fs.ReadFile(srcPath)
	if err != nil {
		slog.Warn("read binary module", "module", name, "error", err)
		return m.PatchResult{Module: name, Err: err}
	}

	patched, result := p.PatchModule(name, data)
	if result.Err != nil {
		slog.Warn("patch binary module", "module", name, "error", result.Err)
		return result
	}

	dstPath := p.fs.JoinPath(string(output), name)
	if err := p.fs.WriteFile(dstPath, patched); err != nil {
		result.OK = false
		result.Err = fmt.Errorf("write patched module: %w", err)
		slog.Warn("write binary module", "module", name, "error", err)

		return result
	}

	slog.Debug("patched binary module",
		"module", name,
		"headerLocated", result.HeaderLocated,
		"before", result.InputDigest,
		"after", result.OutputDigest,
	)

	return result
}

// IsNativeModule reports whether name belongs to the fixed module set.
func IsNativeModule(name string) bool {
	for _, module := range NativeModules {
		if name == module {
			return true
		}
	}

	return false
}
